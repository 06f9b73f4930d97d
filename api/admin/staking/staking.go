// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/api/utils"
	"github.com/vechain/epochstake/engine"
)

type Staking struct {
	engine *engine.Engine
}

func New(engine *engine.Engine) *Staking {
	return &Staking{engine}
}

// handlePostStaking applies the set fields in order: utility token, rate,
// withdraw, pause. The first failure stops the request.
func (s *Staking) handlePostStaking(w http.ResponseWriter, req *http.Request) error {
	var body types.StakingSettingsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	var rate *decimal.Decimal
	if body.RewardRate != nil {
		r, err := decimal.NewFromString(*body.RewardRate)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "rewardRate"))
		}
		rate = &r
	}

	if body.UtilityToken != nil {
		if _, err := s.engine.SetUtilityToken(*body.UtilityToken); err != nil {
			return err
		}
	}
	if rate != nil {
		if _, err := s.engine.SetRewardRate(*rate); err != nil {
			return err
		}
	}
	if body.Withdraw != nil {
		s.engine.SetEmergencyWithdraw(*body.Withdraw)
	}
	if body.Pause != nil {
		s.engine.SetStakingPause(*body.Pause)
	}
	return utils.WriteJSON(w, types.ConvertSettings(s.engine.Settings()))
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("admin_post_staking").
		HandlerFunc(utils.WrapHandlerFunc(s.handlePostStaking))
}
