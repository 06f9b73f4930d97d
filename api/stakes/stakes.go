// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/api/utils"
	"github.com/vechain/epochstake/engine"
)

type Stakes struct {
	engine *engine.Engine
}

func New(engine *engine.Engine) *Stakes {
	return &Stakes{engine}
}

func (s *Stakes) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, types.ConvertTotals(s.engine.StakeTotals()))
}

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	participant, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertStake(s.engine.GetStake(participant)))
}

func (s *Stakes) handleStake(w http.ResponseWriter, req *http.Request) error {
	participant, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	var body types.StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("body: amount is required"))
	}
	ev, err := s.engine.Stake(participant, (*big.Int)(body.Amount), body.Duration)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertStaked(ev))
}

func (s *Stakes) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	participant, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	ev, err := s.engine.Unstake(participant)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertUnstaked(ev))
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("stakes_get_totals").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotals))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("stakes_get_stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/{address}").
		Methods(http.MethodPost).
		Name("stakes_post_stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/{address}/unstake").
		Methods(http.MethodPost).
		Name("stakes_post_unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
}
