// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/api/utils"
	"github.com/vechain/epochstake/engine"
	estypes "github.com/vechain/epochstake/types"
)

type Governance struct {
	engine *engine.Engine
}

func New(engine *engine.Engine) *Governance {
	return &Governance{engine}
}

func (g *Governance) handlePostGovernance(w http.ResponseWriter, req *http.Request) error {
	var body types.GovernanceSettingsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	tokens := []struct {
		token *estypes.Address
		set   func(estypes.Address) (*engine.ConfigChanged, error)
	}{
		{body.GovernanceToken, g.engine.SetGovernanceToken},
		{body.StakingToken, g.engine.SetStakingToken},
		{body.ReputationToken, g.engine.SetReputationToken},
	}
	for _, t := range tokens {
		if t.token == nil {
			continue
		}
		if _, err := t.set(*t.token); err != nil {
			return err
		}
	}
	if body.Pause != nil {
		g.engine.SetGovernancePause(*body.Pause)
	}
	return utils.WriteJSON(w, types.ConvertSettings(g.engine.Settings()))
}

func (g *Governance) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("admin_post_governance").
		HandlerFunc(utils.WrapHandlerFunc(g.handlePostGovernance))
}
