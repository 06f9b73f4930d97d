// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governors

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/api/utils"
	"github.com/vechain/epochstake/engine"
)

type Governors struct {
	engine *engine.Engine
}

func New(engine *engine.Engine) *Governors {
	return &Governors{engine}
}

func (g *Governors) handleGetGovernor(w http.ResponseWriter, req *http.Request) error {
	participant, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertGovernor(g.engine.GetGovernor(participant)))
}

func (g *Governors) handleAddReward(w http.ResponseWriter, req *http.Request) error {
	participant, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	ev, err := g.engine.AddGovernanceReward(participant)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertGranted(ev))
}

func (g *Governors) handleClaimReward(w http.ResponseWriter, req *http.Request) error {
	participant, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	ev, err := g.engine.ClaimGovernanceReward(participant)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertClaimed(ev))
}

func (g *Governors) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("governors_get_governor").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetGovernor))
	sub.Path("/{address}/reward").
		Methods(http.MethodPost).
		Name("governors_post_reward").
		HandlerFunc(utils.WrapHandlerFunc(g.handleAddReward))
	sub.Path("/{address}/claim").
		Methods(http.MethodPost).
		Name("governors_post_claim").
		HandlerFunc(utils.WrapHandlerFunc(g.handleClaimReward))
}
