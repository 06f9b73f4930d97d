// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/api/utils"
	"github.com/vechain/epochstake/engine"
)

type Clock struct {
	engine *engine.Engine
}

func New(engine *engine.Engine) *Clock {
	return &Clock{engine}
}

func (c *Clock) handleGetClock(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, types.ConvertClock(c.engine.Now()))
}

func (c *Clock) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("clock_get").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetClock))
}
