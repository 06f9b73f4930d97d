// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package settings

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/api/utils"
	"github.com/vechain/epochstake/engine"
)

type Settings struct {
	engine *engine.Engine
}

func New(engine *engine.Engine) *Settings {
	return &Settings{engine}
}

func (s *Settings) handleGetSettings(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, types.ConvertSettings(s.engine.Settings()))
}

func (s *Settings) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("params_get").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSettings))
}
