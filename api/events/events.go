// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/api/utils"
	"github.com/vechain/epochstake/engine"
)

type Events struct {
	engine *engine.Engine
}

func New(engine *engine.Engine) *Events {
	return &Events{engine}
}

// handleGetEvents returns the retained records, oldest first. ?limit=n keeps the latest n.
func (e *Events) handleGetEvents(w http.ResponseWriter, req *http.Request) error {
	limit := 0
	if s := req.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return utils.BadRequest(errors.Errorf("limit: invalid value %q", s))
		}
		limit = n
	}
	records := e.engine.RecentEvents(limit)
	out := make([]*types.Event, 0, len(records))
	for _, rec := range records {
		out = append(out, types.ConvertEvent(rec))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("events_get").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetEvents))
}
