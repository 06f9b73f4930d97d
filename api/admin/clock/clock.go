// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

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

func (c *Clock) handlePostClock(w http.ResponseWriter, req *http.Request) error {
	var body types.ClockRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var err error
	switch {
	case body.Advance != nil && body.Set != nil:
		return utils.BadRequest(errors.New("body: advance and set are exclusive"))
	case body.Advance != nil:
		_, err = c.engine.Advance(*body.Advance)
	case body.Set != nil:
		_, err = c.engine.SetTime(*body.Set)
	default:
		return utils.BadRequest(errors.New("body: advance or set is required"))
	}
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertClock(c.engine.Now()))
}

func (c *Clock) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("admin_post_clock").
		HandlerFunc(utils.WrapHandlerFunc(c.handlePostClock))
}
