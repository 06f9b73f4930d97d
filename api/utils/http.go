// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/epochstake/reverts"
	"github.com/vechain/epochstake/types"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandlerFunc like http.HandlerFunc, but it returns an error.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc. Revert errors are
// caller errors: not found maps to 404 and the rest to 400. An httpError
// carries its own status. Anything else is a 500.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status, body := http.StatusInternalServerError, ErrorBody{Code: "internal", Message: err.Error()}

		var he *httpError
		switch {
		case errors.As(err, &he):
			status = he.status
			body.Code = "bad-request"
			if code := reverts.CodeOf(he.cause); code != "" {
				body.Code = string(code)
			}
		case reverts.IsRevertErr(err):
			status = http.StatusBadRequest
			body.Code = string(reverts.CodeOf(err))
			if errors.Is(err, reverts.ErrNotFound) {
				status = http.StatusNotFound
			}
		}

		w.Header().Set("Content-Type", JSONContentType)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// AddressVar parses the {address} path variable.
func AddressVar(r *http.Request) (types.Address, error) {
	addr, err := types.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		return types.Address{}, BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

// M shortcut for type map[string]any.
type M map[string]any
