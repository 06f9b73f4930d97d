// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/epochstake/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", reverts.ErrNotFound, http.StatusNotFound, "not-found"},
		{"wrapped revert", errors.WithMessage(reverts.ErrLockActive, "lock ends at 1"), http.StatusBadRequest, "lock-active"},
		{"bad request", BadRequest(errors.New("bad body")), http.StatusBadRequest, "bad-request"},
		{"bad request revert", BadRequest(reverts.ErrInvalidConfig), http.StatusBadRequest, "invalid-config"},
		{"custom status", HTTPError(errors.New("nope"), http.StatusForbidden), http.StatusForbidden, "bad-request"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.err.Error(), body.Message)
		})
	}

	rec := httptest.NewRecorder()
	WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
		return WriteJSON(w, M{"ok": true})
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"a":1,"b":2}`), &v))
}

func TestAddressVar(t *testing.T) {
	router := mux.NewRouter()
	router.Path("/{address}").HandlerFunc(WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		addr, err := AddressVar(r)
		if err != nil {
			return err
		}
		return WriteJSON(w, addr)
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/0x0000000000000000000000000000000000003333", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"0x0000000000000000000000000000000000003333"`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/0x33", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
