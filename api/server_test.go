// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartServer(t *testing.T) {
	srv, err := StartServer("127.0.0.1:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "ok")
	}))
	require.NoError(t, err)

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "ok", string(body))

	assert.NoError(t, srv.Stop())
	select {
	case <-srv.Done():
	case <-time.After(time.Second):
		t.Fatal("server still running")
	}

	_, err = StartServer("127.0.0.1:99999", http.NotFoundHandler())
	assert.ErrorContains(t, err, "listen API addr")
}

func TestServeReportsFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	listener.Close()

	srv := Serve(listener, "http://"+listener.Addr().String(), http.NotFoundHandler())
	select {
	case <-srv.Done():
	case <-time.After(time.Second):
		t.Fatal("server did not report the closed listener")
	}
	assert.ErrorContains(t, srv.Stop(), "serve")
}
