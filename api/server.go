// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/epochstake/co"
)

// Server is a running HTTP server.
type Server struct {
	URL  string
	srv  *http.Server
	goes co.Goes
}

// Serve serves handler on listener until Stop is called. url is reported as is.
func Serve(listener net.Listener, url string, handler http.Handler) *Server {
	s := &Server{
		URL: url,
		srv: &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second},
	}
	s.goes.GoErr(func() error {
		if err := s.srv.Serve(listener); err != http.ErrServerClosed {
			return errors.Wrapf(err, "serve %v", listener.Addr())
		}
		return nil
	})
	return s
}

// StartServer serves handler on addr.
func StartServer(addr string, handler http.Handler) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	return Serve(listener, "http://"+listener.Addr().String(), handler), nil
}

// Done is closed once the server has stopped serving, either by Stop or on failure.
func (s *Server) Done() <-chan struct{} {
	return s.goes.Done()
}

// Stop closes the server and returns the error it failed with, if any.
func (s *Server) Stop() error {
	s.srv.Close()
	return s.goes.Wait()
}
