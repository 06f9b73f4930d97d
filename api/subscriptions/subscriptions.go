// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/api/utils"
	"github.com/vechain/epochstake/engine"
	"github.com/vechain/epochstake/log"
	"github.com/vechain/epochstake/metrics"
)

const (
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 7) / 10
	writeTimeout = 10 * time.Second
	// feedBuffer absorbs bursts while a message is being written.
	feedBuffer = 64
)

var (
	logger                     = log.WithContext("pkg", "subscriptions")
	metricActiveWebsocketGauge = metrics.LazyLoadGauge("api_active_websocket_count")
)

type Subscriptions struct {
	engine   *engine.Engine
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	active   int64
}

func New(engine *engine.Engine, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		engine: engine,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) track(delta int64) {
	s.mu.Lock()
	s.active += delta
	metricActiveWebsocketGauge().Set(s.active)
	s.mu.Unlock()
}

// handleSubscribeEvents streams every published record. ?since=seq first
// replays the retained records after seq.
func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	var since uint64
	if v := req.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "since"))
		}
		since = n
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned
	if err != nil {
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.track(1)
	defer s.track(-1)
	defer conn.Close()

	if err := s.pipe(conn, since); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, since uint64) error {
	records := make(chan *engine.Record, feedBuffer)
	sub := s.engine.SubscribeEvents(records)
	defer sub.Unsubscribe()

	// subscribe before replaying, then skip what the replay already sent
	last := since
	for _, rec := range s.engine.RecentEvents(0) {
		if rec.Seq <= last {
			continue
		}
		if err := write(conn, rec); err != nil {
			return err
		}
		last = rec.Seq
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Trace("websocket read stopped", "err", err)
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case err := <-sub.Err():
			return err
		case rec := <-records:
			if rec.Seq <= last {
				continue
			}
			if err := write(conn, rec); err != nil {
				return err
			}
			last = rec.Seq
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return err
			}
		}
	}
}

// write bounds how long a client that stops reading can stall publishing.
func write(conn *websocket.Conn, rec *engine.Record) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(types.ConvertEvent(rec))
}

// Close drops every subscriber and waits for the handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("subscriptions_events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
