// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/api/events"
	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/co"
	"github.com/lossless-cash/lossless-go/log"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	done     chan struct{}
	once     sync.Once
	wg       co.Goes
}

// New creates the websocket endpoints. An allowed origin of "*" accepts any origin.
func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		done: make(chan struct{}),
	}
}

// eventFilter selects the pushed events by report id and name.
type eventFilter struct {
	reportID *uint64
	names    []string
}

func (f *eventFilter) match(ev *lss.Event) bool {
	if f.reportID != nil && ev.ReportID != *f.reportID {
		return false
	}
	return len(f.names) == 0 || slices.Contains(f.names, ev.Name)
}

func parseEventFilter(req *http.Request) (*eventFilter, error) {
	query := req.URL.Query()
	f := &eventFilter{names: query["name"]}
	if s := query.Get("reportID"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "reportID"))
		}
		f.reportID = &id
	}
	return f, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseEventFilter(req)
	if err != nil {
		return err
	}
	// must subscribe before the handshake is answered
	ch := make(chan []*lss.Event, 64)
	sub := s.rt.SubscribeEvents(ch)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		sub.Unsubscribe()
		// the upgrader has responded already
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	s.wg.Go(func() {
		defer conn.Close()
		defer sub.Unsubscribe()
		if err := s.pipe(conn, filter, ch, sub); err != nil {
			logger.Debug("subscription closed", "err", err)
		}
	})
	return nil
}

// pipe pushes matching events to conn until the peer leaves or Close is called.
func (s *Subscriptions) pipe(conn *websocket.Conn, filter *eventFilter, ch <-chan []*lss.Event, sub event.Subscription) error {

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case batch := <-ch:
			for _, ev := range batch {
				if !filter.match(ev) {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(events.Convert(ev, 0)); err != nil {
					return err
				}
			}
		case err := <-sub.Err():
			return err
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-closed:
			return nil
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return nil
		}
	}
}

// Close ends all subscriptions.
func (s *Subscriptions) Close() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
