// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lossless-cash/lossless-go/api/events"
)

var ErrUnexpectedMsg = errors.New("unexpected message")

type Client struct {
	host   string
	scheme string
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "wss://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	} else if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "ws://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	} else {
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// SubscribeEvents streams committed events. query may filter by reportID and name.
func (c *Client) SubscribeEvents(query url.Values) (*Subscription[*events.Event], error) {
	conn, err := c.connect("/subscriptions/events", query.Encode())
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[events.Event](conn), nil
}

// subscribe reads JSON messages of type T from conn until it fails or is unsubscribed.
func subscribe[T any](conn *websocket.Conn) *Subscription[*T] {
	eventChan := make(chan EventWrapper[*T])
	done := make(chan struct{})

	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				select {
				case eventChan <- EventWrapper[*T]{Error: fmt.Errorf("%w: %w", ErrUnexpectedMsg, err)}:
				case <-done:
				}
				return
			}
			select {
			case eventChan <- EventWrapper[*T]{Data: &data}:
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return &Subscription[*T]{
		EventChan: eventChan,
		Unsubscribe: func() error {
			var err error
			once.Do(func() {
				close(done)
				err = conn.Close()
			})
			return err
		},
	}
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
