// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lssclient is a client for a running protocol node.
package lssclient

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/lossless-cash/lossless-go/api/events"
	"github.com/lossless-cash/lossless-go/lssclient/httpclient"
	"github.com/lossless-cash/lossless-go/lssclient/wsclient"
)

var errNoWS = errors.New("client not created with websocket support")

type Client struct {
	*httpclient.Client
	wsConn *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		Client: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}
	return &Client{
		Client: httpclient.New(url),
		wsConn: wsClient,
	}, nil
}

// SubscribeEvents streams committed events matching the optional report id and names.
func (c *Client) SubscribeEvents(reportID *uint64, names ...string) (*wsclient.Subscription[*events.Event], error) {
	if c.wsConn == nil {
		return nil, errNoWS
	}
	query := url.Values{}
	if reportID != nil {
		query.Set("reportID", strconv.FormatUint(*reportID, 10))
	}
	for _, name := range names {
		query.Add("name", name)
	}
	return c.wsConn.SubscribeEvents(query)
}
