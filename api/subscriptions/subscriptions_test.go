// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/api/events"
	"github.com/lossless-cash/lossless-go/test/datagen"
	"github.com/lossless-cash/lossless-go/test/testnode"
)

func newServer(t *testing.T, origins ...string) (*testnode.Node, *Subscriptions, string) {
	node := testnode.New(t)
	subs := New(node.Runtime, origins)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		subs.Close()
		ts.Close()
	})
	return node, subs, "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/events"
}

func readEvent(t *testing.T, conn *websocket.Conn) *events.Event {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev events.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return &ev
}

func TestSubscribeEvents(t *testing.T) {
	node, _, url := newServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	to := datagen.RandAddress()
	require.NoError(t, node.Transfer(node.Faucet, to, big.NewInt(7)))

	ev := readEvent(t, conn)
	assert.Equal(t, "Transfer", ev.Name)
	assert.Equal(t, to, ev.Account)
	assert.Equal(t, big.NewInt(7), (*big.Int)(ev.Amount))
	assert.Equal(t, node.Faucet.String(), ev.Detail)
}

func TestSubscribeFiltered(t *testing.T) {
	node, _, url := newServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?name=ReportOpened", nil)
	require.NoError(t, err)
	defer conn.Close()

	reporter := node.Fund(t, 1000)
	reported := node.Fund(t, 1)
	id, err := node.Report(reporter, reported)
	require.NoError(t, err)

	// funding and bond transfers are filtered out
	ev := readEvent(t, conn)
	assert.Equal(t, "ReportOpened", ev.Name)
	assert.Equal(t, id, ev.ReportID)
	assert.Equal(t, reported, ev.Account)

	_, resp, err := websocket.DefaultDialer.Dial(url+"?reportID=x", nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckOrigin(t *testing.T) {
	_, _, url := newServer(t, "https://allowed.example")

	header := http.Header{}
	header.Set("Origin", "https://allowed.example")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()

	header.Set("Origin", "https://other.example")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestClose(t *testing.T) {
	_, subs, url := newServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		subs.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("close blocked")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
}
