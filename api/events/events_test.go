// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/api/events"
	"github.com/lossless-cash/lossless-go/logdb"
	"github.com/lossless-cash/lossless-go/test/testnode"
)

const limit = 50

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		err   bool
		check func(t *testing.T, f *logdb.EventFilter)
	}{
		{"empty", "", false, func(t *testing.T, f *logdb.EventFilter) {
			assert.Nil(t, f.ReportID)
			assert.Nil(t, f.Range)
			assert.Equal(t, logdb.ASC, f.Order)
			assert.Equal(t, uint64(limit), f.Options.Limit)
		}},
		{"names", "name=Transfer&name=ReportOpened", false, func(t *testing.T, f *logdb.EventFilter) {
			assert.Equal(t, []string{"Transfer", "ReportOpened"}, f.Names)
		}},
		{"report and order", "reportID=3&order=desc&offset=5&limit=10", false, func(t *testing.T, f *logdb.EventFilter) {
			require.NotNil(t, f.ReportID)
			assert.Equal(t, uint64(3), *f.ReportID)
			assert.Equal(t, logdb.DESC, f.Order)
			assert.Equal(t, uint64(5), f.Options.Offset)
			assert.Equal(t, uint64(10), f.Options.Limit)
		}},
		{"from only", "from=100", false, func(t *testing.T, f *logdb.EventFilter) {
			require.NotNil(t, f.Range)
			assert.Equal(t, uint64(100), f.Range.From)
			assert.True(t, f.Range.To > f.Range.From)
		}},
		{"range", "from=100&to=200", false, func(t *testing.T, f *logdb.EventFilter) {
			assert.Equal(t, logdb.Range{From: 100, To: 200}, *f.Range)
		}},
		{"inverted range", "from=200&to=100", true, nil},
		{"bad order", "order=random", true, nil},
		{"bad account", "account=0xzz", true, nil},
		{"bad report", "reportID=-1", true, nil},
		{"limit too high", "limit=51", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			f, err := events.ParseFilter(query, limit)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, f)
		})
	}
}

func TestFilterEvents(t *testing.T) {
	node := testnode.New(t)
	router := mux.NewRouter()
	events.New(node.Runtime, limit).Mount(router, "/events")

	get := func(query string) (int, []*events.Event) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events?"+query, nil))
		if rr.Code != http.StatusOK {
			return rr.Code, nil
		}
		var out []*events.Event
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		return rr.Code, out
	}

	reporter := node.Fund(t, 1000)
	reported := node.Fund(t, 1)
	id, err := node.Report(reporter, reported)
	require.NoError(t, err)

	code, evs := get("reportID=" + strconv.FormatUint(id, 10) + "&name=ReportOpened")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, evs, 1)
	assert.Equal(t, "ReportOpened", evs[0].Name)
	assert.Equal(t, id, evs[0].ReportID)
	assert.Equal(t, reported, evs[0].Account)
	assert.NotZero(t, evs[0].Seq)

	_, evs = get("account=" + reported.String() + "&name=Transfer")
	require.Len(t, evs, 1)
	assert.Equal(t, node.Faucet.String(), evs[0].Detail)

	_, asc := get("name=Transfer")
	_, desc := get("name=Transfer&order=desc")
	require.Equal(t, len(asc), len(desc))
	require.NotEmpty(t, asc)
	assert.Equal(t, asc[0].Seq, desc[len(desc)-1].Seq)

	_, page := get("name=Transfer&limit=1&offset=1")
	require.Len(t, page, 1)
	assert.Equal(t, asc[1].Seq, page[0].Seq)

	code, _ = get("limit=1000")
	assert.Equal(t, http.StatusForbidden, code)
}
