// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/logdb"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/runtime"
)

type Events struct {
	rt    *runtime.Runtime
	limit uint64
}

func New(rt *runtime.Runtime, limit uint64) *Events {
	return &Events{rt, limit}
}

func parseUint(query url.Values, name string) (*uint64, error) {
	s := query.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return &v, nil
}

func parseAddress(query url.Values, name string) (*lss.Address, error) {
	s := query.Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := lss.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// ParseFilter reads an event filter from query parameters:
// reportID, contract, account, name (repeatable), from, to, order, offset, limit.
func ParseFilter(query url.Values, maxLimit uint64) (*logdb.EventFilter, error) {
	var (
		filter logdb.EventFilter
		err    error
	)
	if filter.ReportID, err = parseUint(query, "reportID"); err != nil {
		return nil, err
	}
	if filter.Contract, err = parseAddress(query, "contract"); err != nil {
		return nil, err
	}
	if filter.Account, err = parseAddress(query, "account"); err != nil {
		return nil, err
	}
	filter.Names = query["name"]

	from, err := parseUint(query, "from")
	if err != nil {
		return nil, err
	}
	to, err := parseUint(query, "to")
	if err != nil {
		return nil, err
	}
	if from != nil || to != nil {
		filter.Range = &logdb.Range{To: math.MaxInt64}
		if from != nil {
			filter.Range.From = *from
		}
		if to != nil {
			if *to < filter.Range.From {
				return nil, utils.BadRequest(errors.New("to: lower than from"))
			}
			filter.Range.To = *to
		}
	}

	switch order := logdb.Order(query.Get("order")); order {
	case "", logdb.ASC:
		filter.Order = logdb.ASC
	case logdb.DESC:
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(errors.Errorf("order: unknown %q", order))
	}

	offset, err := parseUint(query, "offset")
	if err != nil {
		return nil, err
	}
	limit, err := parseUint(query, "limit")
	if err != nil {
		return nil, err
	}
	filter.Options = &logdb.Options{Limit: maxLimit}
	if offset != nil {
		filter.Options.Offset = *offset
	}
	if limit != nil {
		if *limit > maxLimit {
			return nil, utils.Forbidden(errors.Errorf("limit: exceeds the maximum of %d", maxLimit))
		}
		filter.Options.Limit = *limit
	}
	return &filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := ParseFilter(req.URL.Query(), e.limit)
	if err != nil {
		return err
	}
	events, err := e.rt.Events(req.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]*Event, 0, len(events))
	for _, ev := range events {
		out = append(out, Convert(&ev.Event, ev.Seq))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
