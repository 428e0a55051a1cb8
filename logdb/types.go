// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/lossless-cash/lossless-go/lss"
)

// Event is a committed protocol event with its position in the log.
type Event struct {
	Seq uint64
	lss.Event
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive time range in unix seconds. To is ignored when lower than From.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Every set criterion must match.
type EventFilter struct {
	ReportID *uint64
	Contract *lss.Address
	Account  *lss.Address
	Names    []string
	Range    *Range
	Order    Order
	Options  *Options
}
