// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/lss"
)

// Event is the JSON form of a committed protocol event.
type Event struct {
	Seq       uint64                `json:"seq,omitempty"`
	Contract  lss.Address           `json:"contract"`
	Name      string                `json:"name"`
	ReportID  uint64                `json:"reportID"`
	Account   lss.Address           `json:"account"`
	Amount    *math.HexOrDecimal256 `json:"amount,omitempty"`
	Detail    string                `json:"detail,omitempty"`
	Timestamp uint64                `json:"timestamp"`
}

// Convert returns the JSON form of ev.
func Convert(ev *lss.Event, seq uint64) *Event {
	e := &Event{
		Seq:       seq,
		Contract:  ev.Contract,
		Name:      ev.Name,
		ReportID:  ev.ReportID,
		Account:   ev.Account,
		Detail:    ev.Detail,
		Timestamp: ev.Timestamp,
	}
	if ev.Amount != nil {
		e.Amount = utils.HexAmount(ev.Amount)
	}
	return e
}
