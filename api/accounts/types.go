// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/lossless-cash/lossless-go/lss"
)

// Account for marshal account
type Account struct {
	Address    lss.Address           `json:"address"`
	Balance    *math.HexOrDecimal256 `json:"balance"`
	Status     string                `json:"status"`
	Permanent  bool                  `json:"permanent"`
	ReportID   uint64                `json:"reportID"`
	OpenReport uint64                `json:"openReport"`
	Protocol   bool                  `json:"protocol"`
}

// SetStatus is the body of an admin status change.
type SetStatus struct {
	Caller *lss.Address `json:"caller"`
	Status string       `json:"status"`
}
