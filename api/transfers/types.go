// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/lossless-cash/lossless-go/lss"
)

type Transfer struct {
	From   *lss.Address          `json:"from"`
	To     *lss.Address          `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// CheckResult tells whether a transfer would pass the transfer guard.
type CheckResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
