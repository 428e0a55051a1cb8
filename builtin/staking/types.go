// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"
	"math/big"

	"github.com/lossless-cash/lossless-go/lss"
)

// Side is the position a stake takes on a report.
type Side uint8

const (
	// SideAccuse backs the report against the reported address.
	SideAccuse Side = iota + 1
	// SideDefend backs the reported address.
	SideDefend
)

func (s Side) String() string {
	switch s {
	case SideAccuse:
		return "accuse"
	case SideDefend:
		return "defend"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// ParseSide parses the string form of a side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "accuse":
		return SideAccuse, nil
	case "defend":
		return SideDefend, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// Stake is the position of one staker on one report.
type Stake struct {
	Staker   lss.Address
	Amount   *big.Int
	Side     Side
	StakedAt uint64
	Payout   *big.Int
	Settled  bool
}

// Pool aggregates the stakes of a report.
type Pool struct {
	TotalAccuse *big.Int
	TotalDefend *big.Int
	Reward      *big.Int // distributed to accusers on a valid report
	ToTreasury  *big.Int
	Settled     bool
	SettledAt   uint64
}

func newPool() *Pool {
	return &Pool{
		TotalAccuse: new(big.Int),
		TotalDefend: new(big.Int),
		Reward:      new(big.Int),
		ToTreasury:  new(big.Int),
	}
}

// Total returns the total staked on the report.
func (p *Pool) Total() *big.Int {
	return new(big.Int).Add(p.TotalAccuse, p.TotalDefend)
}

type stakeKey struct {
	reportID uint64
	staker   lss.Address
}

func (k stakeKey) Bytes() []byte {
	return append(lss.Uint64Key(k.reportID).Bytes(), k.staker[:]...)
}
