// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reporting

import (
	"fmt"
	"math/big"

	"github.com/lossless-cash/lossless-go/lss"
)

// Status is the lifecycle state of a report.
type Status uint8

const (
	StatusNone Status = iota
	StatusOpen
	StatusResolvedValid
	StatusResolvedInvalid
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusOpen:
		return "open"
	case StatusResolvedValid:
		return "resolved-valid"
	case StatusResolvedInvalid:
		return "resolved-invalid"
	case StatusExpired:
		return "expired"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// IsTerminal returns whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusResolvedValid || s == StatusResolvedInvalid || s == StatusExpired
}

// Payout records how a closed report's bond was distributed.
type Payout struct {
	ReporterReward  *big.Int
	ProtocolFee     *big.Int
	StakersFee      *big.Int
	CommitteeReward *big.Int
	Remainder       *big.Int
	Returned        *big.Int // bond returned to the reporter on expiry, or to the reported address when innocent
}

// Total returns the sum of all parts.
func (p *Payout) Total() *big.Int {
	total := new(big.Int)
	for _, v := range []*big.Int{p.ReporterReward, p.ProtocolFee, p.StakersFee, p.CommitteeReward, p.Remainder, p.Returned} {
		if v != nil {
			total.Add(total, v)
		}
	}
	return total
}

func emptyPayout() Payout {
	return Payout{
		ReporterReward:  new(big.Int),
		ProtocolFee:     new(big.Int),
		StakersFee:      new(big.Int),
		CommitteeReward: new(big.Int),
		Remainder:       new(big.Int),
		Returned:        new(big.Int),
	}
}

// Report is a fraud case against one address, optionally extended to a second one.
type Report struct {
	ID             uint64
	Reporter       lss.Address
	Reported       lss.Address
	SecondReported lss.Address
	CreatedAt      uint64
	Deadline       uint64
	Bond           *big.Int
	Status         Status
	Verdict        lss.Verdict
	ClosedAt       uint64
	Payout         Payout
}

// Accused returns the reported addresses.
func (r *Report) Accused() []lss.Address {
	if r.SecondReported.IsZero() {
		return []lss.Address{r.Reported}
	}
	return []lss.Address{r.Reported, r.SecondReported}
}

// IsAccused returns whether addr is one of the reported addresses.
func (r *Report) IsAccused(addr lss.Address) bool {
	return addr == r.Reported || (!r.SecondReported.IsZero() && addr == r.SecondReported)
}

// IsDue returns whether the report is open past its deadline at now.
func (r *Report) IsDue(now uint64) bool {
	return r.Status == StatusOpen && now > r.Deadline
}
