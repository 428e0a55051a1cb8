// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"fmt"
	"math/big"

	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/lss"
)

// RemainderPolicy decides where the undistributed part of a forfeited bond goes.
type RemainderPolicy uint8

const (
	RemainderTreasury RemainderPolicy = iota
	RemainderBurn
	RemainderReporter
)

func (p RemainderPolicy) String() string {
	switch p {
	case RemainderTreasury:
		return "treasury"
	case RemainderBurn:
		return "burn"
	case RemainderReporter:
		return "reporter"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParseRemainderPolicy parses the string form of a policy.
func ParseRemainderPolicy(s string) (RemainderPolicy, error) {
	for _, p := range []RemainderPolicy{RemainderTreasury, RemainderBurn, RemainderReporter} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown remainder policy %q", s)
}

// Fees are percentages of a report bond.
type Fees struct {
	ReporterReward  uint64 `json:"reporterReward" yaml:"reporterReward"`
	LosslessFee     uint64 `json:"losslessFee" yaml:"losslessFee"`
	StakersFee      uint64 `json:"stakersFee" yaml:"stakersFee"`
	CommitteeReward uint64 `json:"committeeReward" yaml:"committeeReward"`
}

// Total returns the sum of all percentages.
func (f Fees) Total() uint64 {
	return f.ReporterReward + f.LosslessFee + f.StakersFee + f.CommitteeReward
}

// Config is one version of the protocol configuration, together with its provenance.
type Config struct {
	Fees
	StakingAmount       *big.Int
	ReportingAmount     *big.Int
	ReportLifetime      uint64
	WalletDisputePeriod uint64
	RemainderPolicy     RemainderPolicy
	Treasury            lss.Address

	Version   uint64
	UpdatedBy lss.Address
	UpdatedAt uint64
	Field     string
}

// DefaultConfig returns the default configuration paying the remainder to treasury.
func DefaultConfig(treasury lss.Address) *Config {
	return &Config{
		Fees: Fees{
			ReporterReward:  lss.DefaultReporterReward,
			LosslessFee:     lss.DefaultLosslessFee,
			StakersFee:      lss.DefaultStakersFee,
			CommitteeReward: lss.DefaultCommitteeReward,
		},
		StakingAmount:       new(big.Int).Set(lss.DefaultStakingAmount),
		ReportingAmount:     new(big.Int).Set(lss.DefaultReportingAmount),
		ReportLifetime:      lss.DefaultReportLifetime,
		WalletDisputePeriod: lss.DefaultWalletDisputePeriod,
		RemainderPolicy:     RemainderTreasury,
		Treasury:            treasury,
	}
}

// Copy returns a deep copy.
func (c *Config) Copy() *Config {
	cpy := *c
	cpy.StakingAmount = copyInt(c.StakingAmount)
	cpy.ReportingAmount = copyInt(c.ReportingAmount)
	return &cpy
}

// Validate checks the configuration, failing with InvalidConfiguration.
func (c *Config) Validate() error {
	for _, pct := range []uint64{c.ReporterReward, c.LosslessFee, c.StakersFee, c.CommitteeReward} {
		if pct > lss.MaxPercent {
			return reverts.Newf(reverts.ErrInvalidConfiguration, "fee percentage %d over %d", pct, lss.MaxPercent)
		}
	}
	if total := c.Total(); total > lss.MaxPercent {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "fee percentages sum to %d", total)
	}
	if c.StakingAmount == nil || c.StakingAmount.Sign() <= 0 {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "staking amount must be positive")
	}
	if c.ReportingAmount == nil || c.ReportingAmount.Sign() <= 0 {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "reporting amount must be positive")
	}
	if c.ReportLifetime == 0 {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "report lifetime must be positive")
	}
	if c.ReportLifetime > lss.MaxPeriod {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "report lifetime over %d seconds", lss.MaxPeriod)
	}
	if c.WalletDisputePeriod > lss.MaxPeriod {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "wallet dispute period over %d seconds", lss.MaxPeriod)
	}
	if c.RemainderPolicy > RemainderReporter {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "unknown remainder policy %d", uint8(c.RemainderPolicy))
	}
	if c.Treasury.IsZero() {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "treasury must be set")
	}
	return nil
}

// Percent returns floor(amount * pct / 100).
func Percent(amount *big.Int, pct uint64) *big.Int {
	v := new(big.Int).Mul(amount, new(big.Int).SetUint64(pct))
	return v.Quo(v, big.NewInt(int64(lss.MaxPercent)))
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
