// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lss

import (
	"math/big"
)

// Default protocol parameters.
const (
	DefaultReporterReward      = uint64(2)
	DefaultLosslessFee         = uint64(10)
	DefaultStakersFee          = uint64(2)
	DefaultCommitteeReward     = uint64(2)
	DefaultReportLifetime      = uint64(24 * 60 * 60)
	DefaultWalletDisputePeriod = uint64(7 * 24 * 60 * 60)

	// MaxPercent the upper bound of the sum of all fee percentages.
	MaxPercent = uint64(100)
	// MaxPeriod the upper bound of the report lifetime and the wallet dispute period, in seconds.
	MaxPeriod = uint64(10 * 365 * 24 * 60 * 60)
)

var (
	// DefaultStakingAmount minimum amount for a single stake.
	DefaultStakingAmount = big.NewInt(2500)
	// DefaultReportingAmount bond posted by a reporter.
	DefaultReportingAmount = big.NewInt(1000)
)
