// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/lss"
)

// Config is one version of the protocol configuration.
type Config struct {
	params.Fees
	StakingAmount       *math.HexOrDecimal256 `json:"stakingAmount"`
	ReportingAmount     *math.HexOrDecimal256 `json:"reportingAmount"`
	ReportLifetime      uint64                `json:"reportLifetime"`
	WalletDisputePeriod uint64                `json:"walletDisputePeriod"`
	RemainderPolicy     string                `json:"remainderPolicy"`
	Treasury            lss.Address           `json:"treasury"`
	Version             uint64                `json:"version"`
	UpdatedBy           lss.Address           `json:"updatedBy"`
	UpdatedAt           uint64                `json:"updatedAt"`
	Field               string                `json:"field"`
}

// Update sets one field. Value is a number, an amount string, an address,
// a policy name or a fees object, depending on the field.
type Update struct {
	Caller *lss.Address    `json:"caller"`
	Value  json.RawMessage `json:"value"`
}

type Caller struct {
	Caller *lss.Address `json:"caller"`
}

type Members struct {
	Caller  *lss.Address  `json:"caller"`
	Members []lss.Address `json:"members"`
}

type Member struct {
	Caller  *lss.Address `json:"caller"`
	Address *lss.Address `json:"address"`
}

type Token struct {
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	Decimals    uint8                 `json:"decimals"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
	Paused      bool                  `json:"paused"`
}

func convertConfig(c *params.Config) *Config {
	return &Config{
		Fees:                c.Fees,
		StakingAmount:       utils.HexAmount(c.StakingAmount),
		ReportingAmount:     utils.HexAmount(c.ReportingAmount),
		ReportLifetime:      c.ReportLifetime,
		WalletDisputePeriod: c.WalletDisputePeriod,
		RemainderPolicy:     c.RemainderPolicy.String(),
		Treasury:            c.Treasury,
		Version:             c.Version,
		UpdatedBy:           c.UpdatedBy,
		UpdatedAt:           c.UpdatedAt,
		Field:               c.Field,
	}
}
