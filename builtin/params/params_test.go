// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/lvldb"
	"github.com/lossless-cash/lossless-go/state"
	"github.com/lossless-cash/lossless-go/test/datagen"
)

func newParams(t *testing.T) (*Params, lss.Address) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)

	admin := datagen.RandAddress()
	auth := authority.New(lss.BytesToAddress([]byte("Authority")), st)
	require.NoError(t, auth.Add(authority.RoleAdmin, admin))

	p := New(lss.BytesToAddress([]byte("Params")), st, auth)
	require.NoError(t, p.Init(DefaultConfig(datagen.RandAddress()), 100))
	return p, admin
}

func TestParamsInit(t *testing.T) {
	p, _ := newParams(t)

	cfg, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.Version)
	assert.Equal(t, "genesis", cfg.Field)
	assert.Equal(t, uint64(100), cfg.UpdatedAt)
	assert.Equal(t, lss.DefaultReportLifetime, cfg.ReportLifetime)
	assert.Equal(t, lss.DefaultReportingAmount, cfg.ReportingAmount)
	assert.Equal(t, RemainderTreasury, cfg.RemainderPolicy)
}

func TestParamsUpdate(t *testing.T) {
	p, admin := newParams(t)

	err := p.SetReportLifetime(datagen.RandAddress(), 60, 200)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))

	require.NoError(t, p.SetReportLifetime(admin, 60, 200))
	require.NoError(t, p.SetReportingAmount(admin, big.NewInt(5000), 300))

	cfg, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cfg.Version)
	assert.Equal(t, uint64(60), cfg.ReportLifetime)
	assert.Equal(t, big.NewInt(5000), cfg.ReportingAmount)
	assert.Equal(t, admin, cfg.UpdatedBy)
	assert.Equal(t, uint64(300), cfg.UpdatedAt)
	assert.Equal(t, "reportingAmount", cfg.Field)

	prev, err := p.History(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), prev.ReportLifetime)
	assert.Equal(t, lss.DefaultReportingAmount, prev.ReportingAmount)
	assert.Equal(t, "reportLifetime", prev.Field)

	missing, err := p.History(9)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestParamsValidation(t *testing.T) {
	p, admin := newParams(t)

	tests := []struct {
		name string
		set  func() error
	}{
		{"fees over 100", func() error {
			return p.SetFees(admin, Fees{ReporterReward: 50, LosslessFee: 50, StakersFee: 1}, 1)
		}},
		{"single fee over 100", func() error {
			return p.SetFees(admin, Fees{StakersFee: 101}, 1)
		}},
		{"wrapped fee sum", func() error {
			return p.SetFees(admin, Fees{ReporterReward: math.MaxUint64, LosslessFee: 2}, 1)
		}},
		{"zero lifetime", func() error { return p.SetReportLifetime(admin, 0, 1) }},
		{"unbounded lifetime", func() error { return p.SetReportLifetime(admin, math.MaxUint64, 1) }},
		{"lifetime over max", func() error { return p.SetReportLifetime(admin, lss.MaxPeriod+1, 1) }},
		{"unbounded dispute period", func() error { return p.SetWalletDisputePeriod(admin, math.MaxUint64, 1) }},
		{"zero bond", func() error { return p.SetReportingAmount(admin, big.NewInt(0), 1) }},
		{"nil stake", func() error { return p.SetStakingAmount(admin, nil, 1) }},
		{"zero treasury", func() error { return p.SetTreasury(admin, lss.Address{}, 1) }},
		{"unknown policy", func() error { return p.SetRemainderPolicy(admin, RemainderPolicy(7), 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.set(), reverts.ErrInvalidConfiguration))
		})
	}

	cfg, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.Version)

	require.NoError(t, p.SetFees(admin, Fees{ReporterReward: 20, LosslessFee: 50, StakersFee: 20, CommitteeReward: 10}, 1))
	require.NoError(t, p.SetReportLifetime(admin, lss.MaxPeriod, 1))
	require.NoError(t, p.SetWalletDisputePeriod(admin, lss.MaxPeriod, 1))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		amount int64
		pct    uint64
		want   int64
	}{
		{1000, 20, 200},
		{999, 10, 99},
		{1, 50, 0},
		{0, 100, 0},
		{7, 100, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(big.NewInt(tt.amount), tt.pct).Int64())
	}
}
