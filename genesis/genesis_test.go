// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/builtin"
	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/genesis"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/lvldb"
	"github.com/lossless-cash/lossless-go/state"
)

const customGenesis = `
launchTime: 1700000000
token:
  name: Guarded
  symbol: GRD
  decimals: 6
params:
  reporterReward: 20
  losslessFee: 50
  stakersFee: 10
  committeeReward: 10
  reportingAmount: "1000"
  stakingAmount: "0x64"
  reportLifetime: 3600
  remainderPolicy: burn
  treasury: "0x0000000000000000000000000000000000000009"
authority:
  admins: ["0x0000000000000000000000000000000000000001"]
  pauseAdmins: ["0x0000000000000000000000000000000000000002"]
  committee:
    - "0x0000000000000000000000000000000000000005"
    - "0x0000000000000000000000000000000000000006"
accounts:
  - address: "0x00000000000000000000000000000000000000aa"
    balance: "5000"
whitelist: ["0x00000000000000000000000000000000000000bb"]
`

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db)
}

func TestCustomGenesis(t *testing.T) {
	gen, err := genesis.Parse([]byte(customGenesis))
	require.NoError(t, err)

	st := newState(t)
	events, err := gen.Build(st)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
	for _, ev := range events {
		assert.Equal(t, uint64(1700000000), ev.Timestamp)
	}

	c := builtin.Bind(st)
	cfg, err := c.Params.Get()
	require.NoError(t, err)
	assert.Equal(t, params.Fees{ReporterReward: 20, LosslessFee: 50, StakersFee: 10, CommitteeReward: 10}, cfg.Fees)
	assert.Equal(t, big.NewInt(1000), cfg.ReportingAmount)
	assert.Equal(t, big.NewInt(100), cfg.StakingAmount)
	assert.Equal(t, uint64(3600), cfg.ReportLifetime)
	assert.Equal(t, lss.DefaultWalletDisputePeriod, cfg.WalletDisputePeriod)
	assert.Equal(t, params.RemainderBurn, cfg.RemainderPolicy)
	assert.Equal(t, uint64(1), cfg.Version)

	committee, err := c.Authority.Count(authority.RoleCommittee)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), committee)

	bal, err := c.Token.Balance(lss.MustParseAddress("0x00000000000000000000000000000000000000aa"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5000), bal)

	status, err := c.Controller.Status(lss.MustParseAddress("0x00000000000000000000000000000000000000bb"))
	require.NoError(t, err)
	assert.Equal(t, controller.StatusWhitelisted, status)
}

func TestGenesisValidate(t *testing.T) {
	treasury := lss.BytesToAddress([]byte("treasury"))
	admin := lss.BytesToAddress([]byte("admin"))
	tooHigh := uint64(90)

	tests := []struct {
		name string
		gen  *genesis.Genesis
	}{
		{"no admin", &genesis.Genesis{Params: genesis.Params{Treasury: treasury}}},
		{"no treasury", &genesis.Genesis{Authority: genesis.Authority{Admins: []lss.Address{admin}}}},
		{"fees over 100", &genesis.Genesis{
			Params:    genesis.Params{Treasury: treasury, LosslessFee: &tooHigh},
			Authority: genesis.Authority{Admins: []lss.Address{admin}},
		}},
		{"protocol allocation", &genesis.Genesis{
			Params:    genesis.Params{Treasury: treasury},
			Authority: genesis.Authority{Admins: []lss.Address{admin}},
			Accounts:  []genesis.Account{{builtin.Staking.Address, genesis.NewHexOrDecimal256(big.NewInt(1))}},
		}},
		{"bad policy", &genesis.Genesis{
			Params:    genesis.Params{Treasury: treasury, RemainderPolicy: "keep"},
			Authority: genesis.Authority{Admins: []lss.Address{admin}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.gen.Validate())
		})
	}
}

func TestDevnet(t *testing.T) {
	gen := genesis.NewDevnet()
	require.NoError(t, gen.Validate())

	id1, err := gen.ID()
	require.NoError(t, err)
	id2, err := genesis.NewDevnet().ID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	st := newState(t)
	_, err = gen.Build(st)
	require.NoError(t, err)

	c := builtin.Bind(st)
	accs := genesis.DevAccounts()
	ok, err := c.Authority.Has(authority.RoleAdmin, accs[0].Address)
	require.NoError(t, err)
	assert.True(t, ok)

	bal, err := c.Token.Balance(accs[9].Address)
	require.NoError(t, err)
	assert.Equal(t, genesis.DevBalance, bal)
}
