// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/builtin"
	"github.com/lossless-cash/lossless-go/genesis"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/lvldb"
	"github.com/lossless-cash/lossless-go/state"
	"github.com/lossless-cash/lossless-go/test/datagen"
)

// Chain is an in-memory protocol instance built from the dev genesis, for tests.
// Contract calls go straight to the bound contracts; nothing is committed unless Commit is called.
type Chain struct {
	*builtin.Contracts
	State   *state.State
	Genesis *genesis.Genesis

	Admin      lss.Address
	Pauser     lss.Address
	Recovery   lss.Address
	Backup     lss.Address
	TokenOwner lss.Address
	Committee  []lss.Address
	Treasury   lss.Address

	now uint64
}

// Option customizes the genesis before it is built.
type Option func(gen *genesis.Genesis)

// WithFees sets the fee percentages.
func WithFees(reporter, protocol, stakers, committee uint64) Option {
	return func(gen *genesis.Genesis) {
		gen.Params.ReporterReward = &reporter
		gen.Params.LosslessFee = &protocol
		gen.Params.StakersFee = &stakers
		gen.Params.CommitteeReward = &committee
	}
}

// WithAmounts sets the reporting bond and the minimum stake.
func WithAmounts(reporting, staking int64) Option {
	return func(gen *genesis.Genesis) {
		gen.Params.ReportingAmount = genesis.NewHexOrDecimal256(big.NewInt(reporting))
		gen.Params.StakingAmount = genesis.NewHexOrDecimal256(big.NewInt(staking))
	}
}

// WithLifetime sets the report lifetime in seconds.
func WithLifetime(lifetime uint64) Option {
	return func(gen *genesis.Genesis) {
		gen.Params.ReportLifetime = &lifetime
	}
}

// WithRemainderPolicy sets where the undistributed bond goes.
func WithRemainderPolicy(policy string) Option {
	return func(gen *genesis.Genesis) {
		gen.Params.RemainderPolicy = policy
	}
}

// New builds a chain from the dev genesis with the given options applied.
func New(t testing.TB, opts ...Option) *Chain {
	gen := genesis.NewDevnet()
	for _, opt := range opts {
		opt(gen)
	}

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	_, err = gen.Build(st)
	require.NoError(t, err)

	return &Chain{
		Contracts:  builtin.Bind(st),
		State:      st,
		Genesis:    gen,
		Admin:      gen.Authority.Admins[0],
		Pauser:     gen.Authority.PauseAdmins[0],
		Recovery:   gen.Authority.RecoveryAdmins[0],
		Backup:     gen.Authority.BackupAdmins[0],
		TokenOwner: gen.Authority.TokenOwners[0],
		Committee:  gen.Authority.Committee,
		Treasury:   gen.Params.Treasury,
		now:        gen.LaunchTime,
	}
}

// Now returns the chain clock.
func (c *Chain) Now() uint64 {
	return c.now
}

// Advance moves the chain clock forward.
func (c *Chain) Advance(seconds uint64) uint64 {
	c.now += seconds
	return c.now
}

// NewAccount returns a fresh address holding balance tokens.
func (c *Chain) NewAccount(t testing.TB, balance int64) lss.Address {
	addr := datagen.RandAddress()
	if balance > 0 {
		require.NoError(t, c.Token.Mint(addr, big.NewInt(balance)))
	}
	return addr
}

// Balance returns the token balance of addr.
func (c *Chain) Balance(t testing.TB, addr lss.Address) *big.Int {
	bal, err := c.Token.Balance(addr)
	require.NoError(t, err)
	return bal
}

// Supply returns the token total supply.
func (c *Chain) Supply(t testing.TB) *big.Int {
	supply, err := c.Token.TotalSupply()
	require.NoError(t, err)
	return supply
}
