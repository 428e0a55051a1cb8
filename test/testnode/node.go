// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testnode

import (
	"math/big"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/genesis"
	"github.com/lossless-cash/lossless-go/logdb"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/lvldb"
	"github.com/lossless-cash/lossless-go/runtime"
	"github.com/lossless-cash/lossless-go/test/datagen"
	"github.com/lossless-cash/lossless-go/test/testchain"
)

// Node is a runtime over in-memory stores, driven by a fake clock.
type Node struct {
	*runtime.Runtime
	Clock   *clockwork.FakeClock
	Genesis *genesis.Genesis

	Admin      lss.Address
	Pauser     lss.Address
	TokenOwner lss.Address
	Committee  []lss.Address
	Treasury   lss.Address
	Faucet     lss.Address
}

// New starts a node from the dev genesis with reporter/protocol/stakers/committee
// fees of 20/50/10/10, a bond of 1000 and a minimum stake of 100.
func New(t testing.TB, opts ...testchain.Option) *Node {
	gen := genesis.NewDevnet()
	base := []testchain.Option{
		testchain.WithFees(20, 50, 10, 10),
		testchain.WithAmounts(1000, 100),
		testchain.WithLifetime(3600),
	}
	for _, opt := range append(base, opts...) {
		opt(gen)
	}

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	clock := clockwork.NewFakeClockAt(time.Unix(int64(gen.LaunchTime), 0))
	rt, err := runtime.New(db, gen, logDB, clock)
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	accs := genesis.DevAccounts()
	return &Node{
		Runtime:    rt,
		Clock:      clock,
		Genesis:    gen,
		Admin:      gen.Authority.Admins[0],
		Pauser:     gen.Authority.PauseAdmins[0],
		TokenOwner: gen.Authority.TokenOwners[0],
		Committee:  gen.Authority.Committee,
		Treasury:   gen.Params.Treasury,
		Faucet:     accs[len(accs)-1].Address,
	}
}

// Fund returns a fresh address holding amount tokens.
func (n *Node) Fund(t testing.TB, amount int64) lss.Address {
	addr := datagen.RandAddress()
	require.NoError(t, n.Transfer(n.Faucet, addr, big.NewInt(amount)))
	return addr
}

// Advance moves the clock forward.
func (n *Node) Advance(seconds int64) {
	n.Clock.Advance(time.Duration(seconds) * time.Second)
}
