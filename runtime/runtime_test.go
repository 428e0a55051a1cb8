// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	fuzz "github.com/google/gofuzz"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/builtin/staking"
	"github.com/lossless-cash/lossless-go/genesis"
	"github.com/lossless-cash/lossless-go/kv"
	"github.com/lossless-cash/lossless-go/logdb"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/lvldb"
	"github.com/lossless-cash/lossless-go/runtime"
	"github.com/lossless-cash/lossless-go/test/datagen"
)

const lifetime = 3600

type env struct {
	*runtime.Runtime
	db    kv.GetPutter
	gen   *genesis.Genesis
	clock *clockwork.FakeClock

	admin      lss.Address
	tokenOwner lss.Address
	committee  []lss.Address
	treasury   lss.Address
	faucet     lss.Address
}

func newGenesis() *genesis.Genesis {
	gen := genesis.NewDevnet()
	reporter, protocol, stakers, committee := uint64(20), uint64(50), uint64(10), uint64(10)
	lt := uint64(lifetime)
	gen.Params.ReporterReward = &reporter
	gen.Params.LosslessFee = &protocol
	gen.Params.StakersFee = &stakers
	gen.Params.CommitteeReward = &committee
	gen.Params.ReportLifetime = &lt
	gen.Params.ReportingAmount = genesis.NewHexOrDecimal256(big.NewInt(1000))
	gen.Params.StakingAmount = genesis.NewHexOrDecimal256(big.NewInt(100))
	return gen
}

func newEnv(t *testing.T) *env {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	gen := newGenesis()
	clock := clockwork.NewFakeClockAt(time.Unix(int64(gen.LaunchTime), 0))
	rt, err := runtime.New(db, gen, logDB, clock)
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	accs := genesis.DevAccounts()
	return &env{
		Runtime:    rt,
		db:         db,
		gen:        gen,
		clock:      clock,
		admin:      gen.Authority.Admins[0],
		tokenOwner: gen.Authority.TokenOwners[0],
		committee:  gen.Authority.Committee,
		treasury:   gen.Params.Treasury,
		faucet:     accs[9].Address,
	}
}

func (e *env) fund(t *testing.T, amount int64) lss.Address {
	addr := datagen.RandAddress()
	require.NoError(t, e.Transfer(e.faucet, addr, big.NewInt(amount)))
	return addr
}

func (e *env) balance(t *testing.T, addr lss.Address) int64 {
	acc, err := e.Account(addr)
	require.NoError(t, err)
	return acc.Balance.Int64()
}

func (e *env) advance(seconds int64) {
	e.clock.Advance(time.Duration(seconds) * time.Second)
}

func (e *env) verify(t *testing.T) {
	violations, err := e.Verify(nil)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestMaliciousReport(t *testing.T) {
	e := newEnv(t)
	reporter := e.fund(t, 1000)
	reported := e.fund(t, 50)
	a := e.fund(t, 100)
	b := e.fund(t, 100)

	id, err := e.Report(reporter, reported)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, int64(0), e.balance(t, reporter))

	acc, err := e.Account(reported)
	require.NoError(t, err)
	assert.Equal(t, controller.StatusBlacklisted, acc.Entry.Status)
	assert.Equal(t, id, acc.OpenReport)
	assert.True(t, errors.Is(e.Transfer(reported, reporter, big.NewInt(1)), reverts.ErrTransferBlocked))

	require.NoError(t, e.Stake(a, id, big.NewInt(100), staking.SideAccuse))
	require.NoError(t, e.Stake(b, id, big.NewInt(100), staking.SideAccuse))
	e.verify(t)

	require.NoError(t, e.Vote(e.admin, id, lss.ClassTeam, lss.VerdictMalicious))
	require.NoError(t, e.Vote(e.tokenOwner, id, lss.ClassTokenOwners, lss.VerdictMalicious))

	d, err := e.GetReport(id)
	require.NoError(t, err)
	assert.Equal(t, reporting.StatusResolvedValid, d.Report.Status)
	assert.True(t, d.Pool.Settled)

	assert.Equal(t, int64(200), e.balance(t, reporter))
	assert.Equal(t, int64(150), e.balance(t, a))
	assert.Equal(t, int64(150), e.balance(t, b))
	assert.Equal(t, int64(700), e.balance(t, e.treasury))

	acc, err = e.Account(reported)
	require.NoError(t, err)
	assert.True(t, acc.Entry.Permanent)
	assert.Equal(t, uint64(0), acc.OpenReport)
	e.verify(t)

	events, err := e.Events(context.Background(), &logdb.EventFilter{ReportID: &id})
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, ev := range events {
		names[ev.Name] = true
		assert.Equal(t, e.gen.LaunchTime, ev.Timestamp)
	}
	for _, name := range []string{"ReportOpened", "StakePlaced", "VoteCast", "ReportResolved", "PoolSettled", "ReportVerdict"} {
		assert.True(t, names[name], name)
	}
}

func TestLazyExpiry(t *testing.T) {
	e := newEnv(t)
	reporter := e.fund(t, 1000)
	reported := e.fund(t, 50)
	staker := e.fund(t, 100)

	id, err := e.Report(reporter, reported)
	require.NoError(t, err)
	require.NoError(t, e.Stake(staker, id, big.NewInt(100), staking.SideDefend))
	require.NoError(t, e.Vote(e.admin, id, lss.ClassTeam, lss.VerdictMalicious))

	e.advance(lifetime + 1)
	err = e.Vote(e.tokenOwner, id, lss.ClassTokenOwners, lss.VerdictMalicious)
	assert.True(t, errors.Is(err, reverts.ErrReportExpired))

	d, err := e.GetReport(id)
	require.NoError(t, err)
	assert.Equal(t, reporting.StatusExpired, d.Report.Status)
	assert.True(t, d.Pool.Settled)

	assert.Equal(t, int64(1000), e.balance(t, reporter))
	assert.Equal(t, int64(100), e.balance(t, staker))
	acc, err := e.Account(reported)
	require.NoError(t, err)
	assert.Equal(t, controller.StatusNeutral, acc.Entry.Status)
	require.NoError(t, e.Transfer(reported, reporter, big.NewInt(50)))
	e.verify(t)

	expired := "ReportExpired"
	events, err := e.Events(context.Background(), &logdb.EventFilter{Names: []string{expired}})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ReportID)
	assert.Equal(t, e.gen.LaunchTime+lifetime+1, events[0].Timestamp)
}

func TestTransferExpiresOverdueReport(t *testing.T) {
	e := newEnv(t)
	reporter := e.fund(t, 1000)
	reported := e.fund(t, 50)

	id, err := e.Report(reporter, reported)
	require.NoError(t, err)
	assert.True(t, errors.Is(e.Transfer(reported, reporter, big.NewInt(10)), reverts.ErrTransferBlocked))

	e.advance(lifetime + 1)
	// the expiry is kept even though the transfer itself fails
	assert.Error(t, e.Transfer(reported, reporter, big.NewInt(51)))
	d, err := e.GetReport(id)
	require.NoError(t, err)
	assert.Equal(t, reporting.StatusExpired, d.Report.Status)
	assert.Equal(t, int64(1000), e.balance(t, reporter))

	require.NoError(t, e.Transfer(reported, reporter, big.NewInt(50)))
	assert.Equal(t, int64(1050), e.balance(t, reporter))
	e.verify(t)
}

func TestExpire(t *testing.T) {
	e := newEnv(t)
	id, err := e.Report(e.fund(t, 1000), e.fund(t, 1))
	require.NoError(t, err)

	assert.True(t, errors.Is(e.Expire(id), reverts.ErrInvalidReport))
	e.advance(lifetime)
	assert.True(t, errors.Is(e.Expire(id), reverts.ErrInvalidReport))
	e.advance(1)
	require.NoError(t, e.Expire(id))
	assert.True(t, errors.Is(e.Expire(id), reverts.ErrReportNotOpen))
	assert.True(t, errors.Is(e.Expire(id+1), reverts.ErrReportNotFound))
}

func TestFailedCallReverts(t *testing.T) {
	e := newEnv(t)
	before, err := e.Config(0)
	require.NoError(t, err)

	zero := uint64(0)
	fees := params.Fees{ReporterReward: 10, LosslessFee: 10, StakersFee: 10, CommitteeReward: 10}
	err = e.UpdateConfig(e.admin, runtime.ConfigUpdate{Fees: &fees, ReportLifetime: &zero})
	assert.True(t, errors.Is(err, reverts.ErrInvalidConfiguration))

	after, err := e.Config(0)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Fees, after.Fees)

	lt := uint64(7200)
	require.NoError(t, e.UpdateConfig(e.admin, runtime.ConfigUpdate{Fees: &fees, ReportLifetime: &lt}))
	after, err = e.Config(0)
	require.NoError(t, err)
	assert.Equal(t, before.Version+2, after.Version)
	assert.Equal(t, fees, after.Fees)
	assert.Equal(t, lt, after.ReportLifetime)

	old, err := e.Config(before.Version)
	require.NoError(t, err)
	assert.Equal(t, before.Fees, old.Fees)

	err = e.UpdateConfig(e.tokenOwner, runtime.ConfigUpdate{ReportLifetime: &lt})
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))
	assert.True(t, errors.Is(e.UpdateConfig(e.admin, runtime.ConfigUpdate{}), reverts.ErrInvalidConfiguration))
}

func TestPause(t *testing.T) {
	e := newEnv(t)
	pauser := e.gen.Authority.PauseAdmins[0]
	reporter := e.fund(t, 1000)

	assert.True(t, errors.Is(e.Pause(e.tokenOwner), reverts.ErrUnauthorized))
	require.NoError(t, e.Pause(pauser))
	info, err := e.Token()
	require.NoError(t, err)
	assert.True(t, info.Paused)

	_, err = e.Report(reporter, e.fund(t, 1))
	assert.True(t, errors.Is(err, reverts.ErrPaused))

	require.NoError(t, e.Unpause(pauser))
	_, err = e.Report(reporter, e.fund(t, 1))
	assert.NoError(t, err)
}

func TestSubscribeEvents(t *testing.T) {
	e := newEnv(t)
	ch := make(chan []*lss.Event, 8)
	sub := e.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	reporter := e.fund(t, 1000)
	select {
	case events := <-ch:
		require.Len(t, events, 1)
		assert.Equal(t, "Transfer", events[0].Name)
		assert.Equal(t, reporter, events[0].Account)
	case <-time.After(time.Second):
		t.Fatal("no events published")
	}

	_, err := e.Report(reporter, e.fund(t, 1))
	require.NoError(t, err)
	<-ch
	select {
	case events := <-ch:
		var opened bool
		for _, ev := range events {
			opened = opened || ev.Name == "ReportOpened"
		}
		assert.True(t, opened)
	case <-time.After(time.Second):
		t.Fatal("no events published")
	}
}

func TestReopen(t *testing.T) {
	e := newEnv(t)
	_, err := e.Report(e.fund(t, 1000), e.fund(t, 1))
	require.NoError(t, err)
	e.Close()

	rt, err := runtime.New(e.db, newGenesis(), nil, e.clock)
	require.NoError(t, err)
	defer rt.Close()
	count, err := rt.ReportCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
	assert.Equal(t, e.GenesisID(), rt.GenesisID())

	other := newGenesis()
	other.LaunchTime++
	_, err = runtime.New(e.db, other, nil, e.clock)
	assert.Error(t, err)
}

// TestConservation runs random call sequences and checks that no call creates or
// destroys tokens and that every escrow matches its open positions.
func TestConservation(t *testing.T) {
	type step struct {
		Op     uint8
		Actor  uint8
		Target uint8
		Amount uint16
		Wait   uint16
	}

	for round := 0; round < 5; round++ {
		e := newEnv(t)
		actors := make([]lss.Address, 6)
		for i := range actors {
			actors[i] = e.fund(t, 5000)
		}
		info, err := e.Token()
		require.NoError(t, err)
		supply := new(big.Int).Set(info.TotalSupply)

		var steps []step
		fuzz.New().NilChance(0).NumElements(40, 60).Fuzz(&steps)

		var ids []uint64
		pick := func(n uint8) uint64 {
			if len(ids) == 0 {
				return 1
			}
			return ids[int(n)%len(ids)]
		}
		for _, s := range steps {
			actor := actors[int(s.Actor)%len(actors)]
			target := actors[int(s.Target)%len(actors)]
			e.advance(int64(s.Wait % 600))

			switch s.Op % 6 {
			case 0:
				if id, err := e.Report(actor, target); err == nil {
					ids = append(ids, id)
				}
			case 1:
				side := staking.SideAccuse
				if s.Amount%2 == 1 {
					side = staking.SideDefend
				}
				_ = e.Stake(actor, pick(s.Target), big.NewInt(100+int64(s.Amount%200)), side)
			case 2:
				verdict := lss.VerdictMalicious
				if s.Amount%3 == 0 {
					verdict = lss.VerdictInnocent
				}
				_ = e.Vote(e.admin, pick(s.Target), lss.ClassTeam, verdict)
			case 3:
				verdict := lss.VerdictMalicious
				if s.Amount%2 == 0 {
					verdict = lss.VerdictInnocent
				}
				_ = e.Vote(e.committee[int(s.Actor)%len(e.committee)], pick(s.Target), lss.ClassCommittee, verdict)
			case 4:
				_ = e.Vote(e.tokenOwner, pick(s.Target), lss.ClassTokenOwners, lss.VerdictMalicious)
			case 5:
				_ = e.Transfer(actor, target, big.NewInt(int64(s.Amount)))
			}

			info, err := e.Token()
			require.NoError(t, err)
			assert.Equal(t, supply.String(), info.TotalSupply.String())
			e.verify(t)
		}
	}
}

func TestConcurrentCalls(t *testing.T) {
	e := newEnv(t)
	sink := datagen.RandAddress()
	senders := make([]lss.Address, 8)
	for i := range senders {
		senders[i] = e.fund(t, 50)
	}

	var g errgroup.Group
	for _, sender := range senders {
		g.Go(func() error {
			for range 50 {
				if err := e.Transfer(sender, sink, big.NewInt(1)); err != nil {
					return err
				}
				if _, err := e.Account(sink); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(len(senders)*50), e.balance(t, sink))
	for _, sender := range senders {
		assert.Zero(t, e.balance(t, sender))
	}
	e.verify(t)
}
