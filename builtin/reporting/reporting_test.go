// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reporting_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/builtin"
	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/test/datagen"
	"github.com/lossless-cash/lossless-go/test/testchain"
)

func newChain(t *testing.T, opts ...testchain.Option) *testchain.Chain {
	opts = append([]testchain.Option{
		testchain.WithFees(20, 50, 10, 10),
		testchain.WithAmounts(1000, 100),
		testchain.WithLifetime(3600),
	}, opts...)
	return testchain.New(t, opts...)
}

func status(t *testing.T, c *testchain.Chain, addr lss.Address) controller.Status {
	s, err := c.Controller.Status(addr)
	require.NoError(t, err)
	return s
}

func TestOpen(t *testing.T) {
	c := newChain(t)
	reporter := c.NewAccount(t, 1500)
	reported := c.NewAccount(t, 10)

	id, err := c.Reporting.Open(reporter, reported, c.Now())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	report, err := c.Reporting.Report(id)
	require.NoError(t, err)
	assert.Equal(t, reporting.StatusOpen, report.Status)
	assert.Equal(t, reporter, report.Reporter)
	assert.Equal(t, reported, report.Reported)
	assert.Equal(t, c.Now()+3600, report.Deadline)
	assert.Equal(t, big.NewInt(1000), report.Bond)

	assert.Equal(t, big.NewInt(500), c.Balance(t, reporter))
	assert.Equal(t, big.NewInt(1000), c.Balance(t, builtin.Reporting.Address))
	assert.Equal(t, controller.StatusBlacklisted, status(t, c, reported))

	openID, err := c.Reporting.OpenReportOf(reported)
	require.NoError(t, err)
	assert.Equal(t, id, openID)

	count, err := c.Reporting.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	// frozen funds cannot move
	err = c.Token.Transfer(reported, reported, reporter, big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrTransferBlocked))
}

func TestOpenRejected(t *testing.T) {
	c := newChain(t)
	reporter := c.NewAccount(t, 5000)
	poor := c.NewAccount(t, 999)
	whitelisted := datagen.RandAddress()
	require.NoError(t, c.Controller.SetStatus(c.Admin, whitelisted, controller.StatusWhitelisted))
	reported := datagen.RandAddress()
	_, err := c.Reporting.Open(reporter, reported, c.Now())
	require.NoError(t, err)

	tests := []struct {
		name     string
		reporter lss.Address
		reported lss.Address
		want     error
	}{
		{"zero address", reporter, lss.Address{}, reverts.ErrInvalidReport},
		{"self", reporter, reporter, reverts.ErrInvalidReport},
		{"protocol", reporter, builtin.Staking.Address, reverts.ErrInvalidReport},
		{"whitelisted", reporter, whitelisted, reverts.ErrInvalidReport},
		{"duplicate", reporter, reported, reverts.ErrDuplicateReport},
		{"insufficient bond", poor, datagen.RandAddress(), reverts.ErrInsufficientBond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Reporting.Open(tt.reporter, tt.reported, c.Now())
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	require.NoError(t, c.Controller.Pause(c.Pauser))
	_, err = c.Reporting.Open(reporter, datagen.RandAddress(), c.Now())
	assert.True(t, errors.Is(err, reverts.ErrPaused))
}

func TestSecondReport(t *testing.T) {
	c := newChain(t)
	reporter := c.NewAccount(t, 1000)
	first, second := datagen.RandAddress(), datagen.RandAddress()

	id, err := c.Reporting.Open(reporter, first, c.Now())
	require.NoError(t, err)

	err = c.Reporting.SecondReport(datagen.RandAddress(), id, second, c.Now())
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))

	err = c.Reporting.SecondReport(reporter, id, first, c.Now())
	assert.True(t, errors.Is(err, reverts.ErrInvalidReport))

	require.NoError(t, c.Reporting.SecondReport(reporter, id, second, c.Now()))
	assert.Equal(t, controller.StatusBlacklisted, status(t, c, second))

	err = c.Reporting.SecondReport(reporter, id, datagen.RandAddress(), c.Now())
	assert.True(t, errors.Is(err, reverts.ErrInvalidReport))

	report, err := c.Reporting.Report(id)
	require.NoError(t, err)
	assert.Equal(t, []lss.Address{first, second}, report.Accused())

	_, err = c.Reporting.Resolve(id, lss.VerdictInnocent, c.Now())
	require.NoError(t, err)
	assert.Equal(t, controller.StatusNeutral, status(t, c, first))
	assert.Equal(t, controller.StatusNeutral, status(t, c, second))
}

func TestResolveMalicious(t *testing.T) {
	tests := []struct {
		policy       string
		treasury     int64
		reporter     int64
		supplyChange int64
	}{
		{"treasury", 600, 200, 0},
		{"burn", 500, 200, -100},
		{"reporter", 500, 300, 0},
	}
	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			c := newChain(t, testchain.WithRemainderPolicy(tt.policy))
			reporter := c.NewAccount(t, 1000)
			reported := c.NewAccount(t, 50)
			supply := c.Supply(t)

			id, err := c.Reporting.Open(reporter, reported, c.Now())
			require.NoError(t, err)

			report, err := c.Reporting.Resolve(id, lss.VerdictMalicious, c.Advance(60))
			require.NoError(t, err)
			assert.Equal(t, reporting.StatusResolvedValid, report.Status)
			assert.Equal(t, big.NewInt(200), report.Payout.ReporterReward)
			assert.Equal(t, big.NewInt(500), report.Payout.ProtocolFee)
			assert.Equal(t, big.NewInt(100), report.Payout.StakersFee)
			assert.Equal(t, big.NewInt(100), report.Payout.CommitteeReward)
			assert.Equal(t, big.NewInt(100), report.Payout.Remainder)
			assert.Equal(t, report.Bond, report.Payout.Total())

			assert.Equal(t, big.NewInt(tt.reporter), c.Balance(t, reporter))
			assert.Equal(t, big.NewInt(tt.treasury), c.Balance(t, c.Treasury))
			assert.Equal(t, big.NewInt(100), c.Balance(t, builtin.Staking.Address))
			assert.Equal(t, big.NewInt(100), c.Balance(t, builtin.Governance.Address))
			assert.Equal(t, 0, c.Balance(t, builtin.Reporting.Address).Sign())
			assert.Equal(t, new(big.Int).Add(supply, big.NewInt(tt.supplyChange)), c.Supply(t))

			e, err := c.Controller.Entry(reported)
			require.NoError(t, err)
			assert.True(t, e.IsBlacklisted())
			assert.True(t, e.Permanent)

			_, err = c.Reporting.Resolve(id, lss.VerdictMalicious, c.Now())
			assert.True(t, errors.Is(err, reverts.ErrReportNotOpen))

			// permanently blacklisted addresses cannot be reported again
			_, err = c.Reporting.Open(c.NewAccount(t, 1000), reported, c.Now())
			assert.True(t, errors.Is(err, reverts.ErrInvalidReport))
		})
	}
}

func TestResolveInnocent(t *testing.T) {
	c := newChain(t)
	reporter := c.NewAccount(t, 1000)
	reported := c.NewAccount(t, 50)

	id, err := c.Reporting.Open(reporter, reported, c.Now())
	require.NoError(t, err)

	report, err := c.Reporting.Resolve(id, lss.VerdictInnocent, c.Now())
	require.NoError(t, err)
	assert.Equal(t, reporting.StatusResolvedInvalid, report.Status)
	assert.Equal(t, big.NewInt(1000), report.Payout.Returned)

	assert.Equal(t, 0, c.Balance(t, reporter).Sign())
	assert.Equal(t, big.NewInt(1050), c.Balance(t, reported))
	assert.Equal(t, controller.StatusNeutral, status(t, c, reported))

	// an acquitted address may be reported again
	_, err = c.Reporting.Open(c.NewAccount(t, 1000), reported, c.Now())
	assert.NoError(t, err)
}

func TestExpiry(t *testing.T) {
	c := newChain(t)
	reporter := c.NewAccount(t, 1000)
	reported := datagen.RandAddress()

	id, err := c.Reporting.Open(reporter, reported, c.Now())
	require.NoError(t, err)

	expired, err := c.Reporting.ExpireIfDue(id, c.Advance(3600))
	require.NoError(t, err)
	assert.False(t, expired)

	report, err := c.Reporting.Resolve(id, lss.VerdictMalicious, c.Advance(1))
	assert.True(t, errors.Is(err, reverts.ErrReportExpired))
	assert.Equal(t, reporting.StatusExpired, report.Status)

	assert.Equal(t, big.NewInt(1000), c.Balance(t, reporter))
	assert.Equal(t, controller.StatusNeutral, status(t, c, reported))

	expired, err = c.Reporting.ExpireIfDue(id, c.Now())
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestStaleReportReplaced(t *testing.T) {
	c := newChain(t)
	first := c.NewAccount(t, 1000)
	second := c.NewAccount(t, 1000)
	reported := datagen.RandAddress()

	stale, err := c.Reporting.Open(first, reported, c.Now())
	require.NoError(t, err)

	id, err := c.Reporting.Open(second, reported, c.Advance(3601))
	require.NoError(t, err)
	assert.Equal(t, stale+1, id)

	report, err := c.Reporting.Report(stale)
	require.NoError(t, err)
	assert.Equal(t, reporting.StatusExpired, report.Status)
	assert.Equal(t, big.NewInt(1000), c.Balance(t, first))

	e, err := c.Controller.Entry(reported)
	require.NoError(t, err)
	assert.Equal(t, id, e.ReportID)
	assert.True(t, e.IsBlacklisted())
}
