// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package controller

import (
	"errors"
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

type fixture struct {
	controller *Controller
	admin      lss.Address
	pauser     lss.Address
	escrow     lss.Address
	recovery   lss.Address
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)

	f := &fixture{
		admin:    datagen.RandAddress(),
		pauser:   datagen.RandAddress(),
		escrow:   lss.BytesToAddress([]byte("Reporting")),
		recovery: lss.BytesToAddress([]byte("Governance")),
	}
	auth := authority.New(lss.BytesToAddress([]byte("Authority")), st)
	require.NoError(t, auth.Add(authority.RoleAdmin, f.admin))
	require.NoError(t, auth.Add(authority.RolePauseAdmin, f.pauser))

	f.controller = New(lss.BytesToAddress([]byte("Controller")), st, auth, Exemptions{
		Escrows:  []lss.Address{f.escrow},
		Recovery: f.recovery,
	})
	return f
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	addr := datagen.RandAddress()

	err := f.controller.SetStatus(datagen.RandAddress(), addr, StatusBlacklisted)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))

	require.NoError(t, f.controller.SetStatus(f.admin, addr, StatusWhitelisted))
	status, err := f.controller.Status(addr)
	require.NoError(t, err)
	assert.Equal(t, StatusWhitelisted, status)

	err = f.controller.SetStatus(f.admin, f.escrow, StatusBlacklisted)
	assert.True(t, errors.Is(err, reverts.ErrInvalidConfiguration))
}

func TestCheckTransfer(t *testing.T) {
	f := newFixture(t)
	bad, good := datagen.RandAddress(), datagen.RandAddress()
	amount := big.NewInt(1)

	require.NoError(t, f.controller.OnReportOpened(1, bad))

	tests := []struct {
		name      string
		initiator lss.Address
		from, to  lss.Address
		blocked   bool
	}{
		{"neutral parties", good, good, datagen.RandAddress(), false},
		{"blacklisted sender", bad, bad, good, true},
		{"blacklisted receiver", good, good, bad, true},
		{"escrow payout", f.escrow, f.escrow, bad, false},
		{"recovery", f.recovery, bad, good, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.controller.CheckTransfer(tt.initiator, tt.from, tt.to, amount)
			if tt.blocked {
				assert.True(t, errors.Is(err, reverts.ErrTransferBlocked))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReportLifecycleStatus(t *testing.T) {
	f := newFixture(t)
	a, b, c := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()

	// opened twice is idempotent
	require.NoError(t, f.controller.OnReportOpened(1, a))
	require.NoError(t, f.controller.OnReportOpened(1, a))
	e, err := f.controller.Entry(a)
	require.NoError(t, err)
	assert.Equal(t, &Entry{Status: StatusBlacklisted, ReportID: 1}, e)

	require.NoError(t, f.controller.OnReportResolved(1, a, lss.VerdictMalicious))
	e, err = f.controller.Entry(a)
	require.NoError(t, err)
	assert.True(t, e.Permanent)

	// a permanent blacklist survives later releases
	require.NoError(t, f.controller.OnReportExpired(1, a))
	status, err := f.controller.Status(a)
	require.NoError(t, err)
	assert.Equal(t, StatusBlacklisted, status)

	require.NoError(t, f.controller.OnReportOpened(2, b))
	require.NoError(t, f.controller.OnReportResolved(2, b, lss.VerdictInnocent))
	status, err = f.controller.Status(b)
	require.NoError(t, err)
	assert.Equal(t, StatusNeutral, status)

	require.NoError(t, f.controller.OnReportOpened(3, c))
	require.NoError(t, f.controller.OnReportExpired(3, c))
	status, err = f.controller.Status(c)
	require.NoError(t, err)
	assert.Equal(t, StatusNeutral, status)
}

func TestPause(t *testing.T) {
	f := newFixture(t)

	err := f.controller.Pause(f.admin)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))

	require.NoError(t, f.controller.Pause(f.pauser))
	assert.True(t, errors.Is(f.controller.RequireNotPaused(), reverts.ErrPaused))

	require.NoError(t, f.controller.Unpause(f.pauser))
	assert.NoError(t, f.controller.RequireNotPaused())
}
