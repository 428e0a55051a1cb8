// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/lvldb"
	"github.com/lossless-cash/lossless-go/state"
	"github.com/lossless-cash/lossless-go/test/datagen"
)

func newAuthority(t *testing.T) (*Authority, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	return New(lss.BytesToAddress([]byte("Authority")), st), st
}

func TestAuthorize(t *testing.T) {
	auth, _ := newAuthority(t)
	admin, pauser, member := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, auth.Add(RoleAdmin, admin))
	require.NoError(t, auth.Add(RolePauseAdmin, pauser))
	require.NoError(t, auth.Add(RoleCommittee, member))

	tests := []struct {
		caller lss.Address
		cap    Capability
		ok     bool
	}{
		{admin, CapSetStatus, true},
		{admin, CapConfigure, true},
		{admin, CapPause, false},
		{pauser, CapPause, true},
		{pauser, CapConfigure, false},
		{member, CapVoteCommittee, true},
		{member, CapVoteTeam, false},
		{admin, CapVoteTeam, true},
		{datagen.RandAddress(), CapSetStatus, false},
	}
	for _, tt := range tests {
		err := auth.Authorize(tt.caller, tt.cap)
		if tt.ok {
			assert.NoError(t, err, tt.cap.String())
		} else {
			assert.True(t, errors.Is(err, reverts.ErrUnauthorized), tt.cap.String())
		}
	}
}

func TestGrantRevoke(t *testing.T) {
	auth, st := newAuthority(t)
	admin, outsider := datagen.RandAddress(), datagen.RandAddress()
	members := datagen.RandAddresses(3)
	require.NoError(t, auth.Add(RoleAdmin, admin))

	for _, m := range members {
		require.NoError(t, auth.Grant(admin, RoleCommittee, m))
	}
	got, err := auth.Members(RoleCommittee)
	require.NoError(t, err)
	assert.Equal(t, members, got)
	assert.Len(t, st.Events(), 3)

	err = auth.Grant(outsider, RoleCommittee, outsider)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))

	require.NoError(t, auth.Revoke(admin, RoleCommittee, members[1]))
	n, err := auth.Count(RoleCommittee)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	ok, err := auth.Has(RoleCommittee, members[1])
	require.NoError(t, err)
	assert.False(t, ok)

	err = auth.Revoke(admin, RoleAdmin, admin)
	assert.True(t, errors.Is(err, reverts.ErrInvalidConfiguration))
}

func TestRolesFor(t *testing.T) {
	assert.Equal(t, []Role{RolePauseAdmin}, RolesFor(CapPause))
	assert.Equal(t, CapVoteTokenOwners, VoteCapability(lss.ClassTokenOwners))

	r, err := ParseRole("backup-admin")
	require.NoError(t, err)
	assert.Equal(t, RoleBackupAdmin, r)
}
