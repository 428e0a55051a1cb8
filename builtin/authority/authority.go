// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin/linkedlist"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/builtin/solidity"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

// Authority keeps role membership and answers capability checks.
type Authority struct {
	sctx    *solidity.Context
	members map[Role]*linkedlist.LinkedList
}

// New create a new instance.
func New(addr lss.Address, state *state.State) *Authority {
	sctx := solidity.NewContext(addr, state)
	members := make(map[Role]*linkedlist.LinkedList, len(Roles))
	for _, r := range Roles {
		members[r] = linkedlist.New(sctx, "members-"+r.String())
	}
	return &Authority{sctx: sctx, members: members}
}

func (a *Authority) list(role Role) (*linkedlist.LinkedList, error) {
	l, ok := a.members[role]
	if !ok {
		return nil, reverts.Newf(reverts.ErrInvalidConfiguration, "unknown role %d", uint8(role))
	}
	return l, nil
}

// Has returns whether addr holds role.
func (a *Authority) Has(role Role, addr lss.Address) (bool, error) {
	l, err := a.list(role)
	if err != nil {
		return false, err
	}
	return l.Contains(addr)
}

// Can returns whether addr holds any role granted the capability.
func (a *Authority) Can(addr lss.Address, c Capability) (bool, error) {
	for _, r := range capabilities[c] {
		ok, err := a.Has(r, addr)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Authorize fails with Unauthorized unless caller holds the capability.
func (a *Authority) Authorize(caller lss.Address, c Capability) error {
	ok, err := a.Can(caller, c)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Newf(reverts.ErrUnauthorized, "%s lacks %s", caller, c)
	}
	return nil
}

// Add grants role to addr without authorization. Used while building genesis.
func (a *Authority) Add(role Role, addr lss.Address) error {
	if addr.IsZero() {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "zero address for %s", role)
	}
	l, err := a.list(role)
	if err != nil {
		return err
	}
	if err := l.Add(addr); err != nil {
		return errors.Wrap(err, "add member")
	}
	return nil
}

func manageCapability(role Role) Capability {
	if role == RoleCommittee {
		return CapManageCommittee
	}
	return CapManageRoles
}

// Grant grants role to addr on behalf of caller.
func (a *Authority) Grant(caller lss.Address, role Role, addr lss.Address) error {
	if err := a.Authorize(caller, manageCapability(role)); err != nil {
		return err
	}
	ok, err := a.Has(role, addr)
	if err != nil || ok {
		return err
	}
	if err := a.Add(role, addr); err != nil {
		return err
	}
	a.sctx.Emit("RoleGranted", 0, addr, nil, role.String())
	return nil
}

// Revoke revokes role from addr on behalf of caller.
// The last admin cannot be revoked.
func (a *Authority) Revoke(caller lss.Address, role Role, addr lss.Address) error {
	if err := a.Authorize(caller, manageCapability(role)); err != nil {
		return err
	}
	l, err := a.list(role)
	if err != nil {
		return err
	}
	ok, err := l.Contains(addr)
	if err != nil || !ok {
		return err
	}
	if role == RoleAdmin {
		n, err := l.Len()
		if err != nil {
			return err
		}
		if n == 1 {
			return reverts.Newf(reverts.ErrInvalidConfiguration, "cannot revoke the last admin")
		}
	}
	if err := l.Remove(addr); err != nil {
		return errors.Wrap(err, "remove member")
	}
	a.sctx.Emit("RoleRevoked", 0, addr, nil, role.String())
	return nil
}

// Members returns all holders of role in grant order.
func (a *Authority) Members(role Role) ([]lss.Address, error) {
	l, err := a.list(role)
	if err != nil {
		return nil, err
	}
	return l.All()
}

// Count returns the number of holders of role.
func (a *Authority) Count(role Role) (uint64, error) {
	l, err := a.list(role)
	if err != nil {
		return 0, err
	}
	return l.Len()
}
