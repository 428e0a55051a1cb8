// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"fmt"

	"github.com/lossless-cash/lossless-go/lss"
)

// Role is a named set of addresses.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RolePauseAdmin
	RoleRecoveryAdmin
	RoleBackupAdmin
	RoleTokenOwner
	RoleCommittee
)

// Roles all known roles.
var Roles = []Role{RoleAdmin, RolePauseAdmin, RoleRecoveryAdmin, RoleBackupAdmin, RoleTokenOwner, RoleCommittee}

var roleNames = map[Role]string{
	RoleAdmin:         "admin",
	RolePauseAdmin:    "pause-admin",
	RoleRecoveryAdmin: "recovery-admin",
	RoleBackupAdmin:   "backup-admin",
	RoleTokenOwner:    "token-owner",
	RoleCommittee:     "committee",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// ParseRole parses the string form of a role.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Capability is a privileged action. Every capability is granted to an explicit set of roles.
type Capability uint8

const (
	CapSetStatus Capability = iota + 1
	CapConfigure
	CapPause
	CapManageCommittee
	CapManageRoles
	CapVoteTeam
	CapVoteTokenOwners
	CapVoteCommittee
	CapProposeWallet
)

var capabilityNames = map[Capability]string{
	CapSetStatus:       "set-status",
	CapConfigure:       "configure",
	CapPause:           "pause",
	CapManageCommittee: "manage-committee",
	CapManageRoles:     "manage-roles",
	CapVoteTeam:        "vote-team",
	CapVoteTokenOwners: "vote-token-owners",
	CapVoteCommittee:   "vote-committee",
	CapProposeWallet:   "propose-wallet",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return fmt.Sprintf("capability(%d)", uint8(c))
}

// capabilities is the authorization table.
var capabilities = map[Capability][]Role{
	CapSetStatus:       {RoleAdmin, RoleBackupAdmin},
	CapConfigure:       {RoleAdmin},
	CapPause:           {RolePauseAdmin},
	CapManageCommittee: {RoleAdmin},
	CapManageRoles:     {RoleAdmin, RoleRecoveryAdmin},
	CapVoteTeam:        {RoleAdmin},
	CapVoteTokenOwners: {RoleTokenOwner},
	CapVoteCommittee:   {RoleCommittee},
	CapProposeWallet:   {RoleAdmin},
}

// RolesFor returns the roles granted the capability.
func RolesFor(c Capability) []Role {
	return capabilities[c]
}

// VoteCapability maps a voter class to the capability needed to vote for it.
func VoteCapability(class lss.VoterClass) Capability {
	switch class {
	case lss.ClassTeam:
		return CapVoteTeam
	case lss.ClassTokenOwners:
		return CapVoteTokenOwners
	default:
		return CapVoteCommittee
	}
}
