// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package controller

import (
	"fmt"
)

// Status is the transfer status of an address.
type Status uint8

const (
	StatusNeutral Status = iota
	StatusWhitelisted
	StatusBlacklisted
)

func (s Status) String() string {
	switch s {
	case StatusNeutral:
		return "neutral"
	case StatusWhitelisted:
		return "whitelisted"
	case StatusBlacklisted:
		return "blacklisted"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// ParseStatus parses the string form of a status.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusNeutral, StatusWhitelisted, StatusBlacklisted} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Entry is the stored status of an address.
type Entry struct {
	Status    Status
	Permanent bool   // set when a report resolves malicious
	ReportID  uint64 // the report that set the status, zero if set by an admin
}

// IsBlacklisted returns whether transfers touching the address are blocked.
func (e *Entry) IsBlacklisted() bool {
	return e.Status == StatusBlacklisted
}
