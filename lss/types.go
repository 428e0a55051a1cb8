// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lss

import (
	"fmt"
	"math/big"
)

// Verdict is the outcome of a report, as voted by a voter class or decided by majority.
type Verdict uint8

const (
	VerdictNone Verdict = iota
	VerdictMalicious
	VerdictInnocent
)

func (v Verdict) String() string {
	switch v {
	case VerdictNone:
		return "none"
	case VerdictMalicious:
		return "malicious"
	case VerdictInnocent:
		return "innocent"
	default:
		return fmt.Sprintf("verdict(%d)", uint8(v))
	}
}

// IsValid returns whether v is a castable verdict.
func (v Verdict) IsValid() bool {
	return v == VerdictMalicious || v == VerdictInnocent
}

// ParseVerdict parses the string form of a verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "malicious":
		return VerdictMalicious, nil
	case "innocent":
		return VerdictInnocent, nil
	}
	return VerdictNone, fmt.Errorf("unknown verdict %q", s)
}

// VoterClass identifies one of the three voting bodies.
type VoterClass uint8

const (
	ClassTeam VoterClass = iota
	ClassTokenOwners
	ClassCommittee
)

// VoterClasses all voter classes in vote index order.
var VoterClasses = []VoterClass{ClassTeam, ClassTokenOwners, ClassCommittee}

func (c VoterClass) String() string {
	switch c {
	case ClassTeam:
		return "team"
	case ClassTokenOwners:
		return "token-owners"
	case ClassCommittee:
		return "committee"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// IsValid returns whether c is a known voter class.
func (c VoterClass) IsValid() bool {
	return c <= ClassCommittee
}

// ParseVoterClass parses the string form of a voter class.
func ParseVoterClass(s string) (VoterClass, error) {
	for _, c := range VoterClasses {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown voter class %q", s)
}

// Event is emitted by protocol contracts on every state transition.
type Event struct {
	Contract  Address
	Name      string
	ReportID  uint64
	Account   Address
	Amount    *big.Int
	Detail    string
	Timestamp uint64
}
