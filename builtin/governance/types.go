// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"fmt"
	"math/big"

	"github.com/lossless-cash/lossless-go/lss"
)

// Stage of a report's vote.
type Stage uint8

const (
	StagePending Stage = iota
	StagePartiallyVoted
	StageResolved
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StagePartiallyVoted:
		return "partially-voted"
	case StageResolved:
		return "resolved"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// Proceeding is the vote record of one report.
type Proceeding struct {
	ReportID           uint64
	TeamVote           lss.Verdict
	TokenOwnersVote    lss.Verdict
	CommitteeVote      lss.Verdict
	CommitteeMalicious uint64
	CommitteeInnocent  uint64
	CommitteeVoters    []lss.Address
	Stage              Stage
	Verdict            lss.Verdict
	ResolvedAt         uint64
	CommitteeReward    *big.Int // paid to each committee member who voted with the verdict
}

func newProceeding(reportID uint64) *Proceeding {
	return &Proceeding{ReportID: reportID, CommitteeReward: new(big.Int)}
}

// Vote returns the verdict cast by a class, VerdictNone if it has not voted yet.
func (p *Proceeding) Vote(class lss.VoterClass) lss.Verdict {
	switch class {
	case lss.ClassTeam:
		return p.TeamVote
	case lss.ClassTokenOwners:
		return p.TokenOwnersVote
	default:
		return p.CommitteeVote
	}
}

func (p *Proceeding) setVote(class lss.VoterClass, v lss.Verdict) {
	switch class {
	case lss.ClassTeam:
		p.TeamVote = v
	case lss.ClassTokenOwners:
		p.TokenOwnersVote = v
	default:
		p.CommitteeVote = v
	}
}

// Majority returns the verdict at least two classes agree on, VerdictNone otherwise.
func (p *Proceeding) Majority() lss.Verdict {
	var malicious, innocent int
	for _, class := range lss.VoterClasses {
		switch p.Vote(class) {
		case lss.VerdictMalicious:
			malicious++
		case lss.VerdictInnocent:
			innocent++
		}
	}
	switch {
	case malicious >= 2:
		return lss.VerdictMalicious
	case innocent >= 2:
		return lss.VerdictInnocent
	}
	return lss.VerdictNone
}

// Proposal is a request to move the frozen funds of a valid report to a recovery wallet.
type Proposal struct {
	ReportID            uint64
	Wallet              lss.Address
	ProposedBy          lss.Address
	ProposedAt          uint64
	RejectedTeam        bool
	RejectedTokenOwners bool
	RejectedCommittee   bool
	Canceled            bool
	Retrieved           bool
	Amount              *big.Int
}

func (p *Proposal) rejected(class lss.VoterClass) *bool {
	switch class {
	case lss.ClassTeam:
		return &p.RejectedTeam
	case lss.ClassTokenOwners:
		return &p.RejectedTokenOwners
	default:
		return &p.RejectedCommittee
	}
}

// Rejections returns the number of classes that rejected the proposal.
func (p *Proposal) Rejections() int {
	n := 0
	for _, r := range []bool{p.RejectedTeam, p.RejectedTokenOwners, p.RejectedCommittee} {
		if r {
			n++
		}
	}
	return n
}

type ballotKey struct {
	reportID uint64
	member   lss.Address
}

func (k ballotKey) Bytes() []byte {
	return append(lss.Uint64Key(k.reportID).Bytes(), k.member[:]...)
}
