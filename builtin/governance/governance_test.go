// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/builtin"
	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/governance"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/builtin/staking"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/test/datagen"
	"github.com/lossless-cash/lossless-go/test/testchain"
)

const lifetime = 3600

type fixture struct {
	*testchain.Chain
	reporter lss.Address
	reported lss.Address
	reportID uint64
}

func newFixture(t *testing.T) *fixture {
	c := testchain.New(t,
		testchain.WithFees(20, 50, 10, 10),
		testchain.WithAmounts(1000, 100),
		testchain.WithLifetime(lifetime),
	)
	f := &fixture{
		Chain:    c,
		reporter: c.NewAccount(t, 1000),
		reported: c.NewAccount(t, 50),
	}
	id, err := c.Reporting.Open(f.reporter, f.reported, c.Now())
	require.NoError(t, err)
	f.reportID = id
	return f
}

func (f *fixture) vote(t *testing.T, voter lss.Address, class lss.VoterClass, verdict lss.Verdict) {
	require.NoError(t, f.Governance.CastVote(voter, f.reportID, class, verdict, f.Now()))
}

func (f *fixture) report(t *testing.T) *reporting.Report {
	report, err := f.Reporting.Report(f.reportID)
	require.NoError(t, err)
	return report
}

func (f *fixture) proceeding(t *testing.T) *governance.Proceeding {
	p, err := f.Governance.Proceeding(f.reportID)
	require.NoError(t, err)
	return p
}

func TestMaliciousVerdict(t *testing.T) {
	f := newFixture(t)
	small := f.NewAccount(t, 300)
	large := f.NewAccount(t, 700)
	require.NoError(t, f.Staking.Place(small, f.reportID, big.NewInt(300), staking.SideAccuse, f.Now()))
	require.NoError(t, f.Staking.Place(large, f.reportID, big.NewInt(700), staking.SideAccuse, f.Now()))
	treasury := f.Balance(t, f.Treasury)

	f.vote(t, f.Admin, lss.ClassTeam, lss.VerdictMalicious)
	assert.Equal(t, governance.StagePartiallyVoted, f.proceeding(t).Stage)
	assert.Equal(t, reporting.StatusOpen, f.report(t).Status)

	f.vote(t, f.Committee[0], lss.ClassCommittee, lss.VerdictMalicious)
	assert.Equal(t, lss.VerdictNone, f.proceeding(t).CommitteeVote)
	f.vote(t, f.Committee[1], lss.ClassCommittee, lss.VerdictMalicious)

	p := f.proceeding(t)
	assert.Equal(t, governance.StageResolved, p.Stage)
	assert.Equal(t, lss.VerdictMalicious, p.Verdict)
	assert.Equal(t, lss.VerdictMalicious, p.CommitteeVote)
	assert.Equal(t, big.NewInt(50), p.CommitteeReward)

	assert.Equal(t, reporting.StatusResolvedValid, f.report(t).Status)
	assert.Equal(t, big.NewInt(200), f.Balance(t, f.reporter))
	assert.Equal(t, new(big.Int).Add(treasury, big.NewInt(600)), f.Balance(t, f.Treasury))
	assert.Equal(t, big.NewInt(330), f.Balance(t, small))
	assert.Equal(t, big.NewInt(770), f.Balance(t, large))
	assert.Equal(t, 0, f.Balance(t, builtin.Reporting.Address).Sign())
	assert.Equal(t, 0, f.Balance(t, builtin.Staking.Address).Sign())
	assert.Equal(t, 0, f.Balance(t, builtin.Governance.Address).Sign())

	e, err := f.Controller.Entry(f.reported)
	require.NoError(t, err)
	assert.True(t, e.Permanent)

	err = f.Governance.CastVote(f.TokenOwner, f.reportID, lss.ClassTokenOwners, lss.VerdictInnocent, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrReportAlreadyResolved))
}

func TestInnocentVerdict(t *testing.T) {
	f := newFixture(t)
	defender := f.NewAccount(t, 100)
	require.NoError(t, f.Staking.Place(defender, f.reportID, big.NewInt(100), staking.SideDefend, f.Now()))

	f.vote(t, f.Admin, lss.ClassTeam, lss.VerdictInnocent)
	f.vote(t, f.TokenOwner, lss.ClassTokenOwners, lss.VerdictInnocent)

	assert.Equal(t, reporting.StatusResolvedInvalid, f.report(t).Status)
	assert.Equal(t, big.NewInt(1050), f.Balance(t, f.reported))
	assert.Equal(t, big.NewInt(100), f.Balance(t, defender))
	assert.Equal(t, 0, f.proceeding(t).CommitteeReward.Sign())

	status, err := f.Controller.Status(f.reported)
	require.NoError(t, err)
	assert.Equal(t, controller.StatusNeutral, status)
}

func TestSplitVoteNeedsThirdClass(t *testing.T) {
	f := newFixture(t)

	f.vote(t, f.Admin, lss.ClassTeam, lss.VerdictMalicious)
	f.vote(t, f.TokenOwner, lss.ClassTokenOwners, lss.VerdictInnocent)
	assert.Equal(t, reporting.StatusOpen, f.report(t).Status)

	// a committee split does not decide the class
	f.vote(t, f.Committee[0], lss.ClassCommittee, lss.VerdictInnocent)
	f.vote(t, f.Committee[1], lss.ClassCommittee, lss.VerdictMalicious)
	assert.Equal(t, reporting.StatusOpen, f.report(t).Status)
	assert.Equal(t, uint64(1), f.proceeding(t).CommitteeInnocent)
	assert.Equal(t, uint64(1), f.proceeding(t).CommitteeMalicious)

	f.vote(t, f.Committee[2], lss.ClassCommittee, lss.VerdictMalicious)
	assert.Equal(t, reporting.StatusResolvedValid, f.report(t).Status)

	// only the members who voted with the verdict share the reward
	diff := new(big.Int).Sub(f.Balance(t, f.Committee[1]), f.Balance(t, f.Committee[0]))
	assert.Equal(t, big.NewInt(50), diff)
	ballot, err := f.Governance.Ballot(f.reportID, f.Committee[0])
	require.NoError(t, err)
	assert.Equal(t, lss.VerdictInnocent, ballot)
}

func TestCastVoteRejected(t *testing.T) {
	f := newFixture(t)
	f.vote(t, f.Admin, lss.ClassTeam, lss.VerdictMalicious)
	f.vote(t, f.Committee[0], lss.ClassCommittee, lss.VerdictInnocent)

	tests := []struct {
		name    string
		voter   lss.Address
		id      uint64
		class   lss.VoterClass
		verdict lss.Verdict
		want    error
	}{
		{"not a committee member", datagen.RandAddress(), f.reportID, lss.ClassCommittee, lss.VerdictMalicious, reverts.ErrUnauthorized},
		{"not a token owner", f.Admin, f.reportID, lss.ClassTokenOwners, lss.VerdictMalicious, reverts.ErrUnauthorized},
		{"class voted", f.Admin, f.reportID, lss.ClassTeam, lss.VerdictInnocent, reverts.ErrAlreadyVoted},
		{"member voted", f.Committee[0], f.reportID, lss.ClassCommittee, lss.VerdictMalicious, reverts.ErrAlreadyVoted},
		{"no verdict", f.TokenOwner, f.reportID, lss.ClassTokenOwners, lss.VerdictNone, reverts.ErrInvalidVote},
		{"unknown class", f.TokenOwner, f.reportID, lss.VoterClass(9), lss.VerdictMalicious, reverts.ErrInvalidVote},
		{"unknown report", f.TokenOwner, 99, lss.ClassTokenOwners, lss.VerdictMalicious, reverts.ErrReportNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.Governance.CastVote(tt.voter, tt.id, tt.class, tt.verdict, f.Now())
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestExpiryWithPartialVotes(t *testing.T) {
	f := newFixture(t)
	f.vote(t, f.Admin, lss.ClassTeam, lss.VerdictMalicious)

	err := f.Governance.CastVote(f.Committee[0], f.reportID, lss.ClassCommittee, lss.VerdictMalicious, f.Advance(lifetime+1))
	assert.True(t, errors.Is(err, reverts.ErrReportExpired))

	assert.Equal(t, reporting.StatusExpired, f.report(t).Status)
	assert.Equal(t, big.NewInt(1000), f.Balance(t, f.reporter))
	status, err := f.Controller.Status(f.reported)
	require.NoError(t, err)
	assert.Equal(t, controller.StatusNeutral, status)

	err = f.Governance.CastVote(f.TokenOwner, f.reportID, lss.ClassTokenOwners, lss.VerdictMalicious, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrReportNotOpen))
}

func TestCommitteeMembers(t *testing.T) {
	f := newFixture(t)
	member := datagen.RandAddress()

	err := f.Governance.AddCommitteeMembers(f.Committee[0], []lss.Address{member})
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))

	require.NoError(t, f.Governance.AddCommitteeMembers(f.Admin, []lss.Address{member}))
	n, err := f.Authority.Count(authority.RoleCommittee)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)

	require.NoError(t, f.Governance.RemoveCommitteeMembers(f.Admin, []lss.Address{member, f.Committee[2]}))
	n, err = f.Authority.Count(authority.RoleCommittee)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	// two of the remaining two decide the class
	f.vote(t, f.Committee[0], lss.ClassCommittee, lss.VerdictMalicious)
	assert.Equal(t, lss.VerdictNone, f.proceeding(t).CommitteeVote)
	f.vote(t, f.Committee[1], lss.ClassCommittee, lss.VerdictMalicious)
	assert.Equal(t, lss.VerdictMalicious, f.proceeding(t).CommitteeVote)
}

func resolveValid(t *testing.T, f *fixture) {
	f.vote(t, f.Admin, lss.ClassTeam, lss.VerdictMalicious)
	f.vote(t, f.TokenOwner, lss.ClassTokenOwners, lss.VerdictMalicious)
	require.Equal(t, reporting.StatusResolvedValid, f.report(t).Status)
}

func TestRetrieveFunds(t *testing.T) {
	f := newFixture(t)
	wallet := datagen.RandAddress()

	err := f.Governance.ProposeWallet(f.Admin, f.reportID, wallet, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrInvalidProposal))

	resolveValid(t, f)

	err = f.Governance.ProposeWallet(f.TokenOwner, f.reportID, wallet, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))
	err = f.Governance.ProposeWallet(f.Admin, f.reportID, f.reported, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrInvalidProposal))

	require.NoError(t, f.Governance.ProposeWallet(f.Admin, f.reportID, wallet, f.Now()))
	require.NoError(t, f.Governance.RejectWallet(f.TokenOwner, f.reportID, lss.ClassTokenOwners, f.Now()))
	err = f.Governance.RejectWallet(f.TokenOwner, f.reportID, lss.ClassTokenOwners, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrAlreadyVoted))

	_, err = f.Governance.RetrieveFunds(wallet, f.reportID, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrInvalidProposal))

	cfg, err := f.Params.Get()
	require.NoError(t, err)
	f.Advance(cfg.WalletDisputePeriod + 1)

	err = f.Governance.RejectWallet(f.Committee[0], f.reportID, lss.ClassCommittee, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrInvalidProposal))
	_, err = f.Governance.RetrieveFunds(datagen.RandAddress(), f.reportID, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))

	amount, err := f.Governance.RetrieveFunds(wallet, f.reportID, f.Now())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), amount)
	assert.Equal(t, big.NewInt(50), f.Balance(t, wallet))
	assert.Equal(t, 0, f.Balance(t, f.reported).Sign())

	_, err = f.Governance.RetrieveFunds(wallet, f.reportID, f.Now())
	assert.True(t, errors.Is(err, reverts.ErrAlreadySettled))
}

func TestRejectedWallet(t *testing.T) {
	f := newFixture(t)
	resolveValid(t, f)
	wallet := datagen.RandAddress()

	require.NoError(t, f.Governance.ProposeWallet(f.Admin, f.reportID, wallet, f.Now()))
	require.NoError(t, f.Governance.RejectWallet(f.TokenOwner, f.reportID, lss.ClassTokenOwners, f.Now()))
	require.NoError(t, f.Governance.RejectWallet(f.Committee[0], f.reportID, lss.ClassCommittee, f.Now()))

	p, err := f.Governance.Proposal(f.reportID)
	require.NoError(t, err)
	assert.True(t, p.Canceled)
	assert.Equal(t, 2, p.Rejections())

	_, err = f.Governance.RetrieveFunds(wallet, f.reportID, f.Advance(lss.DefaultWalletDisputePeriod+1))
	assert.True(t, errors.Is(err, reverts.ErrInvalidProposal))

	// a canceled proposal can be replaced
	assert.NoError(t, f.Governance.ProposeWallet(f.Admin, f.reportID, datagen.RandAddress(), f.Now()))
}
