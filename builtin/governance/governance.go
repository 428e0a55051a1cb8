// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/builtin/solidity"
	"github.com/lossless-cash/lossless-go/builtin/staking"
	"github.com/lossless-cash/lossless-go/builtin/token"
	"github.com/lossless-cash/lossless-go/log"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

var (
	logger = log.WithContext("pkg", "governance")

	slotProceedings = lss.BytesToBytes32([]byte("proceedings"))
	slotBallots     = lss.BytesToBytes32([]byte("ballots"))
	slotProposals   = lss.BytesToBytes32([]byte("proposals"))
)

// Governance collects the votes of the team, the token owners and the committee,
// and resolves a report once two of the three classes agree.
type Governance struct {
	sctx       *solidity.Context
	authority  *authority.Authority
	params     *params.Params
	controller *controller.Controller
	reporting  *reporting.Reporting
	staking    *staking.Staking
	token      *token.Token

	proceedings *solidity.Mapping[lss.Uint64Key, *Proceeding]
	ballots     *solidity.Mapping[ballotKey, lss.Verdict]
	proposals   *solidity.Mapping[lss.Uint64Key, *Proposal]
}

func New(
	addr lss.Address,
	state *state.State,
	authority *authority.Authority,
	params *params.Params,
	controller *controller.Controller,
	reporting *reporting.Reporting,
	staking *staking.Staking,
	token *token.Token,
) *Governance {
	sctx := solidity.NewContext(addr, state)
	return &Governance{
		sctx:        sctx,
		authority:   authority,
		params:      params,
		controller:  controller,
		reporting:   reporting,
		staking:     staking,
		token:       token,
		proceedings: solidity.NewMapping[lss.Uint64Key, *Proceeding](sctx, slotProceedings),
		ballots:     solidity.NewMapping[ballotKey, lss.Verdict](sctx, slotBallots),
		proposals:   solidity.NewMapping[lss.Uint64Key, *Proposal](sctx, slotProposals),
	}
}

// Address returns the escrow address holding committee rewards.
func (g *Governance) Address() lss.Address {
	return g.sctx.Address()
}

// Proceeding returns the vote record of the report.
func (g *Governance) Proceeding(reportID uint64) (*Proceeding, error) {
	p, err := g.proceedings.Get(lss.Uint64Key(reportID))
	if err != nil {
		return nil, errors.Wrap(err, "get proceeding")
	}
	if p == nil {
		return newProceeding(reportID), nil
	}
	return p, nil
}

// Ballot returns the verdict cast by a committee member on the report.
func (g *Governance) Ballot(reportID uint64, member lss.Address) (lss.Verdict, error) {
	return g.ballots.Get(ballotKey{reportID, member})
}

func (g *Governance) setProceeding(p *Proceeding) error {
	return g.proceedings.Set(lss.Uint64Key(p.ReportID), p)
}

// CastVote records the vote of voter for class on the report and resolves the report
// as soon as two classes agree.
func (g *Governance) CastVote(voter lss.Address, reportID uint64, class lss.VoterClass, verdict lss.Verdict, now uint64) error {
	if err := g.controller.RequireNotPaused(); err != nil {
		return err
	}
	if !class.IsValid() || !verdict.IsValid() {
		return reverts.Newf(reverts.ErrInvalidVote, "class %s verdict %s", class, verdict)
	}
	report, err := g.reporting.MustReport(reportID)
	if err != nil {
		return err
	}
	proceeding, err := g.Proceeding(reportID)
	if err != nil {
		return err
	}
	if proceeding.Stage == StageResolved {
		return reverts.Newf(reverts.ErrReportAlreadyResolved, "report %d resolved %s", reportID, proceeding.Verdict)
	}
	if report.Status != reporting.StatusOpen {
		return reverts.Newf(reverts.ErrReportNotOpen, "report %d is %s", reportID, report.Status)
	}
	if report.IsDue(now) {
		if _, err := g.reporting.ExpireIfDue(reportID, now); err != nil {
			return err
		}
		return reverts.Newf(reverts.ErrReportExpired, "report %d deadline %d passed", reportID, report.Deadline)
	}
	if err := g.authority.Authorize(voter, authority.VoteCapability(class)); err != nil {
		return err
	}
	if proceeding.Vote(class) != lss.VerdictNone {
		return reverts.Newf(reverts.ErrAlreadyVoted, "%s voted %s on report %d", class, proceeding.Vote(class), reportID)
	}

	if class == lss.ClassCommittee {
		if err := g.castBallot(proceeding, voter, verdict); err != nil {
			return err
		}
	} else {
		proceeding.setVote(class, verdict)
	}
	proceeding.Stage = StagePartiallyVoted

	logger.Debug("vote cast", "report", reportID, "class", class, "verdict", verdict, "voter", voter)
	g.sctx.Emit("VoteCast", reportID, voter, nil, class.String()+":"+verdict.String())

	majority := proceeding.Majority()
	if majority == lss.VerdictNone {
		return g.setProceeding(proceeding)
	}
	return g.resolve(proceeding, majority, now)
}

// castBallot records a committee member's ballot. The committee class vote is decided once
// more than half of the current committee agrees.
func (g *Governance) castBallot(p *Proceeding, member lss.Address, verdict lss.Verdict) error {
	prev, err := g.Ballot(p.ReportID, member)
	if err != nil {
		return err
	}
	if prev != lss.VerdictNone {
		return reverts.Newf(reverts.ErrAlreadyVoted, "committee member %s voted %s", member, prev)
	}
	if err := g.ballots.Set(ballotKey{p.ReportID, member}, verdict); err != nil {
		return err
	}
	p.CommitteeVoters = append(p.CommitteeVoters, member)

	count := &p.CommitteeInnocent
	if verdict == lss.VerdictMalicious {
		count = &p.CommitteeMalicious
	}
	*count++

	size, err := g.authority.Count(authority.RoleCommittee)
	if err != nil {
		return err
	}
	if *count*2 > size {
		p.CommitteeVote = verdict
	}
	return nil
}

func (g *Governance) resolve(p *Proceeding, verdict lss.Verdict, now uint64) error {
	report, err := g.reporting.Resolve(p.ReportID, verdict, now)
	if err != nil {
		return err
	}
	if err := g.staking.Settle(p.ReportID, now); err != nil {
		return err
	}
	if err := g.rewardCommittee(p, report); err != nil {
		return err
	}

	p.Stage = StageResolved
	p.Verdict = verdict
	p.ResolvedAt = now
	if err := g.setProceeding(p); err != nil {
		return err
	}
	logger.Info("report resolved", "report", p.ReportID, "verdict", verdict)
	g.sctx.Emit("ReportVerdict", p.ReportID, report.Reported, nil, verdict.String())
	return nil
}

// rewardCommittee splits the committee reward equally among the members whose ballot
// matched the verdict. Rounding leftovers, or the whole reward if none matched, go to the treasury.
func (g *Governance) rewardCommittee(p *Proceeding, report *reporting.Report) error {
	reward := report.Payout.CommitteeReward
	if reward == nil || reward.Sign() == 0 {
		return nil
	}
	cfg, err := g.params.Get()
	if err != nil {
		return err
	}

	var winners []lss.Address
	for _, member := range p.CommitteeVoters {
		ballot, err := g.Ballot(p.ReportID, member)
		if err != nil {
			return err
		}
		if ballot == report.Verdict {
			winners = append(winners, member)
		}
	}

	leftover := new(big.Int).Set(reward)
	if len(winners) > 0 {
		share := new(big.Int).Quo(reward, big.NewInt(int64(len(winners))))
		for _, member := range winners {
			if err := g.pay(member, share); err != nil {
				return err
			}
			g.sctx.Emit("CommitteeRewarded", p.ReportID, member, share, "")
		}
		p.CommitteeReward = share
		leftover.Sub(leftover, new(big.Int).Mul(share, big.NewInt(int64(len(winners)))))
	}
	return g.pay(cfg.Treasury, leftover)
}

func (g *Governance) pay(to lss.Address, amount *big.Int) error {
	return g.token.Transfer(g.Address(), g.Address(), to, amount)
}

// AddCommitteeMembers grants the committee role.
func (g *Governance) AddCommitteeMembers(caller lss.Address, members []lss.Address) error {
	for _, m := range members {
		if err := g.authority.Grant(caller, authority.RoleCommittee, m); err != nil {
			return err
		}
	}
	return nil
}

// RemoveCommitteeMembers revokes the committee role.
func (g *Governance) RemoveCommitteeMembers(caller lss.Address, members []lss.Address) error {
	for _, m := range members {
		if err := g.authority.Revoke(caller, authority.RoleCommittee, m); err != nil {
			return err
		}
	}
	return nil
}

// Proposal returns the recovery wallet proposal of the report, nil if none was made.
func (g *Governance) Proposal(reportID uint64) (*Proposal, error) {
	return g.proposals.Get(lss.Uint64Key(reportID))
}

func (g *Governance) liveProposal(reportID uint64) (*Proposal, error) {
	p, err := g.Proposal(reportID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Canceled {
		return nil, reverts.Newf(reverts.ErrInvalidProposal, "no wallet proposed for report %d", reportID)
	}
	return p, nil
}

// ProposeWallet proposes the wallet that may retrieve the funds frozen by a valid report.
func (g *Governance) ProposeWallet(caller lss.Address, reportID uint64, wallet lss.Address, now uint64) error {
	if err := g.controller.RequireNotPaused(); err != nil {
		return err
	}
	if err := g.authority.Authorize(caller, authority.CapProposeWallet); err != nil {
		return err
	}
	report, err := g.reporting.MustReport(reportID)
	if err != nil {
		return err
	}
	if report.Status != reporting.StatusResolvedValid {
		return reverts.Newf(reverts.ErrInvalidProposal, "report %d is %s", reportID, report.Status)
	}
	existing, err := g.Proposal(reportID)
	if err != nil {
		return err
	}
	if existing != nil && !existing.Canceled {
		return reverts.Newf(reverts.ErrInvalidProposal, "wallet %s already proposed", existing.Wallet)
	}
	if wallet.IsZero() || report.IsAccused(wallet) || g.controller.IsProtocol(wallet) {
		return reverts.Newf(reverts.ErrInvalidProposal, "wallet %s not allowed", wallet)
	}

	if err := g.proposals.Set(lss.Uint64Key(reportID), &Proposal{
		ReportID:   reportID,
		Wallet:     wallet,
		ProposedBy: caller,
		ProposedAt: now,
		Amount:     new(big.Int),
	}); err != nil {
		return err
	}
	g.sctx.Emit("WalletProposed", reportID, wallet, nil, "")
	return nil
}

// RejectWallet records the rejection of the proposed wallet by a voter class.
// Two rejections cancel the proposal.
func (g *Governance) RejectWallet(caller lss.Address, reportID uint64, class lss.VoterClass, now uint64) error {
	if err := g.controller.RequireNotPaused(); err != nil {
		return err
	}
	if !class.IsValid() {
		return reverts.Newf(reverts.ErrInvalidVote, "class %s", class)
	}
	if err := g.authority.Authorize(caller, authority.VoteCapability(class)); err != nil {
		return err
	}
	p, err := g.liveProposal(reportID)
	if err != nil {
		return err
	}
	if p.Retrieved {
		return reverts.Newf(reverts.ErrAlreadySettled, "funds of report %d retrieved", reportID)
	}
	cfg, err := g.params.Get()
	if err != nil {
		return err
	}
	if now > p.ProposedAt+cfg.WalletDisputePeriod {
		return reverts.Newf(reverts.ErrInvalidProposal, "dispute period of report %d is over", reportID)
	}
	rejected := p.rejected(class)
	if *rejected {
		return reverts.Newf(reverts.ErrAlreadyVoted, "%s already rejected wallet", class)
	}
	*rejected = true
	g.sctx.Emit("WalletRejected", reportID, p.Wallet, nil, class.String())

	if p.Rejections() >= 2 {
		p.Canceled = true
		logger.Info("wallet proposal canceled", "report", reportID, "wallet", p.Wallet)
		g.sctx.Emit("WalletCanceled", reportID, p.Wallet, nil, "")
	}
	return g.proposals.Set(lss.Uint64Key(reportID), p)
}

// RetrieveFunds moves the balances of the accused addresses to the proposed wallet
// once the dispute period has passed. Only the wallet itself may call it.
func (g *Governance) RetrieveFunds(caller lss.Address, reportID uint64, now uint64) (*big.Int, error) {
	if err := g.controller.RequireNotPaused(); err != nil {
		return nil, err
	}
	p, err := g.liveProposal(reportID)
	if err != nil {
		return nil, err
	}
	if p.Retrieved {
		return nil, reverts.Newf(reverts.ErrAlreadySettled, "funds of report %d retrieved", reportID)
	}
	if caller != p.Wallet {
		return nil, reverts.Newf(reverts.ErrUnauthorized, "%s is not the proposed wallet", caller)
	}
	cfg, err := g.params.Get()
	if err != nil {
		return nil, err
	}
	if now <= p.ProposedAt+cfg.WalletDisputePeriod {
		return nil, reverts.Newf(reverts.ErrInvalidProposal, "dispute period of report %d not over", reportID)
	}
	report, err := g.reporting.MustReport(reportID)
	if err != nil {
		return nil, err
	}

	total := new(big.Int)
	for _, addr := range report.Accused() {
		bal, err := g.token.Balance(addr)
		if err != nil {
			return nil, err
		}
		if bal.Sign() == 0 {
			continue
		}
		if err := g.token.Transfer(g.Address(), addr, p.Wallet, bal); err != nil {
			return nil, err
		}
		total.Add(total, bal)
	}

	p.Retrieved = true
	p.Amount = total
	if err := g.proposals.Set(lss.Uint64Key(reportID), p); err != nil {
		return nil, err
	}
	logger.Info("funds retrieved", "report", reportID, "wallet", p.Wallet, "amount", total)
	g.sctx.Emit("FundsRetrieved", reportID, p.Wallet, total, "")
	return total, nil
}
