// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reports

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/builtin/governance"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/staking"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/runtime"
)

// OpenReport is the body of a new report.
type OpenReport struct {
	Reporter *lss.Address `json:"reporter"`
	Reported *lss.Address `json:"reported"`
}

type SecondReport struct {
	Caller *lss.Address `json:"caller"`
	Second *lss.Address `json:"second"`
}

type PlaceStake struct {
	Staker *lss.Address           `json:"staker"`
	Amount *math.HexOrDecimal256 `json:"amount"`
	Side   string                `json:"side"`
}

type CastVote struct {
	Voter   *lss.Address `json:"voter"`
	Class   string       `json:"class"`
	Verdict string       `json:"verdict"`
}

type ProposeWallet struct {
	Caller *lss.Address `json:"caller"`
	Wallet *lss.Address `json:"wallet"`
}

type RejectWallet struct {
	Caller *lss.Address `json:"caller"`
	Class  string       `json:"class"`
}

type Caller struct {
	Caller *lss.Address `json:"caller"`
}

type Created struct {
	ID uint64 `json:"id"`
}

type Count struct {
	Count uint64 `json:"count"`
}

type Retrieved struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Payout struct {
	ReporterReward  *math.HexOrDecimal256 `json:"reporterReward"`
	ProtocolFee     *math.HexOrDecimal256 `json:"protocolFee"`
	StakersFee      *math.HexOrDecimal256 `json:"stakersFee"`
	CommitteeReward *math.HexOrDecimal256 `json:"committeeReward"`
	Remainder       *math.HexOrDecimal256 `json:"remainder"`
	Returned        *math.HexOrDecimal256 `json:"returned"`
}

type Report struct {
	ID             uint64                `json:"id"`
	Reporter       lss.Address           `json:"reporter"`
	Reported       lss.Address           `json:"reported"`
	SecondReported *lss.Address          `json:"secondReported,omitempty"`
	CreatedAt      uint64                `json:"createdAt"`
	Deadline       uint64                `json:"deadline"`
	Bond           *math.HexOrDecimal256 `json:"bond"`
	Status         string                `json:"status"`
	Verdict        string                `json:"verdict"`
	ClosedAt       uint64                `json:"closedAt"`
	Payout         Payout                `json:"payout"`
}

type Pool struct {
	TotalAccuse *math.HexOrDecimal256 `json:"totalAccuse"`
	TotalDefend *math.HexOrDecimal256 `json:"totalDefend"`
	Reward      *math.HexOrDecimal256 `json:"reward"`
	ToTreasury  *math.HexOrDecimal256 `json:"toTreasury"`
	Settled     bool                  `json:"settled"`
	SettledAt   uint64                `json:"settledAt"`
}

type Stake struct {
	Staker   lss.Address           `json:"staker"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
	Side     string                `json:"side"`
	StakedAt uint64                `json:"stakedAt"`
	Payout   *math.HexOrDecimal256 `json:"payout"`
	Settled  bool                  `json:"settled"`
}

type Proceeding struct {
	Stage              string                `json:"stage"`
	Votes              map[string]string     `json:"votes"`
	CommitteeMalicious uint64                `json:"committeeMalicious"`
	CommitteeInnocent  uint64                `json:"committeeInnocent"`
	CommitteeVoters    []lss.Address         `json:"committeeVoters"`
	Verdict            string                `json:"verdict"`
	ResolvedAt         uint64                `json:"resolvedAt"`
	CommitteeReward    *math.HexOrDecimal256 `json:"committeeReward"`
}

type Proposal struct {
	Wallet     lss.Address           `json:"wallet"`
	ProposedBy lss.Address           `json:"proposedBy"`
	ProposedAt uint64                `json:"proposedAt"`
	Rejections []string              `json:"rejections"`
	Canceled   bool                  `json:"canceled"`
	Retrieved  bool                  `json:"retrieved"`
	Amount     *math.HexOrDecimal256 `json:"amount"`
}

// Detail is everything recorded about a report.
type Detail struct {
	Report     *Report     `json:"report"`
	Pool       *Pool       `json:"pool"`
	Stakes     []*Stake    `json:"stakes"`
	Proceeding *Proceeding `json:"proceeding"`
	Proposal   *Proposal   `json:"proposal,omitempty"`
}

func convertReport(r *reporting.Report) *Report {
	report := &Report{
		ID:        r.ID,
		Reporter:  r.Reporter,
		Reported:  r.Reported,
		CreatedAt: r.CreatedAt,
		Deadline:  r.Deadline,
		Bond:      utils.HexAmount(r.Bond),
		Status:    r.Status.String(),
		Verdict:   r.Verdict.String(),
		ClosedAt:  r.ClosedAt,
		Payout: Payout{
			ReporterReward:  utils.HexAmount(r.Payout.ReporterReward),
			ProtocolFee:     utils.HexAmount(r.Payout.ProtocolFee),
			StakersFee:      utils.HexAmount(r.Payout.StakersFee),
			CommitteeReward: utils.HexAmount(r.Payout.CommitteeReward),
			Remainder:       utils.HexAmount(r.Payout.Remainder),
			Returned:        utils.HexAmount(r.Payout.Returned),
		},
	}
	if !r.SecondReported.IsZero() {
		second := r.SecondReported
		report.SecondReported = &second
	}
	return report
}

func convertStakes(stakes []*staking.Stake) []*Stake {
	out := make([]*Stake, 0, len(stakes))
	for _, s := range stakes {
		out = append(out, &Stake{
			Staker:   s.Staker,
			Amount:   utils.HexAmount(s.Amount),
			Side:     s.Side.String(),
			StakedAt: s.StakedAt,
			Payout:   utils.HexAmount(s.Payout),
			Settled:  s.Settled,
		})
	}
	return out
}

func convertProceeding(p *governance.Proceeding) *Proceeding {
	votes := make(map[string]string, len(lss.VoterClasses))
	for _, class := range lss.VoterClasses {
		votes[class.String()] = p.Vote(class).String()
	}
	voters := p.CommitteeVoters
	if voters == nil {
		voters = []lss.Address{}
	}
	return &Proceeding{
		Stage:              p.Stage.String(),
		Votes:              votes,
		CommitteeMalicious: p.CommitteeMalicious,
		CommitteeInnocent:  p.CommitteeInnocent,
		CommitteeVoters:    voters,
		Verdict:            p.Verdict.String(),
		ResolvedAt:         p.ResolvedAt,
		CommitteeReward:    utils.HexAmount(p.CommitteeReward),
	}
}

func convertProposal(p *governance.Proposal) *Proposal {
	if p == nil {
		return nil
	}
	rejections := []string{}
	for i, rejected := range []bool{p.RejectedTeam, p.RejectedTokenOwners, p.RejectedCommittee} {
		if rejected {
			rejections = append(rejections, lss.VoterClasses[i].String())
		}
	}
	return &Proposal{
		Wallet:     p.Wallet,
		ProposedBy: p.ProposedBy,
		ProposedAt: p.ProposedAt,
		Rejections: rejections,
		Canceled:   p.Canceled,
		Retrieved:  p.Retrieved,
		Amount:     utils.HexAmount(p.Amount),
	}
}

func convertDetail(d *runtime.ReportDetail) *Detail {
	return &Detail{
		Report: convertReport(d.Report),
		Pool: &Pool{
			TotalAccuse: utils.HexAmount(d.Pool.TotalAccuse),
			TotalDefend: utils.HexAmount(d.Pool.TotalDefend),
			Reward:      utils.HexAmount(d.Pool.Reward),
			ToTreasury:  utils.HexAmount(d.Pool.ToTreasury),
			Settled:     d.Pool.Settled,
			SettledAt:   d.Pool.SettledAt,
		},
		Stakes:     convertStakes(d.Stakes),
		Proceeding: convertProceeding(d.Proceeding),
		Proposal:   convertProposal(d.Proposal),
	}
}
