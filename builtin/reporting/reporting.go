// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reporting

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/builtin/solidity"
	"github.com/lossless-cash/lossless-go/builtin/token"
	"github.com/lossless-cash/lossless-go/log"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

var (
	logger = log.WithContext("pkg", "reporting")

	slotReports = lss.BytesToBytes32([]byte("reports"))
	slotCounter = lss.BytesToBytes32([]byte("reports-counter"))
	slotOpen    = lss.BytesToBytes32([]byte("open-reports"))
)

// Payees are the protocol escrows receiving parts of a forfeited bond.
type Payees struct {
	Staking    lss.Address
	Governance lss.Address
}

type transfer struct {
	to     lss.Address
	amount *big.Int
}

// ExpiryHook is called after a report expired, within the same call.
type ExpiryHook func(report *Report, now uint64) error

// Reporting opens and closes fraud reports and settles their bonds.
type Reporting struct {
	sctx       *solidity.Context
	params     *params.Params
	controller *controller.Controller
	token      *token.Token
	payees     Payees
	onExpire   []ExpiryHook

	reports *solidity.Mapping[lss.Uint64Key, *Report]
	counter *solidity.Counter
	open    *solidity.Mapping[lss.Address, uint64] // reported address => open report id
}

func New(
	addr lss.Address,
	state *state.State,
	params *params.Params,
	controller *controller.Controller,
	token *token.Token,
	payees Payees,
) *Reporting {
	sctx := solidity.NewContext(addr, state)
	return &Reporting{
		sctx:       sctx,
		params:     params,
		controller: controller,
		token:      token,
		payees:     payees,
		reports:    solidity.NewMapping[lss.Uint64Key, *Report](sctx, slotReports),
		counter:    solidity.NewCounter(sctx, slotCounter),
		open:       solidity.NewMapping[lss.Address, uint64](sctx, slotOpen),
	}
}

// OnExpire registers a hook run whenever a report expires.
func (r *Reporting) OnExpire(hook ExpiryHook) {
	r.onExpire = append(r.onExpire, hook)
}

// Address returns the escrow address holding bonds.
func (r *Reporting) Address() lss.Address {
	return r.sctx.Address()
}

// Report returns the report, or nil if it does not exist.
func (r *Reporting) Report(id uint64) (*Report, error) {
	report, err := r.reports.Get(lss.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "get report")
	}
	return report, nil
}

// MustReport returns the report, failing with ReportNotFound if it does not exist.
func (r *Reporting) MustReport(id uint64) (*Report, error) {
	report, err := r.Report(id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, reverts.Newf(reverts.ErrReportNotFound, "report %d", id)
	}
	return report, nil
}

// Count returns the number of reports ever opened.
func (r *Reporting) Count() (uint64, error) {
	return r.counter.Current()
}

// OpenReportOf returns the id of the open report against addr, zero if none.
func (r *Reporting) OpenReportOf(addr lss.Address) (uint64, error) {
	return r.open.Get(addr)
}

func (r *Reporting) setReport(report *Report) error {
	if err := r.reports.Set(lss.Uint64Key(report.ID), report); err != nil {
		return errors.Wrap(err, "set report")
	}
	return nil
}

// checkReportable validates addr as a report target.
func (r *Reporting) checkReportable(reporter, addr lss.Address, now uint64) error {
	if addr.IsZero() {
		return reverts.Newf(reverts.ErrInvalidReport, "zero address")
	}
	if addr == reporter {
		return reverts.Newf(reverts.ErrInvalidReport, "cannot report yourself")
	}
	if r.controller.IsProtocol(addr) {
		return reverts.Newf(reverts.ErrInvalidReport, "cannot report protocol address %s", addr)
	}
	entry, err := r.controller.Entry(addr)
	if err != nil {
		return err
	}
	if entry.Status == controller.StatusWhitelisted {
		return reverts.Newf(reverts.ErrInvalidReport, "%s is whitelisted", addr)
	}
	if entry.Permanent {
		return reverts.Newf(reverts.ErrInvalidReport, "%s is already blacklisted", addr)
	}

	openID, err := r.open.Get(addr)
	if err != nil {
		return errors.Wrap(err, "get open report")
	}
	if openID == 0 {
		return nil
	}
	existing, err := r.MustReport(openID)
	if err != nil {
		return err
	}
	if !existing.IsDue(now) {
		return reverts.Newf(reverts.ErrDuplicateReport, "%s has open report %d", addr, openID)
	}
	// the stale report is expired before a new one can be opened
	return r.expire(existing, now)
}

// Open creates a report against reported, escrowing the reporter's bond.
func (r *Reporting) Open(reporter, reported lss.Address, now uint64) (uint64, error) {
	if err := r.controller.RequireNotPaused(); err != nil {
		return 0, err
	}
	if err := r.checkReportable(reporter, reported, now); err != nil {
		return 0, err
	}

	cfg, err := r.params.Get()
	if err != nil {
		return 0, err
	}
	bal, err := r.token.Balance(reporter)
	if err != nil {
		return 0, err
	}
	if bal.Cmp(cfg.ReportingAmount) < 0 {
		return 0, reverts.Newf(reverts.ErrInsufficientBond, "bond is %s, balance %s", cfg.ReportingAmount, bal)
	}
	if err := r.token.Transfer(reporter, reporter, r.Address(), cfg.ReportingAmount); err != nil {
		return 0, err
	}

	id, err := r.counter.Next()
	if err != nil {
		return 0, err
	}
	report := &Report{
		ID:        id,
		Reporter:  reporter,
		Reported:  reported,
		CreatedAt: now,
		Deadline:  now + cfg.ReportLifetime,
		Bond:      new(big.Int).Set(cfg.ReportingAmount),
		Status:    StatusOpen,
		Payout:    emptyPayout(),
	}
	if err := r.setReport(report); err != nil {
		return 0, err
	}
	if err := r.open.Set(reported, id); err != nil {
		return 0, err
	}
	if err := r.controller.OnReportOpened(id, reported); err != nil {
		return 0, err
	}

	logger.Debug("report opened", "id", id, "reporter", reporter, "reported", reported, "deadline", report.Deadline)
	r.sctx.Emit("ReportOpened", id, reported, report.Bond, reporter.String())
	return id, nil
}

// SecondReport extends an open report to a second address. Only the reporter may do so, once.
func (r *Reporting) SecondReport(caller lss.Address, id uint64, second lss.Address, now uint64) error {
	if err := r.controller.RequireNotPaused(); err != nil {
		return err
	}
	report, err := r.MustReport(id)
	if err != nil {
		return err
	}
	if report.Status != StatusOpen {
		return reverts.Newf(reverts.ErrReportNotOpen, "report %d is %s", id, report.Status)
	}
	if report.IsDue(now) {
		return reverts.Newf(reverts.ErrReportExpired, "report %d", id)
	}
	if caller != report.Reporter {
		return reverts.Newf(reverts.ErrUnauthorized, "only the reporter can extend report %d", id)
	}
	if !report.SecondReported.IsZero() {
		return reverts.Newf(reverts.ErrInvalidReport, "report %d already has a second address", id)
	}
	if second == report.Reported {
		return reverts.Newf(reverts.ErrInvalidReport, "%s is already reported", second)
	}
	if err := r.checkReportable(report.Reporter, second, now); err != nil {
		return err
	}

	report.SecondReported = second
	if err := r.setReport(report); err != nil {
		return err
	}
	if err := r.open.Set(second, id); err != nil {
		return err
	}
	if err := r.controller.OnReportOpened(id, second); err != nil {
		return err
	}
	r.sctx.Emit("SecondReportOpened", id, second, nil, caller.String())
	return nil
}

func (r *Reporting) pay(to lss.Address, amount *big.Int) error {
	return r.token.Transfer(r.Address(), r.Address(), to, amount)
}

func (r *Reporting) close(report *Report, status Status, verdict lss.Verdict, now uint64) error {
	report.Status = status
	report.Verdict = verdict
	report.ClosedAt = now
	for _, addr := range report.Accused() {
		r.open.Delete(addr)
	}
	return r.setReport(report)
}

// expire closes an overdue report, returning the bond to the reporter.
func (r *Reporting) expire(report *Report, now uint64) error {
	if err := r.pay(report.Reporter, report.Bond); err != nil {
		return err
	}
	report.Payout.Returned = new(big.Int).Set(report.Bond)
	if err := r.close(report, StatusExpired, lss.VerdictNone, now); err != nil {
		return err
	}
	for _, addr := range report.Accused() {
		if err := r.controller.OnReportExpired(report.ID, addr); err != nil {
			return err
		}
	}
	logger.Debug("report expired", "id", report.ID, "deadline", report.Deadline, "now", now)
	r.sctx.Emit("ReportExpired", report.ID, report.Reporter, report.Bond, "")
	for _, hook := range r.onExpire {
		if err := hook(report, now); err != nil {
			return err
		}
	}
	return nil
}

// ExpireIfDue expires the report if it is open past its deadline.
func (r *Reporting) ExpireIfDue(id uint64, now uint64) (bool, error) {
	report, err := r.Report(id)
	if err != nil || report == nil || !report.IsDue(now) {
		return false, err
	}
	if err := r.expire(report, now); err != nil {
		return false, err
	}
	return true, nil
}

// Resolve closes an open report with the voted verdict and distributes the bond.
// Resolving past the deadline expires the report instead and returns ReportExpired.
func (r *Reporting) Resolve(id uint64, verdict lss.Verdict, now uint64) (*Report, error) {
	if !verdict.IsValid() {
		return nil, reverts.Newf(reverts.ErrInvalidVote, "verdict %s", verdict)
	}
	report, err := r.MustReport(id)
	if err != nil {
		return nil, err
	}
	if report.Status != StatusOpen {
		return nil, reverts.Newf(reverts.ErrReportNotOpen, "report %d is %s", id, report.Status)
	}
	if report.IsDue(now) {
		if err := r.expire(report, now); err != nil {
			return nil, err
		}
		return report, reverts.Newf(reverts.ErrReportExpired, "report %d deadline %d passed", id, report.Deadline)
	}

	if verdict == lss.VerdictMalicious {
		err = r.forfeit(report)
	} else {
		err = r.acquit(report)
	}
	if err != nil {
		return nil, err
	}

	status := StatusResolvedValid
	if verdict == lss.VerdictInnocent {
		status = StatusResolvedInvalid
	}
	if err := r.close(report, status, verdict, now); err != nil {
		return nil, err
	}
	for _, addr := range report.Accused() {
		if err := r.controller.OnReportResolved(id, addr, verdict); err != nil {
			return nil, err
		}
	}

	logger.Debug("report resolved", "id", id, "verdict", verdict)
	r.sctx.Emit("ReportResolved", id, report.Reported, report.Bond, verdict.String())
	return report, nil
}

// forfeit splits the bond of a valid report.
func (r *Reporting) forfeit(report *Report) error {
	cfg, err := r.params.Get()
	if err != nil {
		return err
	}
	p := &report.Payout
	p.ReporterReward = params.Percent(report.Bond, cfg.ReporterReward)
	p.ProtocolFee = params.Percent(report.Bond, cfg.LosslessFee)
	p.StakersFee = params.Percent(report.Bond, cfg.StakersFee)
	p.CommitteeReward = params.Percent(report.Bond, cfg.CommitteeReward)
	p.Remainder = new(big.Int).Sub(report.Bond, p.Total())

	transfers := []transfer{
		{report.Reporter, p.ReporterReward},
		{cfg.Treasury, p.ProtocolFee},
		{r.payees.Staking, p.StakersFee},
		{r.payees.Governance, p.CommitteeReward},
	}
	switch cfg.RemainderPolicy {
	case params.RemainderBurn:
		if p.Remainder.Sign() > 0 {
			if err := r.token.Burn(r.Address(), p.Remainder); err != nil {
				return err
			}
		}
	case params.RemainderReporter:
		transfers = append(transfers, transfer{report.Reporter, p.Remainder})
	default:
		transfers = append(transfers, transfer{cfg.Treasury, p.Remainder})
	}
	for _, t := range transfers {
		if err := r.pay(t.to, t.amount); err != nil {
			return err
		}
	}
	return nil
}

// acquit returns the whole bond to the reported address.
func (r *Reporting) acquit(report *Report) error {
	if err := r.pay(report.Reported, report.Bond); err != nil {
		return err
	}
	report.Payout.Returned = new(big.Int).Set(report.Bond)
	return nil
}

// Config returns the current protocol configuration.
func (r *Reporting) Config() (*params.Config, error) {
	return r.params.Get()
}

func (r *Reporting) SetReportLifetime(caller lss.Address, lifetime uint64, now uint64) error {
	return r.params.SetReportLifetime(caller, lifetime, now)
}

func (r *Reporting) SetReportingAmount(caller lss.Address, amount *big.Int, now uint64) error {
	return r.params.SetReportingAmount(caller, amount, now)
}

func (r *Reporting) SetStakingAmount(caller lss.Address, amount *big.Int, now uint64) error {
	return r.params.SetStakingAmount(caller, amount, now)
}

func (r *Reporting) SetFees(caller lss.Address, fees params.Fees, now uint64) error {
	return r.params.SetFees(caller, fees, now)
}
