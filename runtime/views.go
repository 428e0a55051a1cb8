// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin"
	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/governance"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/staking"
	"github.com/lossless-cash/lossless-go/builtin/token"
	"github.com/lossless-cash/lossless-go/logdb"
	"github.com/lossless-cash/lossless-go/lss"
)

// Account is the protocol view of one address.
type Account struct {
	Address    lss.Address
	Balance    *big.Int
	Entry      *controller.Entry
	OpenReport uint64
	Protocol   bool
}

// ReportDetail gathers everything recorded about a report.
type ReportDetail struct {
	Report     *reporting.Report
	Pool       *staking.Pool
	Stakes     []*staking.Stake
	Proceeding *governance.Proceeding
	Proposal   *governance.Proposal
}

// TokenInfo describes the protected token and its supply.
type TokenInfo struct {
	token.Info
	TotalSupply *big.Int
	Paused      bool
}

func (rt *Runtime) Account(addr lss.Address) (*Account, error) {
	return view(rt, func(c *builtin.Contracts, _ uint64) (*Account, error) {
		bal, err := c.Token.Balance(addr)
		if err != nil {
			return nil, err
		}
		entry, err := c.Controller.Entry(addr)
		if err != nil {
			return nil, err
		}
		open, err := c.Reporting.OpenReportOf(addr)
		if err != nil {
			return nil, err
		}
		return &Account{
			Address:    addr,
			Balance:    bal,
			Entry:      entry,
			OpenReport: open,
			Protocol:   c.Controller.IsProtocol(addr),
		}, nil
	})
}

// GetReport returns the report with its stakes, votes and wallet proposal.
// It fails with ReportNotFound if the report does not exist.
func (rt *Runtime) GetReport(id uint64) (*ReportDetail, error) {
	return view(rt, func(c *builtin.Contracts, _ uint64) (*ReportDetail, error) {
		return reportDetail(c, id)
	})
}

func reportDetail(c *builtin.Contracts, id uint64) (*ReportDetail, error) {
	report, err := c.Reporting.MustReport(id)
	if err != nil {
		return nil, err
	}
	pool, err := c.Staking.Pool(id)
	if err != nil {
		return nil, err
	}
	stakes, err := c.Staking.Stakes(id)
	if err != nil {
		return nil, err
	}
	proceeding, err := c.Governance.Proceeding(id)
	if err != nil {
		return nil, err
	}
	proposal, err := c.Governance.Proposal(id)
	if err != nil {
		return nil, err
	}
	return &ReportDetail{
		Report:     report,
		Pool:       pool,
		Stakes:     stakes,
		Proceeding: proceeding,
		Proposal:   proposal,
	}, nil
}

// ReportCount returns the number of reports ever opened.
func (rt *Runtime) ReportCount() (uint64, error) {
	return view(rt, func(c *builtin.Contracts, _ uint64) (uint64, error) {
		return c.Reporting.Count()
	})
}

// Config returns the current configuration, or the given version if it is not zero.
func (rt *Runtime) Config(version uint64) (*params.Config, error) {
	return view(rt, func(c *builtin.Contracts, _ uint64) (*params.Config, error) {
		if version == 0 {
			return c.Params.Get()
		}
		return c.Params.History(version)
	})
}

func (rt *Runtime) Members(role authority.Role) ([]lss.Address, error) {
	return view(rt, func(c *builtin.Contracts, _ uint64) ([]lss.Address, error) {
		return c.Authority.Members(role)
	})
}

func (rt *Runtime) Token() (*TokenInfo, error) {
	return view(rt, func(c *builtin.Contracts, _ uint64) (*TokenInfo, error) {
		info, err := c.Token.Info()
		if err != nil {
			return nil, err
		}
		supply, err := c.Token.TotalSupply()
		if err != nil {
			return nil, err
		}
		paused, err := c.Controller.Paused()
		if err != nil {
			return nil, err
		}
		return &TokenInfo{Info: *info, TotalSupply: supply, Paused: paused}, nil
	})
}

// CheckTransfer reports whether a transfer would pass the transfer guard, without moving funds.
func (rt *Runtime) CheckTransfer(from, to lss.Address, amount *big.Int) error {
	_, err := view(rt, func(c *builtin.Contracts, _ uint64) (struct{}, error) {
		return struct{}{}, c.Controller.CheckTransfer(from, from, to, amount)
	})
	return err
}

// Events queries the event log.
func (rt *Runtime) Events(ctx context.Context, filter *logdb.EventFilter) ([]*logdb.Event, error) {
	if rt.logDB == nil {
		return nil, errors.New("event log disabled")
	}
	return rt.logDB.FilterEvents(ctx, filter)
}

// Violation is a broken accounting invariant found by Verify.
type Violation struct {
	ReportID uint64
	Reason   string
}

func (v *Violation) String() string {
	if v.ReportID == 0 {
		return v.Reason
	}
	return fmt.Sprintf("report %d: %s", v.ReportID, v.Reason)
}

// Verify walks every report and checks that escrowed balances match the open
// positions and that every closed report accounted for its whole bond.
// progress, if not nil, is called after each report.
func (rt *Runtime) Verify(progress func(done, total uint64)) ([]*Violation, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	c := rt.contracts

	count, err := c.Reporting.Count()
	if err != nil {
		return nil, err
	}

	var (
		violations []*Violation
		bonds      = new(big.Int)
		staked     = new(big.Int)
	)
	report := func(id uint64, format string, args ...any) {
		violations = append(violations, &Violation{ReportID: id, Reason: fmt.Sprintf(format, args...)})
	}

	for id := uint64(1); id <= count; id++ {
		d, err := reportDetail(c, id)
		if err != nil {
			return nil, err
		}
		r := d.Report
		if r.Status == reporting.StatusOpen {
			bonds.Add(bonds, r.Bond)
			for _, addr := range r.Accused() {
				entry, err := c.Controller.Entry(addr)
				if err != nil {
					return nil, err
				}
				// an address blacklisted by an admin keeps its entry when reported
				if !entry.IsBlacklisted() || (entry.ReportID != id && entry.ReportID != 0) {
					report(id, "accused %v is %s by report %d", addr, entry.Status, entry.ReportID)
				}
				open, err := c.Reporting.OpenReportOf(addr)
				if err != nil {
					return nil, err
				}
				if open != id {
					report(id, "accused %v open report is %d", addr, open)
				}
			}
		} else if r.Status.IsTerminal() {
			if total := r.Payout.Total(); total.Cmp(r.Bond) != 0 {
				report(id, "payout %s differs from bond %s", total, r.Bond)
			}
			if !d.Pool.Settled {
				report(id, "stake pool not settled")
			}
		}

		if !d.Pool.Settled {
			staked.Add(staked, d.Pool.Total())
		}
		accuse, defend := new(big.Int), new(big.Int)
		for _, s := range d.Stakes {
			if s.Side == staking.SideAccuse {
				accuse.Add(accuse, s.Amount)
			} else {
				defend.Add(defend, s.Amount)
			}
		}
		if accuse.Cmp(d.Pool.TotalAccuse) != 0 || defend.Cmp(d.Pool.TotalDefend) != 0 {
			report(id, "stakes %s/%s differ from pool totals %s/%s", accuse, defend, d.Pool.TotalAccuse, d.Pool.TotalDefend)
		}

		if progress != nil {
			progress(id, count)
		}
	}

	escrows := []struct {
		addr lss.Address
		want *big.Int
	}{
		{c.Reporting.Address(), bonds},
		{c.Staking.Address(), staked},
		{c.Governance.Address(), new(big.Int)},
	}
	for _, e := range escrows {
		bal, err := c.Token.Balance(e.addr)
		if err != nil {
			return nil, err
		}
		if bal.Cmp(e.want) != 0 {
			report(0, "escrow %v holds %s, expected %s", e.addr, bal, e.want)
		}
	}
	return violations, nil
}
