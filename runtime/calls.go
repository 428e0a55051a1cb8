// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/lossless-cash/lossless-go/builtin"
	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/builtin/staking"
	"github.com/lossless-cash/lossless-go/lss"
)

// Report opens a report against reported and returns its id.
func (rt *Runtime) Report(reporter, reported lss.Address) (id uint64, err error) {
	err = rt.exec("report", 0, func(c *builtin.Contracts, now uint64) error {
		id, err = c.Reporting.Open(reporter, reported, now)
		return err
	})
	return
}

// SecondReport extends an open report to a second address.
func (rt *Runtime) SecondReport(caller lss.Address, id uint64, second lss.Address) error {
	return rt.exec("second-report", id, func(c *builtin.Contracts, now uint64) error {
		return c.Reporting.SecondReport(caller, id, second, now)
	})
}

// Expire closes a report past its deadline.
func (rt *Runtime) Expire(id uint64) error {
	return rt.exec("expire", 0, func(c *builtin.Contracts, now uint64) error {
		report, err := c.Reporting.MustReport(id)
		if err != nil {
			return err
		}
		if report.Status != reporting.StatusOpen {
			return reverts.Newf(reverts.ErrReportNotOpen, "report %d is %s", id, report.Status)
		}
		if !report.IsDue(now) {
			return reverts.Newf(reverts.ErrInvalidReport, "report %d deadline %d not reached", id, report.Deadline)
		}
		_, err = c.Reporting.ExpireIfDue(id, now)
		return err
	})
}

// Stake places amount on one side of an open report.
func (rt *Runtime) Stake(staker lss.Address, id uint64, amount *big.Int, side staking.Side) error {
	return rt.exec("stake", id, func(c *builtin.Contracts, now uint64) error {
		return c.Staking.Place(staker, id, amount, side, now)
	})
}

// Settle distributes the stake pool of a closed report.
func (rt *Runtime) Settle(id uint64) error {
	return rt.exec("settle", id, func(c *builtin.Contracts, now uint64) error {
		return c.Staking.Settle(id, now)
	})
}

// Vote casts the verdict of a voter class on an open report.
func (rt *Runtime) Vote(voter lss.Address, id uint64, class lss.VoterClass, verdict lss.Verdict) error {
	return rt.exec("vote", id, func(c *builtin.Contracts, now uint64) error {
		return c.Governance.CastVote(voter, id, class, verdict, now)
	})
}

func (rt *Runtime) ProposeWallet(caller lss.Address, id uint64, wallet lss.Address) error {
	return rt.exec("propose-wallet", 0, func(c *builtin.Contracts, now uint64) error {
		return c.Governance.ProposeWallet(caller, id, wallet, now)
	})
}

func (rt *Runtime) RejectWallet(caller lss.Address, id uint64, class lss.VoterClass) error {
	return rt.exec("reject-wallet", 0, func(c *builtin.Contracts, now uint64) error {
		return c.Governance.RejectWallet(caller, id, class, now)
	})
}

// RetrieveFunds moves the funds of the accused addresses to the approved wallet.
func (rt *Runtime) RetrieveFunds(caller lss.Address, id uint64) (amount *big.Int, err error) {
	err = rt.exec("retrieve-funds", 0, func(c *builtin.Contracts, now uint64) error {
		amount, err = c.Governance.RetrieveFunds(caller, id, now)
		return err
	})
	return
}

// Transfer moves tokens between two accounts, subject to the transfer guard.
// Overdue reports against either account are expired first.
func (rt *Runtime) Transfer(from, to lss.Address, amount *big.Int) error {
	return rt.execFor("transfer", 0, []lss.Address{from, to}, func(c *builtin.Contracts, _ uint64) error {
		return c.Token.Transfer(from, from, to, amount)
	})
}

func (rt *Runtime) SetStatus(caller, addr lss.Address, status controller.Status) error {
	return rt.exec("set-status", 0, func(c *builtin.Contracts, _ uint64) error {
		return c.Controller.SetStatus(caller, addr, status)
	})
}

func (rt *Runtime) Pause(caller lss.Address) error {
	return rt.exec("pause", 0, func(c *builtin.Contracts, _ uint64) error {
		return c.Controller.Pause(caller)
	})
}

func (rt *Runtime) Unpause(caller lss.Address) error {
	return rt.exec("unpause", 0, func(c *builtin.Contracts, _ uint64) error {
		return c.Controller.Unpause(caller)
	})
}

func (rt *Runtime) Grant(caller lss.Address, role authority.Role, addr lss.Address) error {
	return rt.exec("grant", 0, func(c *builtin.Contracts, _ uint64) error {
		return c.Authority.Grant(caller, role, addr)
	})
}

func (rt *Runtime) Revoke(caller lss.Address, role authority.Role, addr lss.Address) error {
	return rt.exec("revoke", 0, func(c *builtin.Contracts, _ uint64) error {
		return c.Authority.Revoke(caller, role, addr)
	})
}

func (rt *Runtime) AddCommitteeMembers(caller lss.Address, members []lss.Address) error {
	return rt.exec("add-committee", 0, func(c *builtin.Contracts, _ uint64) error {
		return c.Governance.AddCommitteeMembers(caller, members)
	})
}

func (rt *Runtime) RemoveCommitteeMembers(caller lss.Address, members []lss.Address) error {
	return rt.exec("remove-committee", 0, func(c *builtin.Contracts, _ uint64) error {
		return c.Governance.RemoveCommitteeMembers(caller, members)
	})
}

// UpdateConfig changes the protocol parameters. Each setter checks the caller and
// validates the resulting configuration; a failing setter reverts the whole update.
func (rt *Runtime) UpdateConfig(caller lss.Address, update ConfigUpdate) error {
	return rt.exec("update-config", 0, func(c *builtin.Contracts, now uint64) error {
		return update.apply(c.Params, caller, now)
	})
}

// ConfigUpdate names the parameters to change; nil fields are left untouched.
type ConfigUpdate struct {
	ReportLifetime      *uint64
	ReportingAmount     *big.Int
	StakingAmount       *big.Int
	Fees                *params.Fees
	Treasury            *lss.Address
	WalletDisputePeriod *uint64
	RemainderPolicy     *params.RemainderPolicy
}

// IsEmpty returns whether the update changes nothing.
func (u *ConfigUpdate) IsEmpty() bool {
	return u.ReportLifetime == nil && u.ReportingAmount == nil && u.StakingAmount == nil &&
		u.Fees == nil && u.Treasury == nil && u.WalletDisputePeriod == nil && u.RemainderPolicy == nil
}

func (u *ConfigUpdate) apply(p *params.Params, caller lss.Address, now uint64) error {
	if u.IsEmpty() {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "empty update")
	}
	if u.Fees != nil {
		if err := p.SetFees(caller, *u.Fees, now); err != nil {
			return err
		}
	}
	if u.ReportLifetime != nil {
		if err := p.SetReportLifetime(caller, *u.ReportLifetime, now); err != nil {
			return err
		}
	}
	if u.ReportingAmount != nil {
		if err := p.SetReportingAmount(caller, u.ReportingAmount, now); err != nil {
			return err
		}
	}
	if u.StakingAmount != nil {
		if err := p.SetStakingAmount(caller, u.StakingAmount, now); err != nil {
			return err
		}
	}
	if u.Treasury != nil {
		if err := p.SetTreasury(caller, *u.Treasury, now); err != nil {
			return err
		}
	}
	if u.WalletDisputePeriod != nil {
		if err := p.SetWalletDisputePeriod(caller, *u.WalletDisputePeriod, now); err != nil {
			return err
		}
	}
	if u.RemainderPolicy != nil {
		if err := p.SetRemainderPolicy(caller, *u.RemainderPolicy, now); err != nil {
			return err
		}
	}
	return nil
}
