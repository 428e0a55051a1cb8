// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package controller

import (
	"math/big"
	"slices"

	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/builtin/solidity"
	"github.com/lossless-cash/lossless-go/log"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

var (
	logger = log.WithContext("pkg", "controller")

	slotStatus = lss.BytesToBytes32([]byte("status"))
	slotPaused = lss.BytesToBytes32([]byte("paused"))
)

// Exemptions lists the protocol addresses allowed to move value touching blacklisted accounts.
type Exemptions struct {
	// Escrows hold bonds and stakes; payouts out of them are never blocked.
	Escrows []lss.Address
	// Recovery initiates transfers of frozen funds to a recovery wallet.
	Recovery lss.Address
}

// Controller gates every token transfer against address statuses.
type Controller struct {
	sctx      *solidity.Context
	authority *authority.Authority
	exempt    Exemptions
	statuses  *solidity.Mapping[lss.Address, *Entry]
	paused    *solidity.Raw[bool]
}

func New(addr lss.Address, state *state.State, authority *authority.Authority, exempt Exemptions) *Controller {
	sctx := solidity.NewContext(addr, state)
	return &Controller{
		sctx:      sctx,
		authority: authority,
		exempt:    exempt,
		statuses:  solidity.NewMapping[lss.Address, *Entry](sctx, slotStatus),
		paused:    solidity.NewRaw[bool](sctx, slotPaused),
	}
}

// IsProtocol returns whether addr is one of the protocol contracts.
func (c *Controller) IsProtocol(addr lss.Address) bool {
	return addr == c.sctx.Address() || addr == c.exempt.Recovery || slices.Contains(c.exempt.Escrows, addr)
}

// Entry returns the status entry of addr.
func (c *Controller) Entry(addr lss.Address) (*Entry, error) {
	e, err := c.statuses.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "get status")
	}
	if e == nil {
		return &Entry{}, nil
	}
	return e, nil
}

func (c *Controller) setEntry(addr lss.Address, e *Entry) error {
	if e.Status == StatusNeutral {
		c.statuses.Delete(addr)
		return nil
	}
	return c.statuses.Set(addr, e)
}

// Status returns the status of addr.
func (c *Controller) Status(addr lss.Address) (Status, error) {
	e, err := c.Entry(addr)
	if err != nil {
		return 0, err
	}
	return e.Status, nil
}

// SetStatus sets the status of addr on behalf of caller.
func (c *Controller) SetStatus(caller, addr lss.Address, status Status) error {
	if err := c.authority.Authorize(caller, authority.CapSetStatus); err != nil {
		return err
	}
	if status > StatusBlacklisted {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "unknown status %d", uint8(status))
	}
	if addr.IsZero() || c.IsProtocol(addr) {
		return reverts.Newf(reverts.ErrInvalidConfiguration, "status of %s cannot be changed", addr)
	}
	if err := c.setEntry(addr, &Entry{Status: status}); err != nil {
		return err
	}
	logger.Debug("status set", "addr", addr, "status", status, "by", caller)
	c.sctx.Emit("StatusChanged", 0, addr, nil, status.String())
	return nil
}

// CheckTransfer fails with TransferBlocked when either party is blacklisted, unless
// the transfer is a protocol payout or a recovery. It does not modify state.
func (c *Controller) CheckTransfer(initiator, from, to lss.Address, _ *big.Int) error {
	if slices.Contains(c.exempt.Escrows, from) {
		return nil
	}
	if !c.exempt.Recovery.IsZero() && initiator == c.exempt.Recovery {
		return nil
	}
	for _, addr := range []lss.Address{from, to} {
		e, err := c.Entry(addr)
		if err != nil {
			return err
		}
		if e.IsBlacklisted() {
			return reverts.Newf(reverts.ErrTransferBlocked, "%s is blacklisted", addr)
		}
	}
	return nil
}

// OnReportOpened freezes addr for the duration of the report.
func (c *Controller) OnReportOpened(reportID uint64, addr lss.Address) error {
	e, err := c.Entry(addr)
	if err != nil {
		return err
	}
	if e.IsBlacklisted() {
		return nil
	}
	if err := c.setEntry(addr, &Entry{Status: StatusBlacklisted, ReportID: reportID}); err != nil {
		return err
	}
	c.sctx.Emit("StatusChanged", reportID, addr, nil, StatusBlacklisted.String())
	return nil
}

// OnReportResolved blacklists addr permanently on a malicious verdict, and releases it otherwise.
func (c *Controller) OnReportResolved(reportID uint64, addr lss.Address, verdict lss.Verdict) error {
	if verdict == lss.VerdictMalicious {
		if err := c.setEntry(addr, &Entry{Status: StatusBlacklisted, Permanent: true, ReportID: reportID}); err != nil {
			return err
		}
		c.sctx.Emit("StatusChanged", reportID, addr, nil, "blacklisted-permanent")
		return nil
	}
	return c.release(reportID, addr)
}

// OnReportExpired releases addr.
func (c *Controller) OnReportExpired(reportID uint64, addr lss.Address) error {
	return c.release(reportID, addr)
}

// release sets addr back to neutral, unless a later action took over its status.
func (c *Controller) release(reportID uint64, addr lss.Address) error {
	e, err := c.Entry(addr)
	if err != nil {
		return err
	}
	if !e.IsBlacklisted() || e.Permanent || e.ReportID != reportID {
		return nil
	}
	if err := c.setEntry(addr, &Entry{}); err != nil {
		return err
	}
	c.sctx.Emit("StatusChanged", reportID, addr, nil, StatusNeutral.String())
	return nil
}

// Paused returns whether the protocol is paused.
func (c *Controller) Paused() (bool, error) {
	return c.paused.Get()
}

// RequireNotPaused fails with Paused while the protocol is paused.
func (c *Controller) RequireNotPaused() error {
	paused, err := c.Paused()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	return nil
}

func (c *Controller) setPaused(caller lss.Address, paused bool) error {
	if err := c.authority.Authorize(caller, authority.CapPause); err != nil {
		return err
	}
	if err := c.paused.Set(paused); err != nil {
		return err
	}
	name := "Unpaused"
	if paused {
		name = "Paused"
	}
	logger.Info("pause state changed", "paused", paused, "by", caller)
	c.sctx.Emit(name, 0, caller, nil, "")
	return nil
}

// Pause suspends report, stake, vote and recovery operations.
func (c *Controller) Pause(caller lss.Address) error {
	return c.setPaused(caller, true)
}

// Unpause resumes operations.
func (c *Controller) Unpause(caller lss.Address) error {
	return c.setPaused(caller, false)
}
