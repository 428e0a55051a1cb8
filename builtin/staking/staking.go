// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/linkedlist"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/builtin/solidity"
	"github.com/lossless-cash/lossless-go/builtin/token"
	"github.com/lossless-cash/lossless-go/log"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

var (
	logger = log.WithContext("pkg", "staking")

	slotStakes = lss.BytesToBytes32([]byte("stakes"))
	slotPools  = lss.BytesToBytes32([]byte("pools"))
)

// Staking keeps the stake ledger of every report and pays stakers out once it closes.
type Staking struct {
	sctx       *solidity.Context
	params     *params.Params
	controller *controller.Controller
	reporting  *reporting.Reporting
	token      *token.Token

	stakes *solidity.Mapping[stakeKey, *Stake]
	pools  *solidity.Mapping[lss.Uint64Key, *Pool]
}

func New(
	addr lss.Address,
	state *state.State,
	params *params.Params,
	controller *controller.Controller,
	reporting *reporting.Reporting,
	token *token.Token,
) *Staking {
	sctx := solidity.NewContext(addr, state)
	return &Staking{
		sctx:       sctx,
		params:     params,
		controller: controller,
		reporting:  reporting,
		token:      token,
		stakes:     solidity.NewMapping[stakeKey, *Stake](sctx, slotStakes),
		pools:      solidity.NewMapping[lss.Uint64Key, *Pool](sctx, slotPools),
	}
}

// Address returns the escrow address holding stakes.
func (s *Staking) Address() lss.Address {
	return s.sctx.Address()
}

func (s *Staking) stakers(reportID uint64) *linkedlist.LinkedList {
	return linkedlist.New(s.sctx, "stakers-"+strconv.FormatUint(reportID, 10))
}

// Pool returns the stake pool of the report. A report nobody staked on has an empty pool.
func (s *Staking) Pool(reportID uint64) (*Pool, error) {
	pool, err := s.pools.Get(lss.Uint64Key(reportID))
	if err != nil {
		return nil, errors.Wrap(err, "get pool")
	}
	if pool == nil {
		return newPool(), nil
	}
	return pool, nil
}

// Stake returns the stake of staker on the report, or nil.
func (s *Staking) Stake(reportID uint64, staker lss.Address) (*Stake, error) {
	stake, err := s.stakes.Get(stakeKey{reportID, staker})
	if err != nil {
		return nil, errors.Wrap(err, "get stake")
	}
	return stake, nil
}

// Stakes returns all stakes on the report in staking order.
func (s *Staking) Stakes(reportID uint64) ([]*Stake, error) {
	var stakes []*Stake
	err := s.stakers(reportID).Iter(func(staker lss.Address) error {
		stake, err := s.Stake(reportID, staker)
		if err != nil {
			return err
		}
		stakes = append(stakes, stake)
		return nil
	})
	return stakes, err
}

// Place locks amount from staker on the given side of an open report.
// Staking again adds to the existing position, which must be on the same side.
func (s *Staking) Place(staker lss.Address, reportID uint64, amount *big.Int, side Side, now uint64) error {
	if err := s.controller.RequireNotPaused(); err != nil {
		return err
	}
	if side != SideAccuse && side != SideDefend {
		return reverts.Newf(reverts.ErrInvalidVote, "unknown stake side %d", uint8(side))
	}
	report, err := s.reporting.MustReport(reportID)
	if err != nil {
		return err
	}
	if report.Status != reporting.StatusOpen {
		return reverts.Newf(reverts.ErrReportNotOpen, "report %d is %s", reportID, report.Status)
	}
	if report.IsDue(now) {
		return reverts.Newf(reverts.ErrReportExpired, "report %d", reportID)
	}
	if staker == report.Reporter || report.IsAccused(staker) {
		return reverts.Newf(reverts.ErrUnauthorized, "%s is a party of report %d", staker, reportID)
	}

	cfg, err := s.params.Get()
	if err != nil {
		return err
	}
	if amount == nil || amount.Cmp(cfg.StakingAmount) < 0 {
		return reverts.Newf(reverts.ErrInsufficientStake, "minimum stake is %s", cfg.StakingAmount)
	}
	bal, err := s.token.Balance(staker)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.ErrInsufficientStake, "balance %s below stake %s", bal, amount)
	}

	stake, err := s.Stake(reportID, staker)
	if err != nil {
		return err
	}
	if stake == nil {
		stake = &Stake{Staker: staker, Amount: new(big.Int), Side: side, StakedAt: now, Payout: new(big.Int)}
		if err := s.stakers(reportID).Add(staker); err != nil {
			return err
		}
	} else if stake.Side != side {
		return reverts.Newf(reverts.ErrStakeSideConflict, "%s already staked on %s side", staker, stake.Side)
	}

	if err := s.token.Transfer(staker, staker, s.Address(), amount); err != nil {
		return err
	}
	stake.Amount.Add(stake.Amount, amount)
	if err := s.stakes.Set(stakeKey{reportID, staker}, stake); err != nil {
		return err
	}

	pool, err := s.Pool(reportID)
	if err != nil {
		return err
	}
	if side == SideAccuse {
		pool.TotalAccuse.Add(pool.TotalAccuse, amount)
	} else {
		pool.TotalDefend.Add(pool.TotalDefend, amount)
	}
	if err := s.pools.Set(lss.Uint64Key(reportID), pool); err != nil {
		return err
	}

	logger.Debug("stake placed", "report", reportID, "staker", staker, "amount", amount, "side", side)
	s.sctx.Emit("StakePlaced", reportID, staker, amount, side.String())
	return nil
}

// Settle pays out every stake of a closed report. It can run once per report.
func (s *Staking) Settle(reportID uint64, now uint64) error {
	report, err := s.reporting.MustReport(reportID)
	if err != nil {
		return err
	}
	if !report.Status.IsTerminal() {
		return reverts.Newf(reverts.ErrReportNotResolved, "report %d is %s", reportID, report.Status)
	}
	pool, err := s.Pool(reportID)
	if err != nil {
		return err
	}
	if pool.Settled {
		return reverts.Newf(reverts.ErrAlreadySettled, "report %d", reportID)
	}
	stakes, err := s.Stakes(reportID)
	if err != nil {
		return err
	}

	if report.Status == reporting.StatusResolvedValid {
		if err := s.reward(report, pool, stakes); err != nil {
			return err
		}
	} else {
		for _, stake := range stakes {
			stake.Payout = new(big.Int).Set(stake.Amount)
		}
	}

	for _, stake := range stakes {
		stake.Settled = true
		if err := s.stakes.Set(stakeKey{reportID, stake.Staker}, stake); err != nil {
			return err
		}
		if err := s.pay(stake.Staker, stake.Payout); err != nil {
			return err
		}
		s.sctx.Emit("StakeSettled", reportID, stake.Staker, stake.Payout, stake.Side.String())
	}

	pool.Settled = true
	pool.SettledAt = now
	if err := s.pools.Set(lss.Uint64Key(reportID), pool); err != nil {
		return err
	}
	logger.Debug("stakes settled", "report", reportID, "status", report.Status, "stakers", len(stakes), "treasury", pool.ToTreasury)
	s.sctx.Emit("PoolSettled", reportID, lss.Address{}, pool.Total(), report.Status.String())
	return nil
}

func (s *Staking) pay(to lss.Address, amount *big.Int) error {
	return s.token.Transfer(s.Address(), s.Address(), to, amount)
}

// reward gives accusers their principal plus a pro-rata share of the stakers fee and the
// forfeited defending stakes. Rounding leftovers go to the treasury.
func (s *Staking) reward(report *reporting.Report, pool *Pool, stakes []*Stake) error {
	cfg, err := s.params.Get()
	if err != nil {
		return err
	}
	pool.Reward = new(big.Int).Add(report.Payout.StakersFee, pool.TotalDefend)

	distributed := new(big.Int)
	for _, stake := range stakes {
		if stake.Side != SideAccuse {
			stake.Payout = new(big.Int)
			continue
		}
		share := new(big.Int).Mul(pool.Reward, stake.Amount)
		share.Quo(share, pool.TotalAccuse)
		distributed.Add(distributed, share)
		stake.Payout = new(big.Int).Add(stake.Amount, share)
	}

	pool.ToTreasury = new(big.Int).Sub(pool.Reward, distributed)
	return s.pay(cfg.Treasury, pool.ToTreasury)
}
