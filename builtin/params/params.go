// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/solidity"
	"github.com/lossless-cash/lossless-go/log"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

var (
	logger = log.WithContext("pkg", "params")

	slotCurrent = lss.BytesToBytes32([]byte("config"))
	slotHistory = lss.BytesToBytes32([]byte("config-history"))
)

// Params binder of `Params` contract. Every accepted change creates a new config version.
type Params struct {
	sctx      *solidity.Context
	authority *authority.Authority
	current   *solidity.Raw[*Config]
	history   *solidity.Mapping[lss.Uint64Key, *Config]
}

func New(addr lss.Address, state *state.State, authority *authority.Authority) *Params {
	sctx := solidity.NewContext(addr, state)
	return &Params{
		sctx:      sctx,
		authority: authority,
		current:   solidity.NewRaw[*Config](sctx, slotCurrent),
		history:   solidity.NewMapping[lss.Uint64Key, *Config](sctx, slotHistory),
	}
}

// Get returns the current config.
func (p *Params) Get() (*Config, error) {
	cfg, err := p.current.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get config")
	}
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	return cfg, nil
}

// History returns the config as of the given version.
func (p *Params) History(version uint64) (*Config, error) {
	cfg, err := p.history.Get(lss.Uint64Key(version))
	if err != nil {
		return nil, errors.Wrap(err, "get config history")
	}
	return cfg, nil
}

// Init stores the first config version. Used while building genesis.
func (p *Params) Init(cfg *Config, now uint64) error {
	cfg = cfg.Copy()
	cfg.Version = 1
	cfg.UpdatedAt = now
	cfg.UpdatedBy = lss.Address{}
	cfg.Field = "genesis"
	return p.store(cfg)
}

func (p *Params) store(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := p.current.Set(cfg); err != nil {
		return errors.Wrap(err, "set config")
	}
	if err := p.history.Set(lss.Uint64Key(cfg.Version), cfg); err != nil {
		return errors.Wrap(err, "set config history")
	}
	return nil
}

func (p *Params) update(caller lss.Address, field string, now uint64, apply func(cfg *Config)) error {
	if err := p.authority.Authorize(caller, authority.CapConfigure); err != nil {
		return err
	}
	cur, err := p.Get()
	if err != nil {
		return err
	}
	next := cur.Copy()
	apply(next)
	next.Version = cur.Version + 1
	next.UpdatedBy = caller
	next.UpdatedAt = now
	next.Field = field
	if err := p.store(next); err != nil {
		return err
	}

	logger.Debug("config updated", "field", field, "version", next.Version, "by", caller)
	p.sctx.Emit("ConfigUpdated", 0, caller, nil, field)
	return nil
}

func (p *Params) SetReportLifetime(caller lss.Address, lifetime uint64, now uint64) error {
	return p.update(caller, "reportLifetime", now, func(cfg *Config) {
		cfg.ReportLifetime = lifetime
	})
}

func (p *Params) SetReportingAmount(caller lss.Address, amount *big.Int, now uint64) error {
	return p.update(caller, "reportingAmount", now, func(cfg *Config) {
		cfg.ReportingAmount = copyInt(amount)
	})
}

func (p *Params) SetStakingAmount(caller lss.Address, amount *big.Int, now uint64) error {
	return p.update(caller, "stakingAmount", now, func(cfg *Config) {
		cfg.StakingAmount = copyInt(amount)
	})
}

func (p *Params) SetFees(caller lss.Address, fees Fees, now uint64) error {
	return p.update(caller, "fees", now, func(cfg *Config) {
		cfg.Fees = fees
	})
}

func (p *Params) SetTreasury(caller lss.Address, treasury lss.Address, now uint64) error {
	return p.update(caller, "treasury", now, func(cfg *Config) {
		cfg.Treasury = treasury
	})
}

func (p *Params) SetWalletDisputePeriod(caller lss.Address, period uint64, now uint64) error {
	return p.update(caller, "walletDisputePeriod", now, func(cfg *Config) {
		cfg.WalletDisputePeriod = period
	})
}

func (p *Params) SetRemainderPolicy(caller lss.Address, policy RemainderPolicy, now uint64) error {
	return p.update(caller, "remainderPolicy", now, func(cfg *Config) {
		cfg.RemainderPolicy = policy
	})
}
