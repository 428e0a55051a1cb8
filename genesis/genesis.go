// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lossless-cash/lossless-go/builtin"
	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/builtin/token"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

// Genesis is the initial protocol state: token, configuration, role holders and balances.
type Genesis struct {
	LaunchTime uint64    `yaml:"launchTime" json:"launchTime"`
	Token      Token     `yaml:"token" json:"token"`
	Params     Params    `yaml:"params" json:"params"`
	Authority  Authority `yaml:"authority" json:"authority"`
	Accounts   []Account `yaml:"accounts" json:"accounts"`
	// Whitelist addresses that can never be reported, e.g. exchange hot wallets.
	Whitelist []lss.Address `yaml:"whitelist,omitempty" json:"whitelist,omitempty"`
}

// Token describes the protected token.
type Token struct {
	Name     string `yaml:"name" json:"name"`
	Symbol   string `yaml:"symbol" json:"symbol"`
	Decimals uint8  `yaml:"decimals" json:"decimals"`
}

// Params overrides the default configuration. Unset fields keep their defaults.
type Params struct {
	ReporterReward      *uint64          `yaml:"reporterReward,omitempty" json:"reporterReward,omitempty"`
	LosslessFee         *uint64          `yaml:"losslessFee,omitempty" json:"losslessFee,omitempty"`
	StakersFee          *uint64          `yaml:"stakersFee,omitempty" json:"stakersFee,omitempty"`
	CommitteeReward     *uint64          `yaml:"committeeReward,omitempty" json:"committeeReward,omitempty"`
	StakingAmount       *HexOrDecimal256 `yaml:"stakingAmount,omitempty" json:"stakingAmount,omitempty"`
	ReportingAmount     *HexOrDecimal256 `yaml:"reportingAmount,omitempty" json:"reportingAmount,omitempty"`
	ReportLifetime      *uint64          `yaml:"reportLifetime,omitempty" json:"reportLifetime,omitempty"`
	WalletDisputePeriod *uint64          `yaml:"walletDisputePeriod,omitempty" json:"walletDisputePeriod,omitempty"`
	RemainderPolicy     string           `yaml:"remainderPolicy,omitempty" json:"remainderPolicy,omitempty"`
	Treasury            lss.Address      `yaml:"treasury" json:"treasury"`
}

// Authority lists the initial holders of every role.
type Authority struct {
	Admins         []lss.Address `yaml:"admins" json:"admins"`
	PauseAdmins    []lss.Address `yaml:"pauseAdmins,omitempty" json:"pauseAdmins,omitempty"`
	RecoveryAdmins []lss.Address `yaml:"recoveryAdmins,omitempty" json:"recoveryAdmins,omitempty"`
	BackupAdmins   []lss.Address `yaml:"backupAdmins,omitempty" json:"backupAdmins,omitempty"`
	TokenOwners    []lss.Address `yaml:"tokenOwners,omitempty" json:"tokenOwners,omitempty"`
	Committee      []lss.Address `yaml:"committee,omitempty" json:"committee,omitempty"`
}

// Account is an initial token balance.
type Account struct {
	Address lss.Address      `yaml:"address" json:"address"`
	Balance *HexOrDecimal256 `yaml:"balance" json:"balance"`
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 wraps v.
func NewHexOrDecimal256(v *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(v))
}

// Int returns the value as big.Int.
func (i *HexOrDecimal256) Int() *big.Int {
	if i == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(i))
}

func (i *HexOrDecimal256) parse(s string) error {
	bigint, ok := math.ParseBig256(s)
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", s)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var str string
	if err := json.Unmarshal(input, &str); err != nil {
		return (*big.Int)(i).UnmarshalJSON(input)
	}
	return i.parse(str)
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	return json.Marshal((*big.Int)(&i).String())
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalYAML(node *yaml.Node) error {
	return i.parse(node.Value)
}

// MarshalYAML implements the yaml.Marshaler interface.
func (i HexOrDecimal256) MarshalYAML() (any, error) {
	return (*big.Int)(&i).String(), nil
}

// Load reads a yaml genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes a yaml genesis. Json is accepted as well, being a subset of yaml.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Config returns the protocol configuration the genesis starts with.
func (g *Genesis) Config() (*params.Config, error) {
	cfg := params.DefaultConfig(g.Params.Treasury)
	p := g.Params
	if p.ReporterReward != nil {
		cfg.ReporterReward = *p.ReporterReward
	}
	if p.LosslessFee != nil {
		cfg.LosslessFee = *p.LosslessFee
	}
	if p.StakersFee != nil {
		cfg.StakersFee = *p.StakersFee
	}
	if p.CommitteeReward != nil {
		cfg.CommitteeReward = *p.CommitteeReward
	}
	if p.StakingAmount != nil {
		cfg.StakingAmount = p.StakingAmount.Int()
	}
	if p.ReportingAmount != nil {
		cfg.ReportingAmount = p.ReportingAmount.Int()
	}
	if p.ReportLifetime != nil {
		cfg.ReportLifetime = *p.ReportLifetime
	}
	if p.WalletDisputePeriod != nil {
		cfg.WalletDisputePeriod = *p.WalletDisputePeriod
	}
	if p.RemainderPolicy != "" {
		policy, err := params.ParseRemainderPolicy(p.RemainderPolicy)
		if err != nil {
			return nil, err
		}
		cfg.RemainderPolicy = policy
	}
	return cfg, nil
}

// Validate checks the genesis without building it.
func (g *Genesis) Validate() error {
	cfg, err := g.Config()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "params")
	}
	if len(g.Authority.Admins) == 0 {
		return errors.New("authority: at least one admin required")
	}
	for _, a := range g.Accounts {
		if a.Balance == nil || (*big.Int)(a.Balance).Sign() < 1 {
			return fmt.Errorf("%s: balance must be a positive integer", a.Address)
		}
		if builtin.IsProtocol(a.Address) {
			return fmt.Errorf("%s: cannot allocate to a protocol address", a.Address)
		}
	}
	return nil
}

// ID identifies the genesis. A database built from one genesis refuses to open with another.
func (g *Genesis) ID() (lss.Bytes32, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return lss.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	return lss.Blake2b(data), nil
}

type roleMembers struct {
	role    authority.Role
	members []lss.Address
}

func (g *Genesis) roles() []roleMembers {
	return []roleMembers{
		{authority.RoleAdmin, g.Authority.Admins},
		{authority.RolePauseAdmin, g.Authority.PauseAdmins},
		{authority.RoleRecoveryAdmin, g.Authority.RecoveryAdmins},
		{authority.RoleBackupAdmin, g.Authority.BackupAdmins},
		{authority.RoleTokenOwner, g.Authority.TokenOwners},
		{authority.RoleCommittee, g.Authority.Committee},
	}
}

// Builder returns the builder producing the genesis state.
func (g *Genesis) Builder() (*Builder, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	cfg, err := g.Config()
	if err != nil {
		return nil, err
	}
	return new(Builder).
		Timestamp(g.LaunchTime).
		State(func(c *builtin.Contracts) error {
			for _, rm := range g.roles() {
				for _, m := range rm.members {
					if err := c.Authority.Add(rm.role, m); err != nil {
						return err
					}
				}
			}
			return c.Params.Init(cfg, g.LaunchTime)
		}).
		State(func(c *builtin.Contracts) error {
			if err := c.Token.Init(&token.Info{
				Name:     g.Token.Name,
				Symbol:   g.Token.Symbol,
				Decimals: g.Token.Decimals,
			}); err != nil {
				return err
			}
			for _, a := range g.Accounts {
				if err := c.Token.Mint(a.Address, a.Balance.Int()); err != nil {
					return errors.Wrapf(err, "mint %s", a.Address)
				}
			}
			return nil
		}).
		State(func(c *builtin.Contracts) error {
			admin := g.Authority.Admins[0]
			for _, addr := range g.Whitelist {
				if err := c.Controller.SetStatus(admin, addr, controller.StatusWhitelisted); err != nil {
					return errors.Wrapf(err, "whitelist %s", addr)
				}
			}
			return nil
		}), nil
}

// Build applies the genesis to an empty state.
func (g *Genesis) Build(st *state.State) ([]*lss.Event, error) {
	b, err := g.Builder()
	if err != nil {
		return nil, err
	}
	return b.Build(st)
}
