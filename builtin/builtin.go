// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/builtin/governance"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/staking"
	"github.com/lossless-cash/lossless-go/builtin/token"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

// Builtin contracts binding.
var (
	Authority  = &authorityContract{newContract("Authority")}
	Params     = &paramsContract{newContract("Params")}
	Controller = &controllerContract{newContract("Controller")}
	Token      = &tokenContract{newContract("Token")}
	Reporting  = &reportingContract{newContract("Reporting")}
	Staking    = &stakingContract{newContract("Staking")}
	Governance = &governanceContract{newContract("Governance")}
)

type (
	authorityContract  struct{ *contract }
	paramsContract     struct{ *contract }
	controllerContract struct{ *contract }
	tokenContract      struct{ *contract }
	reportingContract  struct{ *contract }
	stakingContract    struct{ *contract }
	governanceContract struct{ *contract }
)

// All returns every builtin contract.
func All() []*contract {
	return []*contract{
		Authority.contract,
		Params.contract,
		Controller.contract,
		Token.contract,
		Reporting.contract,
		Staking.contract,
		Governance.contract,
	}
}

// IsProtocol returns whether addr belongs to a builtin contract.
func IsProtocol(addr lss.Address) bool {
	for _, c := range All() {
		if c.Address == addr {
			return true
		}
	}
	return false
}

func exemptions() controller.Exemptions {
	return controller.Exemptions{
		Escrows:  []lss.Address{Reporting.Address, Staking.Address, Governance.Address},
		Recovery: Governance.Address,
	}
}

func (a *authorityContract) WithState(state *state.State) *authority.Authority {
	return authority.New(a.Address, state)
}

func (p *paramsContract) WithState(state *state.State) *params.Params {
	return params.New(p.Address, state, Authority.WithState(state))
}

func (c *controllerContract) WithState(state *state.State) *controller.Controller {
	return controller.New(c.Address, state, Authority.WithState(state), exemptions())
}

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state, Controller.WithState(state))
}

// Contracts is the full set of protocol contracts bound to one state.
type Contracts struct {
	Authority  *authority.Authority
	Params     *params.Params
	Controller *controller.Controller
	Token      *token.Token
	Reporting  *reporting.Reporting
	Staking    *staking.Staking
	Governance *governance.Governance
}

// Bind wires every protocol contract to the state. Expired reports settle their stakes.
func Bind(state *state.State) *Contracts {
	c := &Contracts{
		Authority: Authority.WithState(state),
	}
	c.Params = params.New(Params.Address, state, c.Authority)
	c.Controller = controller.New(Controller.Address, state, c.Authority, exemptions())
	c.Token = token.New(Token.Address, state, c.Controller)
	c.Reporting = reporting.New(Reporting.Address, state, c.Params, c.Controller, c.Token, reporting.Payees{
		Staking:    Staking.Address,
		Governance: Governance.Address,
	})
	c.Staking = staking.New(Staking.Address, state, c.Params, c.Controller, c.Reporting, c.Token)
	c.Governance = governance.New(
		Governance.Address,
		state,
		c.Authority,
		c.Params,
		c.Controller,
		c.Reporting,
		c.Staking,
		c.Token,
	)
	c.Reporting.OnExpire(func(report *reporting.Report, now uint64) error {
		return c.Staking.Settle(report.ID, now)
	})
	return c
}
