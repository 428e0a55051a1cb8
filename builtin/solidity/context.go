// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

// Context binds a protocol contract address to the state it reads and writes.
type Context struct {
	address lss.Address
	state   *state.State
}

func NewContext(address lss.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() lss.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Emit records an event on behalf of the contract. The timestamp is stamped at commit.
func (c *Context) Emit(name string, reportID uint64, account lss.Address, amount *big.Int, detail string) {
	var amt *big.Int
	if amount != nil {
		amt = new(big.Int).Set(amount)
	}
	c.state.AddEvent(&lss.Event{
		Contract: c.address,
		Name:     name,
		ReportID: reportID,
		Account:  account,
		Amount:   amt,
		Detail:   detail,
	})
}
