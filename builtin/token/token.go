// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/builtin/solidity"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

var (
	slotBalances = lss.BytesToBytes32([]byte("balances"))
	slotSupply   = lss.BytesToBytes32([]byte("total-supply"))
	slotInfo     = lss.BytesToBytes32([]byte("token-info"))
)

// Guard vets every transfer before it moves value.
type Guard interface {
	CheckTransfer(initiator, from, to lss.Address, amount *big.Int) error
}

// Info describes the protected token.
type Info struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Token is the balance ledger of the protected token.
type Token struct {
	sctx     *solidity.Context
	guard    Guard
	balances *solidity.Mapping[lss.Address, *big.Int]
	supply   *solidity.Raw[*big.Int]
	info     *solidity.Raw[*Info]
}

func New(addr lss.Address, state *state.State, guard Guard) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		sctx:     sctx,
		guard:    guard,
		balances: solidity.NewMapping[lss.Address, *big.Int](sctx, slotBalances),
		supply:   solidity.NewRaw[*big.Int](sctx, slotSupply),
		info:     solidity.NewRaw[*Info](sctx, slotInfo),
	}
}

// Init sets the token description.
func (t *Token) Init(info *Info) error {
	return t.info.Set(info)
}

// Info returns the token description.
func (t *Token) Info() (*Info, error) {
	info, err := t.info.Get()
	if err != nil {
		return nil, err
	}
	if info == nil {
		return &Info{}, nil
	}
	return info, nil
}

// Balance returns the balance of addr.
func (t *Token) Balance(addr lss.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "get balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// TotalSupply returns the total supply.
func (t *Token) TotalSupply() (*big.Int, error) {
	supply, err := t.supply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get supply")
	}
	if supply == nil {
		return new(big.Int), nil
	}
	return supply, nil
}

func (t *Token) setBalance(addr lss.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		t.balances.Delete(addr)
		return nil
	}
	return t.balances.Set(addr, bal)
}

func (t *Token) addSupply(delta *big.Int) error {
	supply, err := t.TotalSupply()
	if err != nil {
		return err
	}
	return t.supply.Set(new(big.Int).Add(supply, delta))
}

// Mint creates amount for to. Used while building genesis.
func (t *Token) Mint(to lss.Address, amount *big.Int) error {
	bal, err := t.Balance(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, new(big.Int).Add(bal, amount)); err != nil {
		return err
	}
	if err := t.addSupply(amount); err != nil {
		return err
	}
	t.sctx.Emit("Transfer", 0, to, amount, "mint")
	return nil
}

// Burn destroys amount held by from.
func (t *Token) Burn(from lss.Address, amount *big.Int) error {
	bal, err := t.Balance(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.ErrInsufficientBalance, "%s holds %s, burning %s", from, bal, amount)
	}
	if err := t.setBalance(from, new(big.Int).Sub(bal, amount)); err != nil {
		return err
	}
	if err := t.addSupply(new(big.Int).Neg(amount)); err != nil {
		return err
	}
	t.sctx.Emit("Transfer", 0, from, amount, "burn")
	return nil
}

// Transfer moves amount from one account to another, after the guard approves it.
// initiator is the party driving the transfer; protocol contracts initiate their own payouts.
func (t *Token) Transfer(initiator, from, to lss.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.Newf(reverts.ErrInsufficientBalance, "negative amount %s", amount)
	}
	if t.guard != nil {
		if err := t.guard.CheckTransfer(initiator, from, to, amount); err != nil {
			return err
		}
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}

	fromBal, err := t.Balance(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.ErrInsufficientBalance, "%s holds %s, sending %s", from, fromBal, amount)
	}
	toBal, err := t.Balance(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	if err := t.setBalance(to, new(big.Int).Add(toBal, amount)); err != nil {
		return err
	}
	t.sctx.Emit("Transfer", 0, to, amount, from.String())
	return nil
}
