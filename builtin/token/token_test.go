// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/lvldb"
	"github.com/lossless-cash/lossless-go/state"
	"github.com/lossless-cash/lossless-go/test/datagen"
)

type blockGuard struct {
	blocked lss.Address
}

func (g *blockGuard) CheckTransfer(_, from, to lss.Address, _ *big.Int) error {
	if from == g.blocked || to == g.blocked {
		return reverts.ErrTransferBlocked
	}
	return nil
}

func newToken(t *testing.T, guard Guard) *Token {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(lss.BytesToAddress([]byte("Token")), state.New(db), guard)
}

func TestTransfer(t *testing.T) {
	blocked := datagen.RandAddress()
	tok := newToken(t, &blockGuard{blocked})
	a, b := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, tok.Mint(a, big.NewInt(100)))
	require.NoError(t, tok.Transfer(a, a, b, big.NewInt(40)))

	balA, err := tok.Balance(a)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), balA)
	balB, err := tok.Balance(b)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(40), balB)

	err = tok.Transfer(a, a, b, big.NewInt(61))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientBalance))

	err = tok.Transfer(a, a, blocked, big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrTransferBlocked))

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), supply)
}

func TestBurn(t *testing.T) {
	tok := newToken(t, nil)
	a := datagen.RandAddress()
	require.NoError(t, tok.Mint(a, big.NewInt(10)))
	require.NoError(t, tok.Burn(a, big.NewInt(10)))

	bal, err := tok.Balance(a)
	require.NoError(t, err)
	assert.Zero(t, bal.Sign())

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Zero(t, supply.Sign())

	err = tok.Burn(a, big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientBalance))
}

func TestInfo(t *testing.T) {
	tok := newToken(t, nil)
	info, err := tok.Info()
	require.NoError(t, err)
	assert.Empty(t, info.Symbol)

	require.NoError(t, tok.Init(&Info{Name: "Lossless Token", Symbol: "LSS", Decimals: 18}))
	info, err = tok.Info()
	require.NoError(t, err)
	assert.Equal(t, "LSS", info.Symbol)
}
