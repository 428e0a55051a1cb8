// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/lss"
)

// AddressVar parses the address path variable name.
func AddressVar(req *http.Request, name string) (lss.Address, error) {
	addr, err := lss.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return lss.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// Uint64Var parses the uint64 path variable name.
func Uint64Var(req *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// Amount returns the value of a required amount field.
func Amount(v *math.HexOrDecimal256, name string) (*big.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.Errorf("%s: missing", name))
	}
	amount := (*big.Int)(v)
	if amount.Sign() < 0 {
		return nil, BadRequest(errors.Errorf("%s: negative", name))
	}
	return amount, nil
}

// Address returns the value of a required address field.
func Address(v *lss.Address, name string) (lss.Address, error) {
	if v == nil || v.IsZero() {
		return lss.Address{}, BadRequest(errors.Errorf("%s: missing", name))
	}
	return *v, nil
}

// HexAmount converts v for JSON output, nil as zero.
func HexAmount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}
