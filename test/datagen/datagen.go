// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"

	"github.com/lossless-cash/lossless-go/lss"
)

func RandAddress() (addr lss.Address) {
	rand.Read(addr[:])
	return
}

func RandAddresses(n int) []lss.Address {
	addrs := make([]lss.Address, n)
	for i := range addrs {
		addrs[i] = RandAddress()
	}
	return addrs
}

func RandBytes32() (b lss.Bytes32) {
	rand.Read(b[:])
	return
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandAmount returns an amount in [base, base+span).
func RandAmount(base, span int64) *big.Int {
	return big.NewInt(base + mathrand.Int64N(span)) //#nosec G404
}
