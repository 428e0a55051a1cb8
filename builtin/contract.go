// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/lossless-cash/lossless-go/lss"
)

type contract struct {
	Name    string
	Address lss.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		lss.BytesToAddress([]byte(name)),
	}
}
