// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/lss"
)

// Counter is a monotonic uint64 sequence kept in one slot. The first value handed out is 1.
type Counter struct {
	raw *Raw[uint64]
}

func NewCounter(context *Context, pos lss.Bytes32) *Counter {
	return &Counter{raw: NewRaw[uint64](context, pos)}
}

func (c *Counter) Current() (uint64, error) {
	return c.raw.Get()
}

func (c *Counter) Next() (uint64, error) {
	id, err := c.raw.Get()
	if err != nil {
		return 0, err
	}
	if id == math.MaxUint64 {
		return 0, errors.New("counter overflow")
	}
	id++
	if err := c.raw.Set(id); err != nil {
		return 0, err
	}
	return id, nil
}
