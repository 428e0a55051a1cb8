// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp uint64
	procs     []func(c *builtin.Contracts) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process.
func (b *Builder) State(proc func(c *builtin.Contracts) error) *Builder {
	b.procs = append(b.procs, proc)
	return b
}

// Build runs every state process against st and commits the result.
func (b *Builder) Build(st *state.State) ([]*lss.Event, error) {
	contracts := builtin.Bind(st)
	for _, proc := range b.procs {
		if err := proc(contracts); err != nil {
			st.Discard()
			return nil, errors.Wrap(err, "state process")
		}
	}
	events, err := st.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	for _, ev := range events {
		ev.Timestamp = b.timestamp
	}
	return events, nil
}
