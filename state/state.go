// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/lossless-cash/lossless-go/kv"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/stackedmap"
)

const (
	storageBucket = kv.Bucket("s")
	cacheSize     = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr lss.Address
	key  lss.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(append(make([]byte, 0, lss.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages the storage of all protocol contracts.
// Writes are journaled in a stacked map, so they can be reverted to any checkpoint
// until Commit flushes them into the underlying kv store.
type State struct {
	db     kv.GetPutter
	cache  *lru.Cache // committed raw values
	sm     *stackedmap.StackedMap
	events []*lss.Event
	marks  map[int]int // checkpoint revision => events length
}

// New create state object.
func New(db kv.GetPutter) *State {
	cache, _ := lru.New(cacheSize)
	s := &State{
		db:    storageBucket.NewStore(db),
		cache: cache,
		marks: make(map[int]int),
	}
	s.sm = stackedmap.New(s.committedGetter)
	return s
}

// committedGetter implements stackedmap.MapGetter.
func (s *State) committedGetter(key any) (any, bool, error) {
	k := key.(storageKey)
	if v, ok := s.cache.Get(k); ok {
		return v.(rlp.RawValue), true, nil
	}
	data, err := s.db.Get(k.bytes())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, err
		}
		data = nil
	}
	s.cache.Add(k, rlp.RawValue(data))
	return rlp.RawValue(data), true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr lss.Address, key lss.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw. An empty value clears the slot.
func (s *State) SetRawStorage(addr lss.Address, key lss.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr lss.Address, key lss.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr lss.Address, key lss.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// AddEvent appends an event to the pending list. Pending events are reverted together with storage.
func (s *State) AddEvent(ev *lss.Event) {
	s.events = append(s.events, ev)
}

// Events returns the pending events.
func (s *State) Events() []*lss.Event {
	return s.events
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	rev := s.sm.Push()
	s.marks[rev] = len(s.events)
	return rev
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if n, ok := s.marks[revision]; ok {
		s.events = s.events[:n]
	}
	for rev := range s.marks {
		if rev >= revision {
			delete(s.marks, rev)
		}
	}
}

// Commit writes all journaled changes into the kv store in one batch,
// and returns the events emitted since the last commit.
func (s *State) Commit() ([]*lss.Event, error) {
	changes := make(map[storageKey]rlp.RawValue)
	var order []storageKey
	for _, entry := range s.sm.Journal() {
		k := entry.Key.(storageKey)
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = entry.Value.(rlp.RawValue)
	}

	batch := s.db.NewBatch()
	for _, k := range order {
		var err error
		if raw := changes[k]; len(raw) == 0 {
			err = batch.Delete(k.bytes())
		} else {
			err = batch.Put(k.bytes(), raw)
		}
		if err != nil {
			return nil, &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return nil, &Error{err}
	}
	for _, k := range order {
		s.cache.Add(k, changes[k])
	}

	events := s.events
	s.events = nil
	s.marks = make(map[int]int)
	s.sm = stackedmap.New(s.committedGetter)
	return events, nil
}

// Discard drops all uncommitted changes and events.
func (s *State) Discard() {
	s.events = nil
	s.marks = make(map[int]int)
	s.sm = stackedmap.New(s.committedGetter)
}
