// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"github.com/lossless-cash/lossless-go/builtin/solidity"
	"github.com/lossless-cash/lossless-go/lss"
)

// LinkedList is a persistent doubly linked list of addresses, kept in insertion order.
type LinkedList struct {
	head  *solidity.Raw[lss.Address]
	tail  *solidity.Raw[lss.Address]
	count *solidity.Raw[uint64]
	next  *solidity.Mapping[lss.Address, lss.Address]
	prev  *solidity.Mapping[lss.Address, lss.Address]
}

// New creates a list whose storage is derived from the given name.
func New(sctx *solidity.Context, name string) *LinkedList {
	headPos := lss.Blake2b([]byte(name), []byte("head"))
	tailPos := lss.Blake2b([]byte(name), []byte("tail"))
	return &LinkedList{
		head:  solidity.NewRaw[lss.Address](sctx, headPos),
		tail:  solidity.NewRaw[lss.Address](sctx, tailPos),
		count: solidity.NewRaw[uint64](sctx, lss.Blake2b([]byte(name), []byte("count"))),
		next:  solidity.NewMapping[lss.Address, lss.Address](sctx, headPos),
		prev:  solidity.NewMapping[lss.Address, lss.Address](sctx, tailPos),
	}
}

// Add appends an address to the end of the list. Adding an address already listed is a no-op.
func (l *LinkedList) Add(address lss.Address) error {
	if address.IsZero() {
		return nil
	}
	if ok, err := l.Contains(address); err != nil || ok {
		return err
	}

	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if oldTail.IsZero() {
		// the list is currently empty, set this entry to head & tail
		if err := l.head.Set(address); err != nil {
			return err
		}
	} else {
		if err := l.next.Set(oldTail, address); err != nil {
			return err
		}
		if err := l.prev.Set(address, oldTail); err != nil {
			return err
		}
	}

	if err := l.tail.Set(address); err != nil {
		return err
	}
	return l.addCount(1)
}

// Remove extracts an address from anywhere in the list, reconnecting adjacent nodes.
func (l *LinkedList) Remove(address lss.Address) error {
	if ok, err := l.Contains(address); err != nil || !ok {
		return err
	}

	prev, err := l.prev.Get(address)
	if err != nil {
		return err
	}
	next, err := l.next.Get(address)
	if err != nil {
		return err
	}

	if !prev.IsZero() {
		if err := l.next.Set(prev, next); err != nil {
			return err
		}
	} else if err := l.head.Set(next); err != nil {
		return err
	}

	if !next.IsZero() {
		if err := l.prev.Set(next, prev); err != nil {
			return err
		}
	} else if err := l.tail.Set(prev); err != nil {
		return err
	}

	l.next.Delete(address)
	l.prev.Delete(address)

	return l.addCount(-1)
}

// Contains reports whether the address is listed.
func (l *LinkedList) Contains(address lss.Address) (bool, error) {
	if address.IsZero() {
		return false, nil
	}
	prev, err := l.prev.Get(address)
	if err != nil {
		return false, err
	}
	if !prev.IsZero() {
		return true, nil
	}
	head, err := l.head.Get()
	if err != nil {
		return false, err
	}
	return head == address, nil
}

// Len returns the number of listed addresses.
func (l *LinkedList) Len() (uint64, error) {
	return l.count.Get()
}

// Iter traverses the list in insertion order, calling callback for each address until completion or error.
func (l *LinkedList) Iter(callback func(lss.Address) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}
	for !ptr.IsZero() {
		if err := callback(ptr); err != nil {
			return err
		}
		if ptr, err = l.next.Get(ptr); err != nil {
			return err
		}
	}
	return nil
}

// All returns every listed address in insertion order.
func (l *LinkedList) All() ([]lss.Address, error) {
	var all []lss.Address
	err := l.Iter(func(addr lss.Address) error {
		all = append(all, addr)
		return nil
	})
	return all, err
}

func (l *LinkedList) addCount(delta int64) error {
	n, err := l.count.Get()
	if err != nil {
		return err
	}
	return l.count.Set(uint64(int64(n) + delta))
}
