// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) key(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// NewStore creates a bucket store from the source store.
// Keys written through the returned store are prefixed with the bucket name.
func (b Bucket) NewStore(src GetPutter) GetPutter {
	return &bucketStore{b, src}
}

type bucketStore struct {
	bucket Bucket
	src    GetPutter
}

func (s *bucketStore) Get(key []byte) ([]byte, error) {
	return s.src.Get(s.bucket.key(key))
}

func (s *bucketStore) Has(key []byte) (bool, error) {
	return s.src.Has(s.bucket.key(key))
}

func (s *bucketStore) IsNotFound(err error) bool {
	return s.src.IsNotFound(err)
}

func (s *bucketStore) Put(key, value []byte) error {
	return s.src.Put(s.bucket.key(key), value)
}

func (s *bucketStore) Delete(key []byte) error {
	return s.src.Delete(s.bucket.key(key))
}

func (s *bucketStore) NewBatch() Batch {
	return &bucketBatch{s.bucket, s.src.NewBatch()}
}

func (s *bucketStore) NewIterator(r Range) Iterator {
	r.From = s.bucket.key(r.From)
	if len(r.To) == 0 {
		r.To = util.BytesPrefix([]byte(s.bucket)).Limit
	} else {
		r.To = s.bucket.key(r.To)
	}
	return &bucketIterator{s.src.NewIterator(r), len(s.bucket)}
}

type bucketBatch struct {
	bucket Bucket
	batch  Batch
}

func (b *bucketBatch) Put(key, value []byte) error {
	return b.batch.Put(b.bucket.key(key), value)
}

func (b *bucketBatch) Delete(key []byte) error {
	return b.batch.Delete(b.bucket.key(key))
}

func (b *bucketBatch) Len() int {
	return b.batch.Len()
}

func (b *bucketBatch) Write() error {
	return b.batch.Write()
}

type bucketIterator struct {
	Iterator
	prefixLen int
}

// Key strips the bucket.
func (i *bucketIterator) Key() []byte {
	return i.Iterator.Key()[i.prefixLen:]
}
