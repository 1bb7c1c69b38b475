// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/yieldchef/chef/cache"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/kv"
)

// Stage abstracts the changes of a state which are ready to be committed.
type Stage struct {
	store   kv.Store
	cache   *cache.LRU
	order   []storageKey
	changes map[storageKey]rlp.RawValue
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.order)
}

// Hash returns the checksum of the changes, in write order.
func (s *Stage) Hash() chef.Bytes32 {
	return chef.Blake2bFn(func(w io.Writer) {
		for _, k := range s.order {
			w.Write(k.bytes())
			w.Write(s.changes[k])
		}
	})
}

// Commit writes all changes into the store in one atomic batch.
func (s *Stage) Commit() error {
	if len(s.order) == 0 {
		return nil
	}
	bulk := s.store.Bulk()
	for _, k := range s.order {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.bytes())
		} else {
			err = bulk.Put(k.bytes(), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	metricStorageCounter().AddWithLabel(int64(len(s.order)), map[string]string{"type": "write"})

	if s.cache != nil {
		for _, k := range s.order {
			s.cache.Add(k, s.changes[k])
		}
		if changed, _, _ := s.cache.Stats().Stats(); changed {
			metricCacheHitRate().Set(int64(s.cache.Stats().HitRate() * 1000))
		}
	}
	return nil
}
