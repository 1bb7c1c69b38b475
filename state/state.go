// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/yieldchef/chef/cache"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/kv"
	"github.com/yieldchef/chef/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the underlying error, for github.com/pkg/errors.
func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr chef.Address
	key  chef.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, chef.AddressLength+32)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages the storage of builtins.
type State struct {
	store kv.Store
	cache *cache.LRU // committed values, may be nil
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object.
func New(store kv.Store, committed *cache.LRU) *State {
	s := &State{
		store: store,
		cache: committed,
	}
	s.sm = stackedmap.New(s.load)
	return s
}

// load implements stackedmap.MapGetter over the committed store.
func (s *State) load(key storageKey) (rlp.RawValue, bool, error) {
	if s.cache == nil {
		raw, err := s.read(key)
		return raw, true, err
	}
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		return s.read(key)
	})
	if err != nil {
		return nil, false, err
	}
	return v.(rlp.RawValue), true, nil
}

func (s *State) read(key storageKey) (rlp.RawValue, error) {
	metricStorageCounter().AddWithLabel(1, map[string]string{"type": "read"})
	data, err := s.store.Get(key.bytes())
	if err != nil {
		if s.store.IsNotFound(err) {
			return rlp.RawValue(nil), nil
		}
		return nil, err
	}
	return data, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
// An empty value means the slot was never written or was cleared.
func (s *State) GetRawStorage(addr chef.Address, key chef.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr chef.Address, key chef.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr chef.Address, key chef.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr chef.Address, key chef.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the net changes since the state was created.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	var order []storageKey
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})
	return &Stage{
		store:   s.store,
		cache:   s.cache,
		order:   order,
		changes: changes,
	}
}
