// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/yieldchef/chef/cache"
	"github.com/yieldchef/chef/kv"
)

// Stater is the state creator.
type Stater struct {
	store kv.Store
	cache *cache.LRU
}

// NewStater create a new stater over the store.
// Committed values are cached when cacheSize > 0.
func NewStater(store kv.Store, cacheSize int) *Stater {
	s := &Stater{store: store}
	if cacheSize > 0 {
		s.cache, _ = cache.NewLRU(cacheSize)
	}
	return s
}

// NewState create a new state object on top of the committed store.
func (s *Stater) NewState() *State {
	return New(s.store, s.cache)
}
