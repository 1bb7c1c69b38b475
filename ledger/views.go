// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/builtin/farm/emission"
	"github.com/yieldchef/chef/builtin/farm/pool"
	"github.com/yieldchef/chef/builtin/farm/position"
	"github.com/yieldchef/chef/chef"
)

// PendingRewards returns what the user would receive by harvesting the pool now.
func (l *Ledger) PendingRewards(poolID uint64, user chef.Address) (pending *big.Int, err error) {
	err = l.View(func(n *builtin.Natives, tick uint64) error {
		pending, err = n.Farm.PendingRewards(poolID, user, tick)
		return err
	})
	return
}

// Pools returns all pools in id order.
func (l *Ledger) Pools() (pools []*pool.Pool, err error) {
	err = l.View(func(n *builtin.Natives, _ uint64) error {
		pools, err = n.Farm.Pools()
		return err
	})
	return
}

// Pool returns a pool by id.
func (l *Ledger) Pool(poolID uint64) (p *pool.Pool, err error) {
	err = l.View(func(n *builtin.Natives, _ uint64) error {
		p, err = n.Farm.Pool(poolID)
		return err
	})
	return
}

// Position returns the stake of user in a pool.
func (l *Ledger) Position(poolID uint64, user chef.Address) (pos *position.Position, err error) {
	err = l.View(func(n *builtin.Natives, _ uint64) error {
		pos, err = n.Farm.Position(poolID, user)
		return err
	})
	return
}

// Emission returns the global emission state.
func (l *Ledger) Emission() (st *emission.State, err error) {
	err = l.View(func(n *builtin.Natives, _ uint64) error {
		st, err = n.Farm.Emission()
		return err
	})
	return
}

// RewardBalance returns the reward token balance of addr.
func (l *Ledger) RewardBalance(addr chef.Address) (bal *big.Int, err error) {
	err = l.View(func(n *builtin.Natives, _ uint64) error {
		bal, err = n.Reward.BalanceOf(addr)
		return err
	})
	return
}
