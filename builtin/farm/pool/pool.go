// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/yieldchef/chef/chef"
)

// Pool is the reward accounting of one stakeable asset.
type Pool struct {
	ID                uint64
	Asset             chef.Address
	Weight            uint64
	LastAccrualTick   uint64
	AccRewardPerShare *big.Int // scaled by chef.RewardScale, never decreases
	DepositFeeBP      uint16
	TotalStaked       *big.Int // sum of position amounts
}

// Copy returns a deep copy.
func (p *Pool) Copy() *Pool {
	cpy := *p
	cpy.AccRewardPerShare = new(big.Int).Set(p.AccRewardPerShare)
	cpy.TotalStaked = new(big.Int).Set(p.TotalStaked)
	return &cpy
}

func (p *Pool) normalize() {
	if p.AccRewardPerShare == nil {
		p.AccRewardPerShare = new(big.Int)
	}
	if p.TotalStaked == nil {
		p.TotalStaked = new(big.Int)
	}
}
