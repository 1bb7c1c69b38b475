// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farm implements the farm engine: staking, reward settlement and the
// admin operations on pools and emission.
//
// Every mutation starts by accruing the pools it touches at the operation
// tick. The caller runs each operation inside one state checkpoint and
// discards it when an error is returned.
package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/yieldchef/chef/builtin/admin"
	"github.com/yieldchef/chef/builtin/farm/emission"
	"github.com/yieldchef/chef/builtin/farm/pool"
	"github.com/yieldchef/chef/builtin/farm/position"
	"github.com/yieldchef/chef/builtin/fixedpoint"
	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/builtin/token"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/custody"
	"github.com/yieldchef/chef/log"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

var logger = log.WithContext("pkg", "farm")

var slotConfig = chef.BytesToBytes32([]byte("config"))

// Config holds the fixed parameters of the farm.
type Config struct {
	FeeSink chef.Address
}

// Farm implements the farm engine. Its address is the reward vault, the
// custody vault and the mint authority of the reward token.
type Farm struct {
	sctx    *solidity.Context
	config  *solidity.Raw[*Config]
	reward  *token.Token
	custody custody.Custody
	gate    admin.Gate

	emissionService *emission.Service
	poolService     *pool.Service
	positionService *position.Service
}

// New create a new instance.
func New(addr chef.Address, state *state.State, journal *tx.Journal, reward *token.Token, custody custody.Custody, gate admin.Gate) *Farm {
	sctx := solidity.NewContext(addr, state, journal)
	emissionService := emission.New(sctx)
	return &Farm{
		sctx:    sctx,
		config:  solidity.NewRaw[*Config](sctx, slotConfig),
		reward:  reward,
		custody: custody,
		gate:    gate,

		emissionService: emissionService,
		poolService:     pool.New(sctx, emissionService, reward),
		positionService: position.New(sctx),
	}
}

// Address returns the farm principal.
func (f *Farm) Address() chef.Address {
	return f.sctx.Address()
}

// Initialize sets up emission against the reward token supply, once at genesis.
// It must run after the reward token premint.
func (f *Farm) Initialize(rewardPerTick *big.Int, farmStartTick uint64, feeSink chef.Address) error {
	authority, err := f.reward.MintAuthority()
	if err != nil {
		return err
	}
	if authority != f.Address() {
		return errors.Errorf("reward mint authority is %v, want %v", authority, f.Address())
	}
	maxSupply, err := f.reward.MaxSupply()
	if err != nil {
		return err
	}
	preminted, err := f.reward.Preminted()
	if err != nil {
		return err
	}
	if err := f.emissionService.Initialize(rewardPerTick, farmStartTick, maxSupply, preminted); err != nil {
		return err
	}
	return f.config.Set(&Config{FeeSink: feeSink})
}

//
// Getters - no state change
//

func (f *Farm) Config() (*Config, error) {
	return f.config.Get()
}

// Emission returns the emission state.
func (f *Farm) Emission() (*emission.State, error) {
	return f.emissionService.Get()
}

// Pool returns a pool as last accrued.
func (f *Farm) Pool(id uint64) (*pool.Pool, error) {
	return f.poolService.Get(id)
}

// PoolByAsset looks a pool up by its staked asset.
func (f *Farm) PoolByAsset(asset chef.Address) (*pool.Pool, bool, error) {
	return f.poolService.ByAsset(asset)
}

// PoolLength returns the number of pools.
func (f *Farm) PoolLength() (uint64, error) {
	return f.poolService.Len()
}

// Pools returns every pool in id order.
func (f *Farm) Pools() ([]*pool.Pool, error) {
	return f.poolService.Snapshot()
}

// Position returns the stake of user in a pool.
func (f *Farm) Position(poolID uint64, user chef.Address) (*position.Position, error) {
	if _, err := f.poolService.Get(poolID); err != nil {
		return nil, err
	}
	return f.positionService.Get(poolID, user)
}

// PendingRewards returns what user would be paid by a claim at tick,
// including rewards owed from deferred settlements. Nothing is minted.
func (f *Farm) PendingRewards(poolID uint64, user chef.Address, tick uint64) (*big.Int, error) {
	p, err := f.poolService.Preview(poolID, tick)
	if err != nil {
		return nil, err
	}
	pos, err := f.positionService.Get(poolID, user)
	if err != nil {
		return nil, err
	}
	pending, err := fixedpoint.Pending(pos.Amount, p.AccRewardPerShare, pos.RewardDebt)
	if err != nil {
		return nil, err
	}
	return pending.Add(pending, pos.Owed), nil
}
