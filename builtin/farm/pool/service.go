// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/yieldchef/chef/builtin/farm/emission"
	"github.com/yieldchef/chef/builtin/fixedpoint"
	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/log"
)

var logger = log.WithContext("pkg", "pool")

var (
	slotPools = chef.BytesToBytes32([]byte("pools"))
	slotIndex = chef.BytesToBytes32([]byte("pools-asset-index"))
	slotCount = chef.BytesToBytes32([]byte("pools-count"))
)

// Minter mints reward tokens, clamped at the supply cap.
type Minter interface {
	Mint(caller, to chef.Address, amount *big.Int) (*big.Int, error)
}

// Service is the pool registry. Pools live in an arena indexed by id,
// ids are assigned in creation order and never reused.
type Service struct {
	pools    *solidity.Mapping[solidity.Uint64Key, *Pool]
	index    *solidity.Mapping[chef.Address, uint64] // asset => id + 1
	count    *solidity.Raw[uint64]
	emission *emission.Service
	minter   Minter
	vault    chef.Address
}

// New creates the registry. Rewards are minted by vault, into vault.
func New(sctx *solidity.Context, emission *emission.Service, minter Minter) *Service {
	return &Service{
		pools:    solidity.NewMapping[solidity.Uint64Key, *Pool](sctx, slotPools),
		index:    solidity.NewMapping[chef.Address, uint64](sctx, slotIndex),
		count:    solidity.NewRaw[uint64](sctx, slotCount),
		emission: emission,
		minter:   minter,
		vault:    sctx.Address(),
	}
}

// Len returns the number of pools.
func (s *Service) Len() (uint64, error) {
	return s.count.Get()
}

// Get returns the pool of id, or a PoolNotFound revert.
func (s *Service) Get(id uint64) (*Pool, error) {
	count, err := s.count.Get()
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, reverts.Newf(reverts.PoolNotFound, "pool %d not found", id)
	}
	p, err := s.pools.Get(solidity.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get pool %d", id)
	}
	p.normalize()
	return p, nil
}

// ByAsset returns the pool staking asset.
func (s *Service) ByAsset(asset chef.Address) (*Pool, bool, error) {
	n, err := s.index.Get(asset)
	if err != nil {
		return nil, false, err
	}
	if n == 0 {
		return nil, false, nil
	}
	p, err := s.Get(n - 1)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *Service) Save(p *Pool) error {
	if err := s.pools.Set(solidity.Uint64Key(p.ID), p); err != nil {
		return errors.Wrapf(err, "failed to set pool %d", p.ID)
	}
	return nil
}

// Iterate visits every pool in id order until fn fails.
func (s *Service) Iterate(fn func(*Pool) error) error {
	count, err := s.count.Get()
	if err != nil {
		return err
	}
	for id := range count {
		p, err := s.Get(id)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns copies of all pools in id order.
func (s *Service) Snapshot() ([]*Pool, error) {
	var pools []*Pool
	err := s.Iterate(func(p *Pool) error {
		pools = append(pools, p.Copy())
		return nil
	})
	return pools, err
}

func checkFee(feeBP uint16) error {
	if feeBP > chef.MaxDepositFeeBP {
		return reverts.Newf(reverts.InvalidFee, "deposit fee %d exceeds %d basis points", feeBP, chef.MaxDepositFeeBP)
	}
	return nil
}

// Add registers a pool. Accrual starts at the later of tick and the farm start.
func (s *Service) Add(asset chef.Address, weight uint64, feeBP uint16, tick uint64) (*Pool, error) {
	if err := checkFee(feeBP); err != nil {
		return nil, err
	}
	if asset.IsZero() {
		return nil, reverts.New(reverts.InvalidAmount, "pool asset is the zero address")
	}
	if _, ok, err := s.ByAsset(asset); err != nil {
		return nil, err
	} else if ok {
		return nil, reverts.Newf(reverts.DuplicateAsset, "asset %v already has a pool", asset)
	}
	st, err := s.emission.Get()
	if err != nil {
		return nil, err
	}
	id, err := s.count.Get()
	if err != nil {
		return nil, err
	}

	p := &Pool{
		ID:                id,
		Asset:             asset,
		Weight:            weight,
		LastAccrualTick:   max(tick, st.FarmStartTick),
		AccRewardPerShare: new(big.Int),
		DepositFeeBP:      feeBP,
		TotalStaked:       new(big.Int),
	}
	if err := s.emission.AddWeight(0, weight); err != nil {
		return nil, err
	}
	if err := s.Save(p); err != nil {
		return nil, err
	}
	if err := s.index.Set(asset, id+1); err != nil {
		return nil, err
	}
	if err := s.count.Set(id + 1); err != nil {
		return nil, err
	}
	logger.Debug("pool added", "id", id, "asset", asset, "weight", weight, "feeBP", feeBP)
	return p, nil
}

// Set changes weight and fee of a pool, after accruing it at tick under the old weight.
func (s *Service) Set(id uint64, weight uint64, feeBP uint16, tick uint64) (*Pool, error) {
	if err := checkFee(feeBP); err != nil {
		return nil, err
	}
	p, err := s.Accrue(id, tick)
	if err != nil {
		return nil, err
	}
	if err := s.emission.AddWeight(p.Weight, weight); err != nil {
		return nil, err
	}
	p.Weight = weight
	p.DepositFeeBP = feeBP
	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Accrue brings the pool accumulator up to tick, minting the pool's share of
// emission into the vault. Accruing twice at the same tick is a no-op.
func (s *Service) Accrue(id uint64, tick uint64) (*Pool, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if tick <= p.LastAccrualTick {
		return p, nil
	}
	st, err := s.emission.Get()
	if err != nil {
		return nil, err
	}
	if tick < st.FarmStartTick {
		return p, nil
	}
	if p.TotalStaked.Sign() > 0 {
		gross, err := s.gross(p, st, tick)
		if err != nil {
			return nil, err
		}
		if gross.Sign() > 0 {
			minted, err := s.minter.Mint(s.vault, s.vault, gross)
			if err != nil {
				return nil, err
			}
			st, err = s.emission.RecordMint(gross, minted, tick)
			if err != nil {
				return nil, err
			}
			if minted.Cmp(gross) < 0 {
				logger.Info("emission clamped at cap", "pool", id, "requested", gross, "minted", minted, "open", st.Open())
			}
			if err := s.addReward(p, minted); err != nil {
				return nil, err
			}
		}
	}
	p.LastAccrualTick = tick
	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Preview returns the pool as Accrue would leave it at tick, without minting.
// The projected reward is clamped to the remaining supply.
func (s *Service) Preview(id uint64, tick uint64) (*Pool, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if tick <= p.LastAccrualTick || p.TotalStaked.Sign() == 0 {
		return p, nil
	}
	st, err := s.emission.Get()
	if err != nil {
		return nil, err
	}
	if tick < st.FarmStartTick {
		return p, nil
	}
	gross, err := s.gross(p, st, tick)
	if err != nil {
		return nil, err
	}
	if remaining := st.Remaining(); gross.Cmp(remaining) > 0 {
		gross = remaining
	}
	if err := s.addReward(p, gross); err != nil {
		return nil, err
	}
	p.LastAccrualTick = tick
	return p, nil
}

// gross is the pool's share of emission between its last accrual and tick,
// never counting ticks past the end of emission.
func (s *Service) gross(p *Pool, st *emission.State, tick uint64) (*big.Int, error) {
	end := min(tick, st.EmissionEndTick)
	if p.LastAccrualTick >= end {
		return new(big.Int), nil
	}
	return fixedpoint.ProRata(end-p.LastAccrualTick, st.RewardPerTick, p.Weight, st.TotalWeight)
}

func (s *Service) addReward(p *Pool, reward *big.Int) error {
	if reward.Sign() == 0 {
		return nil
	}
	delta, err := fixedpoint.RewardPerShare(reward, p.TotalStaked)
	if err != nil {
		return err
	}
	acc, err := fixedpoint.Add(p.AccRewardPerShare, delta)
	if err != nil {
		return err
	}
	p.AccRewardPerShare = acc
	return nil
}
