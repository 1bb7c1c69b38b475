// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/yieldchef/chef/builtin/farm/pool"
	"github.com/yieldchef/chef/chef"
)

// AddPool registers a pool for asset. With withUpdate every existing pool is
// accrued first, so the new total weight only applies from tick on.
func (f *Farm) AddPool(caller chef.Address, asset chef.Address, weight uint64, feeBP uint16, withUpdate bool, tick uint64) (*pool.Pool, error) {
	if err := f.gate.Require(caller); err != nil {
		return nil, err
	}
	if withUpdate {
		if err := f.massUpdate(tick); err != nil {
			return nil, err
		}
	}
	p, err := f.poolService.Add(asset, weight, feeBP, tick)
	if err != nil {
		return nil, err
	}
	if err := f.bump(); err != nil {
		return nil, err
	}
	logger.Info("pool added", "id", p.ID, "asset", asset, "weight", weight, "feeBP", feeBP)
	if err := f.sctx.Emit(poolTopics(PoolAddedEvent, p.ID), &PoolData{Asset: asset, Weight: weight, FeeBP: feeBP}); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPool changes the weight and the deposit fee of a pool. The pool is
// always accrued under its old weight first.
func (f *Farm) SetPool(caller chef.Address, poolID uint64, weight uint64, feeBP uint16, withUpdate bool, tick uint64) (*pool.Pool, error) {
	if err := f.gate.Require(caller); err != nil {
		return nil, err
	}
	if withUpdate {
		if err := f.massUpdate(tick); err != nil {
			return nil, err
		}
	}
	p, err := f.poolService.Set(poolID, weight, feeBP, tick)
	if err != nil {
		return nil, err
	}
	if err := f.bump(); err != nil {
		return nil, err
	}
	logger.Info("pool updated", "id", poolID, "weight", weight, "feeBP", feeBP)
	if err := f.sctx.Emit(poolTopics(PoolUpdatedEvent, poolID), &PoolData{Asset: p.Asset, Weight: weight, FeeBP: feeBP}); err != nil {
		return nil, err
	}
	return p, nil
}

// SetEmissionRate accrues every pool under the old rate, then replaces it.
func (f *Farm) SetEmissionRate(caller chef.Address, rate *big.Int, tick uint64) error {
	if err := f.gate.Require(caller); err != nil {
		return err
	}
	if err := f.massUpdate(tick); err != nil {
		return err
	}
	prev, err := f.emissionService.SetRate(rate)
	if err != nil {
		return err
	}
	if err := f.bump(); err != nil {
		return err
	}
	logger.Info("emission rate changed", "previous", prev, "next", rate)
	return f.sctx.Emit([]chef.Bytes32{EmissionRateChangedEvent}, &RateData{Previous: prev, Next: rate})
}

// MassUpdatePools accrues every pool at tick.
func (f *Farm) MassUpdatePools(caller chef.Address, tick uint64) error {
	if err := f.gate.Require(caller); err != nil {
		return err
	}
	return f.massUpdate(tick)
}

func (f *Farm) massUpdate(tick uint64) error {
	count, err := f.poolService.Len()
	if err != nil {
		return err
	}
	for id := range count {
		if _, err := f.poolService.Accrue(id, tick); err != nil {
			return err
		}
	}
	return nil
}

func (f *Farm) bump() error {
	version, err := f.emissionService.Bump()
	if err != nil {
		return err
	}
	logger.Debug("emission config version", "version", version)
	return nil
}
