// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/builtin/farm"
	"github.com/yieldchef/chef/builtin/farm/emission"
	"github.com/yieldchef/chef/builtin/farm/pool"
	"github.com/yieldchef/chef/builtin/farm/position"
	"github.com/yieldchef/chef/chef"
)

type Pool struct {
	ID                uint64                `json:"id"`
	Asset             chef.Address          `json:"asset"`
	Weight            uint64                `json:"weight"`
	LastAccrualTick   uint64                `json:"lastAccrualTick"`
	AccRewardPerShare *math.HexOrDecimal256 `json:"accRewardPerShare"`
	DepositFeeBP      uint16                `json:"depositFeeBP"`
	TotalStaked       *math.HexOrDecimal256 `json:"totalStaked"`
}

func convertPool(p *pool.Pool) *Pool {
	return &Pool{
		ID:                p.ID,
		Asset:             p.Asset,
		Weight:            p.Weight,
		LastAccrualTick:   p.LastAccrualTick,
		AccRewardPerShare: utils.Amount(p.AccRewardPerShare),
		DepositFeeBP:      p.DepositFeeBP,
		TotalStaked:       utils.Amount(p.TotalStaked),
	}
}

type Position struct {
	PoolID     uint64                `json:"poolID"`
	Owner      chef.Address          `json:"owner"`
	Amount     *math.HexOrDecimal256 `json:"amount"`
	RewardDebt *math.HexOrDecimal256 `json:"rewardDebt"`
	Owed       *math.HexOrDecimal256 `json:"owed"`
	Pending    *math.HexOrDecimal256 `json:"pending"`
	Tick       uint64                `json:"tick"`
}

func convertPosition(poolID uint64, owner chef.Address, pos *position.Position) *Position {
	return &Position{
		PoolID:     poolID,
		Owner:      owner,
		Amount:     utils.Amount(pos.Amount),
		RewardDebt: utils.Amount(pos.RewardDebt),
		Owed:       utils.Amount(pos.Owed),
	}
}

type Emission struct {
	RewardPerTick   *math.HexOrDecimal256 `json:"rewardPerTick"`
	TotalWeight     uint64                `json:"totalWeight"`
	FarmStartTick   uint64                `json:"farmStartTick"`
	EmissionEndTick *uint64               `json:"emissionEndTick"` // null while emission is open
	MintedTotal     *math.HexOrDecimal256 `json:"mintedTotal"`
	Preminted       *math.HexOrDecimal256 `json:"preminted"`
	EmissionCap     *math.HexOrDecimal256 `json:"emissionCap"`
	Version         uint64                `json:"version"`
}

func convertEmission(st *emission.State) *Emission {
	em := &Emission{
		RewardPerTick: utils.Amount(st.RewardPerTick),
		TotalWeight:   st.TotalWeight,
		FarmStartTick: st.FarmStartTick,
		MintedTotal:   utils.Amount(st.MintedTotal),
		Preminted:     utils.Amount(st.Preminted),
		EmissionCap:   utils.Amount(st.EmissionCap),
		Version:       st.Version,
	}
	if !st.Open() {
		end := st.EmissionEndTick
		em.EmissionEndTick = &end
	}
	return em
}

// StakeRequest is the body of deposit and withdraw.
type StakeRequest struct {
	User   chef.Address          `json:"user"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// UserRequest is the body of claim and emergency withdraw.
type UserRequest struct {
	User chef.Address `json:"user"`
}

// AddPoolRequest registers a pool.
type AddPoolRequest struct {
	Caller       chef.Address `json:"caller"`
	Asset        chef.Address `json:"asset"`
	Weight       uint64       `json:"weight"`
	DepositFeeBP uint16       `json:"depositFeeBP"`
	WithUpdate   bool         `json:"withUpdate"`
}

// SetPoolRequest changes weight and fee of a pool.
type SetPoolRequest struct {
	Caller       chef.Address `json:"caller"`
	Weight       uint64       `json:"weight"`
	DepositFeeBP uint16       `json:"depositFeeBP"`
	WithUpdate   bool         `json:"withUpdate"`
}

// RateRequest changes the reward per tick.
type RateRequest struct {
	Caller        chef.Address          `json:"caller"`
	RewardPerTick *math.HexOrDecimal256 `json:"rewardPerTick"`
}

// CallerRequest is the body of admin operations without arguments.
type CallerRequest struct {
	Caller chef.Address `json:"caller"`
}

// TransferAdminRequest hands over the admin role.
type TransferAdminRequest struct {
	Caller chef.Address `json:"caller"`
	Next   chef.Address `json:"next"`
}

type DepositResult struct {
	Net     *math.HexOrDecimal256 `json:"net"`
	Receipt *utils.Receipt        `json:"receipt"`
}

type EmergencyWithdrawResult struct {
	Amount  *math.HexOrDecimal256 `json:"amount"`
	Receipt *utils.Receipt        `json:"receipt"`
}

type PoolResult struct {
	Pool    *Pool          `json:"pool"`
	Receipt *utils.Receipt `json:"receipt"`
}

type ClaimOutcome struct {
	PoolID   uint64                `json:"poolID"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
	Deferred *math.HexOrDecimal256 `json:"deferred"`
	Error    string                `json:"error,omitempty"`
}

type ClaimResult struct {
	Outcomes []*ClaimOutcome `json:"outcomes"`
	Receipt  *utils.Receipt  `json:"receipt"`
}

func convertOutcomes(outcomes []*farm.ClaimOutcome) []*ClaimOutcome {
	result := make([]*ClaimOutcome, len(outcomes))
	for i, o := range outcomes {
		result[i] = &ClaimOutcome{
			PoolID:   o.PoolID,
			Amount:   utils.Amount(o.Amount),
			Deferred: utils.Amount(o.Deferred),
		}
		if o.Err != nil {
			result[i].Error = o.Err.Error()
		}
	}
	return result
}
