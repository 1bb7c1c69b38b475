// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/builtin/farm"
	"github.com/yieldchef/chef/builtin/farm/pool"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/tx"
)

// Operation names, as recorded in receipts and logs.
const (
	OpDeposit           = "deposit"
	OpWithdraw          = "withdraw"
	OpClaimAll          = "claim_all"
	OpEmergencyWithdraw = "emergency_withdraw"
	OpAddPool           = "add_pool"
	OpSetPool           = "set_pool"
	OpSetEmissionRate   = "set_emission_rate"
	OpMassUpdatePools   = "mass_update_pools"
	OpTransferAdmin     = "transfer_admin"
	OpSwap              = "swap"
	OpSweepUnsold       = "sweep_unsold"
)

// Deposit stakes amount into the pool and returns the staked amount net of fee.
func (l *Ledger) Deposit(poolID uint64, user chef.Address, amount *big.Int) (net *big.Int, receipt *tx.Receipt, err error) {
	receipt, err = l.execute(OpDeposit, user, func(n *builtin.Natives, tick uint64) error {
		net, err = n.Farm.Deposit(poolID, user, amount, tick)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return net, receipt, nil
}

// Withdraw unstakes amount from the pool, paying pending rewards.
func (l *Ledger) Withdraw(poolID uint64, user chef.Address, amount *big.Int) (*tx.Receipt, error) {
	return l.execute(OpWithdraw, user, func(n *builtin.Natives, tick uint64) error {
		return n.Farm.Withdraw(poolID, user, amount, tick)
	})
}

// ClaimAll harvests every pool the user has a position in.
// Pools that fail are reported in the outcomes, the others are committed.
func (l *Ledger) ClaimAll(user chef.Address) (outcomes []*farm.ClaimOutcome, receipt *tx.Receipt, err error) {
	receipt, err = l.execute(OpClaimAll, user, func(n *builtin.Natives, tick uint64) error {
		outcomes, err = n.Farm.ClaimAll(user, tick)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return outcomes, receipt, nil
}

// EmergencyWithdraw returns the whole stake, forfeiting rewards.
func (l *Ledger) EmergencyWithdraw(poolID uint64, user chef.Address) (amount *big.Int, receipt *tx.Receipt, err error) {
	receipt, err = l.execute(OpEmergencyWithdraw, user, func(n *builtin.Natives, _ uint64) error {
		amount, err = n.Farm.EmergencyWithdraw(poolID, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return amount, receipt, nil
}

// AddPool registers a new pool for asset.
func (l *Ledger) AddPool(caller, asset chef.Address, weight uint64, feeBP uint16, withUpdate bool) (p *pool.Pool, receipt *tx.Receipt, err error) {
	receipt, err = l.execute(OpAddPool, caller, func(n *builtin.Natives, tick uint64) error {
		p, err = n.Farm.AddPool(caller, asset, weight, feeBP, withUpdate, tick)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return p, receipt, nil
}

// SetPool changes the weight and deposit fee of a pool.
func (l *Ledger) SetPool(caller chef.Address, poolID uint64, weight uint64, feeBP uint16, withUpdate bool) (p *pool.Pool, receipt *tx.Receipt, err error) {
	receipt, err = l.execute(OpSetPool, caller, func(n *builtin.Natives, tick uint64) error {
		p, err = n.Farm.SetPool(caller, poolID, weight, feeBP, withUpdate, tick)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return p, receipt, nil
}

// SetEmissionRate accrues every pool, then changes the reward per tick.
func (l *Ledger) SetEmissionRate(caller chef.Address, rate *big.Int) (*tx.Receipt, error) {
	return l.execute(OpSetEmissionRate, caller, func(n *builtin.Natives, tick uint64) error {
		return n.Farm.SetEmissionRate(caller, rate, tick)
	})
}

// MassUpdatePools accrues every pool.
func (l *Ledger) MassUpdatePools(caller chef.Address) (*tx.Receipt, error) {
	return l.execute(OpMassUpdatePools, caller, func(n *builtin.Natives, tick uint64) error {
		return n.Farm.MassUpdatePools(caller, tick)
	})
}

// TransferAdmin hands the admin role to next.
func (l *Ledger) TransferAdmin(caller, next chef.Address) (*tx.Receipt, error) {
	return l.execute(OpTransferAdmin, caller, func(n *builtin.Natives, _ uint64) error {
		return n.Admin.Transfer(caller, next)
	})
}

// Swap burns presale tokens of user for the same amount of reward tokens.
func (l *Ledger) Swap(user chef.Address, amount *big.Int) (*tx.Receipt, error) {
	return l.execute(OpSwap, user, func(n *builtin.Natives, tick uint64) error {
		return n.Redemption.Swap(user, amount, tick)
	})
}

// SweepUnsold burns the reserve backing unsold presale tokens.
func (l *Ledger) SweepUnsold(caller chef.Address) (burned *big.Int, receipt *tx.Receipt, err error) {
	receipt, err = l.execute(OpSweepUnsold, caller, func(n *builtin.Natives, tick uint64) error {
		burned, err = n.Redemption.SweepUnsold(tick)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return burned, receipt, nil
}
