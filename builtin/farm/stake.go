// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/yieldchef/chef/builtin/farm/pool"
	"github.com/yieldchef/chef/builtin/farm/position"
	"github.com/yieldchef/chef/builtin/fixedpoint"
	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/chef"
)

// ClaimOutcome is the result of claiming one pool in ClaimAll.
type ClaimOutcome struct {
	PoolID   uint64
	Amount   *big.Int // paid to the user
	Deferred *big.Int // left owed because the vault could not pay
	Err      error    // the claim of this pool was reverted
}

// Deposit stakes amount of the pool asset. Pending rewards are paid first,
// the deposit fee is taken from amount and sent to the fee sink.
// A zero amount only claims.
func (f *Farm) Deposit(poolID uint64, user chef.Address, amount *big.Int, tick uint64) (net *big.Int, err error) {
	if amount.Sign() < 0 {
		return nil, reverts.New(reverts.InvalidAmount, "deposit amount is negative")
	}
	if err := f.checkStaker(user); err != nil {
		return nil, err
	}
	p, err := f.poolService.Accrue(poolID, tick)
	if err != nil {
		return nil, err
	}
	pos, err := f.positionService.Get(poolID, user)
	if err != nil {
		return nil, err
	}
	if _, _, err := f.settle(p, user, pos); err != nil {
		return nil, err
	}

	net, fee := new(big.Int), new(big.Int)
	if amount.Sign() > 0 {
		if err := f.custody.Pull(p.Asset, user, f.Address(), amount); err != nil {
			return nil, err
		}
		if fee, err = fixedpoint.Fee(amount, p.DepositFeeBP); err != nil {
			return nil, err
		}
		if fee.Sign() > 0 {
			cfg, err := f.config.Get()
			if err != nil {
				return nil, err
			}
			if err := f.custody.Push(p.Asset, cfg.FeeSink, fee); err != nil {
				return nil, err
			}
		}
		net.Sub(amount, fee)
		if pos.Amount, err = fixedpoint.Add(pos.Amount, net); err != nil {
			return nil, err
		}
		if p.TotalStaked, err = fixedpoint.Add(p.TotalStaked, net); err != nil {
			return nil, err
		}
	}
	if err := f.sync(p, user, pos); err != nil {
		return nil, err
	}
	if amount.Sign() > 0 {
		if err := f.sctx.Emit(userTopics(DepositEvent, user, poolID), &DepositData{Net: net, Fee: fee}); err != nil {
			return nil, err
		}
	}
	return net, nil
}

// Withdraw unstakes amount after paying pending rewards. A zero amount only claims.
func (f *Farm) Withdraw(poolID uint64, user chef.Address, amount *big.Int, tick uint64) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "withdraw amount is negative")
	}
	if err := f.checkStaker(user); err != nil {
		return err
	}
	if _, err := f.poolService.Get(poolID); err != nil {
		return err
	}
	pos, err := f.positionService.Get(poolID, user)
	if err != nil {
		return err
	}
	if amount.Cmp(pos.Amount) > 0 {
		return reverts.New(reverts.InsufficientStake, "withdraw amount exceeds staked amount")
	}
	_, err = f.withdraw(poolID, user, amount, tick)
	return err
}

// withdraw returns what was paid and what was deferred by the settlement.
func (f *Farm) withdraw(poolID uint64, user chef.Address, amount *big.Int, tick uint64) (*settlement, error) {
	p, err := f.poolService.Accrue(poolID, tick)
	if err != nil {
		return nil, err
	}
	pos, err := f.positionService.Get(poolID, user)
	if err != nil {
		return nil, err
	}
	paid, deferred, err := f.settle(p, user, pos)
	if err != nil {
		return nil, err
	}
	if amount.Sign() > 0 {
		if pos.Amount, err = fixedpoint.Sub(pos.Amount, amount); err != nil {
			return nil, err
		}
		if p.TotalStaked, err = fixedpoint.Sub(p.TotalStaked, amount); err != nil {
			return nil, err
		}
		if err := f.custody.Push(p.Asset, user, amount); err != nil {
			return nil, err
		}
	}
	if err := f.sync(p, user, pos); err != nil {
		return nil, err
	}
	if amount.Sign() > 0 {
		if err := f.sctx.Emit(userTopics(WithdrawEvent, user, poolID), &AmountData{Amount: amount}); err != nil {
			return nil, err
		}
	}
	return &settlement{paid, deferred}, nil
}

// checkStaker rejects the builtin principals. The farm address is the custody
// vault, so a position owned by it would not be backed by any asset.
func (f *Farm) checkStaker(user chef.Address) error {
	if user == f.Address() || user == f.reward.Address() {
		return reverts.New(reverts.Unauthorized, "builtin principal cannot stake")
	}
	return nil
}

type settlement struct {
	paid     *big.Int
	deferred *big.Int
}

// ClaimAll claims every pool user has a position in, in pool order. Each
// claim runs in its own checkpoint: a reverted claim is reported in its
// outcome and does not undo the others. Infrastructure errors abort.
func (f *Farm) ClaimAll(user chef.Address, tick uint64) ([]*ClaimOutcome, error) {
	if err := f.checkStaker(user); err != nil {
		return nil, err
	}
	count, err := f.poolService.Len()
	if err != nil {
		return nil, err
	}
	var outcomes []*ClaimOutcome
	for id := range count {
		pos, err := f.positionService.Get(id, user)
		if err != nil {
			return nil, err
		}
		if pos.IsEmpty() {
			continue
		}
		rev := f.sctx.Checkpoint()
		out := &ClaimOutcome{PoolID: id, Amount: new(big.Int), Deferred: new(big.Int)}
		res, err := f.withdraw(id, user, new(big.Int), tick)
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return nil, err
			}
			f.sctx.Revert(rev)
			logger.Debug("claim reverted", "pool", id, "user", user, "err", err)
			out.Err = err
		} else {
			out.Amount, out.Deferred = res.paid, res.deferred
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// EmergencyWithdraw returns the whole stake without accruing or paying
// rewards. Pending and owed rewards are forfeited.
func (f *Farm) EmergencyWithdraw(poolID uint64, user chef.Address) (*big.Int, error) {
	if err := f.checkStaker(user); err != nil {
		return nil, err
	}
	p, err := f.poolService.Get(poolID)
	if err != nil {
		return nil, err
	}
	pos, err := f.positionService.Get(poolID, user)
	if err != nil {
		return nil, err
	}
	amount := pos.Amount
	forfeited := new(big.Int).Set(pos.Owed)
	if pending, err := fixedpoint.Pending(pos.Amount, p.AccRewardPerShare, pos.RewardDebt); err == nil {
		forfeited.Add(forfeited, pending)
	}
	if amount.Sign() > 0 {
		if err := f.custody.Push(p.Asset, user, amount); err != nil {
			return nil, err
		}
		if p.TotalStaked, err = fixedpoint.Sub(p.TotalStaked, amount); err != nil {
			return nil, err
		}
		if err := f.poolService.Save(p); err != nil {
			return nil, err
		}
	}
	if err := f.positionService.Set(poolID, user, &position.Position{
		Amount:     new(big.Int),
		RewardDebt: new(big.Int),
		Owed:       new(big.Int),
	}); err != nil {
		return nil, err
	}
	logger.Debug("emergency withdraw", "pool", poolID, "user", user, "amount", amount, "forfeited", forfeited)
	if err := f.sctx.Emit(userTopics(EmergencyWithdrawEvent, user, poolID), &EmergencyWithdrawData{
		Amount:    amount,
		Forfeited: forfeited,
	}); err != nil {
		return nil, err
	}
	return amount, nil
}

// settle pays the pending and owed rewards of pos out of the vault. When the
// vault is short the whole amount stays owed and the operation goes on.
func (f *Farm) settle(p *pool.Pool, user chef.Address, pos *position.Position) (paid, deferred *big.Int, err error) {
	pending, err := fixedpoint.Pending(pos.Amount, p.AccRewardPerShare, pos.RewardDebt)
	if err != nil {
		return nil, nil, err
	}
	due := pending.Add(pending, pos.Owed)
	if due.Sign() == 0 {
		return new(big.Int), new(big.Int), nil
	}

	rev := f.sctx.Checkpoint()
	if err := f.reward.Transfer(f.Address(), user, due); err != nil {
		if !reverts.Is(err, reverts.InsufficientBalance) {
			return nil, nil, err
		}
		f.sctx.Revert(rev)
		pos.Owed = due
		logger.Warn("reward settlement pending", "pool", p.ID, "user", user, "owed", due, "err", err)
		if err := f.sctx.Emit(userTopics(SettlementDeferredEvent, user, p.ID), &AmountData{Amount: due}); err != nil {
			return nil, nil, err
		}
		return new(big.Int), due, nil
	}
	pos.Owed = new(big.Int)
	if err := f.sctx.Emit(userTopics(HarvestEvent, user, p.ID), &AmountData{Amount: due}); err != nil {
		return nil, nil, err
	}
	return due, new(big.Int), nil
}

// sync resets the reward debt of pos to the pool accumulator and stores both.
func (f *Farm) sync(p *pool.Pool, user chef.Address, pos *position.Position) error {
	debt, err := fixedpoint.Accumulated(pos.Amount, p.AccRewardPerShare)
	if err != nil {
		return err
	}
	pos.RewardDebt = debt
	if err := f.positionService.Set(p.ID, user, pos); err != nil {
		return err
	}
	return f.poolService.Save(p)
}
