// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package redemption swaps presale tokens 1:1 for reward tokens out of a
// reserve, and burns the reserve share of unsold presale supply once.
package redemption

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/builtin/token"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/log"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

var (
	logger = log.WithContext("pkg", "redemption")

	slotState = chef.BytesToBytes32([]byte("redemption"))

	// SwapEvent is the topic of Swap(address indexed user, uint256 amount).
	SwapEvent = chef.Keccak256([]byte("Swap(address,uint256)"))
	// UnsoldSweptEvent is the topic of UnsoldSwept(uint256 amount).
	UnsoldSweptEvent = chef.Keccak256([]byte("UnsoldSwept(uint256)"))
)

// State is the redemption record.
type State struct {
	StartTick        uint64
	PresaleEndTick   uint64
	BurnSink         chef.Address
	PresaleMaxSupply *big.Int
	PresaleTotalSold *big.Int
	UnsoldSettled    bool
}

// AmountData is the payload of Swap and UnsoldSwept.
type AmountData struct {
	Amount *big.Int
}

// Redemption implements the redemption ledger. Its address holds the reward reserve.
type Redemption struct {
	sctx    *solidity.Context
	record  *solidity.Raw[*State]
	reward  *token.Token
	presale *token.Token
}

// New create a new instance.
func New(addr chef.Address, state *state.State, journal *tx.Journal, reward, presale *token.Token) *Redemption {
	sctx := solidity.NewContext(addr, state, journal)
	return &Redemption{
		sctx:    sctx,
		record:  solidity.NewRaw[*State](sctx, slotState),
		reward:  reward,
		presale: presale,
	}
}

// Address returns the reserve principal.
func (r *Redemption) Address() chef.Address {
	return r.sctx.Address()
}

// Initialize writes the schedule, once at genesis. The burn sink is the
// burn sink of the presale token.
func (r *Redemption) Initialize(startTick, presaleEndTick uint64) error {
	set, err := r.record.IsSet()
	if err != nil {
		return err
	}
	if set {
		return errors.New("redemption already initialized")
	}
	sink, err := r.presale.BurnSink()
	if err != nil {
		return err
	}
	st := &State{
		StartTick:      startTick,
		PresaleEndTick: presaleEndTick,
		BurnSink:       sink,
	}
	if err := r.refresh(st); err != nil {
		return err
	}
	return r.record.Set(st)
}

// refresh reads the presale supply figures from the presale ledger.
func (r *Redemption) refresh(st *State) error {
	maxSupply, err := r.presale.MaxSupply()
	if err != nil {
		return err
	}
	sold, err := r.presale.TotalSupply()
	if err != nil {
		return err
	}
	st.PresaleMaxSupply = maxSupply
	st.PresaleTotalSold = sold
	return nil
}

// State returns the redemption record with current presale figures.
func (r *Redemption) State() (*State, error) {
	st, err := r.record.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get redemption state")
	}
	if !st.UnsoldSettled {
		if err := r.refresh(st); err != nil {
			return nil, err
		}
	}
	if st.PresaleMaxSupply == nil {
		st.PresaleMaxSupply = new(big.Int)
	}
	if st.PresaleTotalSold == nil {
		st.PresaleTotalSold = new(big.Int)
	}
	return st, nil
}

// Reserve returns the reward tokens available for swaps.
func (r *Redemption) Reserve() (*big.Int, error) {
	return r.reward.BalanceOf(r.Address())
}

// Swap burns amount of presale tokens of user and pays the same amount of
// reward tokens from the reserve.
func (r *Redemption) Swap(user chef.Address, amount *big.Int, tick uint64) error {
	if amount.Sign() <= 0 {
		return reverts.New(reverts.InvalidAmount, "swap amount must be positive")
	}
	st, err := r.record.Get()
	if err != nil {
		return err
	}
	if tick < st.StartTick {
		return reverts.Newf(reverts.NotStarted, "redemption starts at tick %d", st.StartTick)
	}
	reserve, err := r.Reserve()
	if err != nil {
		return err
	}
	if reserve.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientReserve, "reserve %v is less than %v", reserve, amount)
	}
	if err := r.presale.Burn(user, amount); err != nil {
		return err
	}
	if err := r.reward.Transfer(r.Address(), user, amount); err != nil {
		return err
	}
	logger.Debug("swapped", "user", user, "amount", amount)
	return r.sctx.Emit([]chef.Bytes32{SwapEvent, chef.BytesToBytes32(user.Bytes())}, &AmountData{Amount: amount})
}

// SweepUnsold burns the reward tokens matching the unsold presale supply.
// It runs once, after the presale ended.
func (r *Redemption) SweepUnsold(tick uint64) (*big.Int, error) {
	st, err := r.record.Get()
	if err != nil {
		return nil, err
	}
	if tick < st.PresaleEndTick {
		return nil, reverts.Newf(reverts.TooEarly, "presale ends at tick %d", st.PresaleEndTick)
	}
	if st.UnsoldSettled {
		return nil, reverts.New(reverts.AlreadySettled, "unsold presale already settled")
	}
	if err := r.refresh(st); err != nil {
		return nil, err
	}
	unsold := new(big.Int)
	if st.PresaleMaxSupply.Cmp(st.PresaleTotalSold) > 0 {
		unsold.Sub(st.PresaleMaxSupply, st.PresaleTotalSold)
	}
	reserve, err := r.Reserve()
	if err != nil {
		return nil, err
	}
	if reserve.Cmp(unsold) < 0 {
		return nil, reverts.Newf(reverts.InsufficientReserve, "reserve %v is less than unsold %v", reserve, unsold)
	}
	if unsold.Sign() > 0 {
		if err := r.reward.Burn(r.Address(), unsold); err != nil {
			return nil, err
		}
	}
	st.UnsoldSettled = true
	if err := r.record.Set(st); err != nil {
		return nil, err
	}
	logger.Info("unsold presale swept", "amount", unsold)
	if err := r.sctx.Emit([]chef.Bytes32{UnsoldSweptEvent}, &AmountData{Amount: unsold}); err != nil {
		return nil, err
	}
	return unsold, nil
}
