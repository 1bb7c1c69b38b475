// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emission

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/chef"
)

var slotEmission = chef.BytesToBytes32([]byte("emission"))

// State is the farm wide emission configuration and progress.
type State struct {
	RewardPerTick   *big.Int
	TotalWeight     uint64
	FarmStartTick   uint64
	EmissionEndTick uint64   // chef.EmissionOpen until the cap is reached
	MintedTotal     *big.Int // never exceeds EmissionCap
	Preminted       *big.Int
	EmissionCap     *big.Int // max supply minus preminted
	Version         uint64   // bumped by every admin mutation
}

// Open reports whether emission has not hit the cap yet.
func (s *State) Open() bool {
	return s.EmissionEndTick == chef.EmissionOpen
}

// Remaining returns how much can still be minted.
func (s *State) Remaining() *big.Int {
	if s.MintedTotal.Cmp(s.EmissionCap) >= 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(s.EmissionCap, s.MintedTotal)
}

// Copy returns a deep copy.
func (s *State) Copy() *State {
	cpy := *s
	cpy.RewardPerTick = new(big.Int).Set(s.RewardPerTick)
	cpy.MintedTotal = new(big.Int).Set(s.MintedTotal)
	cpy.Preminted = new(big.Int).Set(s.Preminted)
	cpy.EmissionCap = new(big.Int).Set(s.EmissionCap)
	return &cpy
}

func (s *State) normalize() {
	for _, v := range []**big.Int{&s.RewardPerTick, &s.MintedTotal, &s.Preminted, &s.EmissionCap} {
		if *v == nil {
			*v = new(big.Int)
		}
	}
}

// Service keeps the single emission record.
type Service struct {
	record *solidity.Raw[*State]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		record: solidity.NewRaw[*State](sctx, slotEmission),
	}
}

// Initialize writes the first record. It fails once a record exists.
func (s *Service) Initialize(rewardPerTick *big.Int, farmStartTick uint64, maxSupply, preminted *big.Int) error {
	set, err := s.record.IsSet()
	if err != nil {
		return err
	}
	if set {
		return errors.New("emission already initialized")
	}
	if rewardPerTick.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "reward per tick is negative")
	}
	if maxSupply.Cmp(preminted) < 0 {
		return reverts.Newf(reverts.InvalidAmount, "preminted %v exceeds max supply %v", preminted, maxSupply)
	}
	return s.record.Set(&State{
		RewardPerTick:   new(big.Int).Set(rewardPerTick),
		FarmStartTick:   farmStartTick,
		EmissionEndTick: chef.EmissionOpen,
		MintedTotal:     new(big.Int),
		Preminted:       new(big.Int).Set(preminted),
		EmissionCap:     new(big.Int).Sub(maxSupply, preminted),
	})
}

// Get returns the record, zero valued when not initialized.
func (s *Service) Get() (*State, error) {
	st, err := s.record.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get emission state")
	}
	st.normalize()
	return st, nil
}

func (s *Service) Set(st *State) error {
	return s.record.Set(st)
}

// AddWeight moves the total weight by the difference between prev and next.
func (s *Service) AddWeight(prev, next uint64) error {
	st, err := s.Get()
	if err != nil {
		return err
	}
	total := st.TotalWeight - prev
	if total > st.TotalWeight {
		return reverts.New(reverts.ArithmeticOverflow, "total weight below zero")
	}
	if total+next < total {
		return reverts.New(reverts.ArithmeticOverflow, "total weight exceeds 64 bits")
	}
	st.TotalWeight = total + next
	return s.Set(st)
}

// RecordMint adds minted to the minted total. When the mint was clamped and the
// cap is reached, emission is closed at tick.
func (s *Service) RecordMint(requested, minted *big.Int, tick uint64) (*State, error) {
	st, err := s.Get()
	if err != nil {
		return nil, err
	}
	st.MintedTotal.Add(st.MintedTotal, minted)
	if minted.Cmp(requested) < 0 && st.MintedTotal.Cmp(st.EmissionCap) >= 0 && st.Open() {
		st.EmissionEndTick = tick
	}
	if err := s.Set(st); err != nil {
		return nil, err
	}
	return st, nil
}

// SetRate replaces the reward per tick.
func (s *Service) SetRate(rate *big.Int) (prev *big.Int, err error) {
	if rate.Sign() < 0 {
		return nil, reverts.New(reverts.InvalidAmount, "reward per tick is negative")
	}
	st, err := s.Get()
	if err != nil {
		return nil, err
	}
	prev = st.RewardPerTick
	st.RewardPerTick = new(big.Int).Set(rate)
	return prev, s.Set(st)
}

// Bump increments the configuration version.
func (s *Service) Bump() (uint64, error) {
	st, err := s.Get()
	if err != nil {
		return 0, err
	}
	st.Version++
	return st.Version, s.Set(st)
}
