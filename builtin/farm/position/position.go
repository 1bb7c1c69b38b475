// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/chef"
)

var slotPositions = chef.BytesToBytes32([]byte("positions"))

// Position is the stake of one owner in one pool.
type Position struct {
	Amount     *big.Int // net of deposit fee
	RewardDebt *big.Int // Amount * acc / scale at the last sync
	Owed       *big.Int // settled rewards the vault could not pay yet
}

// IsEmpty reports whether the position holds neither stake nor owed rewards.
func (p *Position) IsEmpty() bool {
	return p.Amount.Sign() == 0 && p.Owed.Sign() == 0
}

func (p *Position) normalize() {
	for _, v := range []**big.Int{&p.Amount, &p.RewardDebt, &p.Owed} {
		if *v == nil {
			*v = new(big.Int)
		}
	}
}

// Key identifies a position by pool and owner.
type Key struct {
	PoolID uint64
	Owner  chef.Address
}

func (k Key) Bytes() []byte {
	return chef.Blake2b(solidity.Uint64Key(k.PoolID).Bytes(), k.Owner.Bytes()).Bytes()
}

// Service is the stake ledger.
type Service struct {
	positions *solidity.Mapping[Key, *Position]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		positions: solidity.NewMapping[Key, *Position](sctx, slotPositions),
	}
}

// Get returns the position, zero valued if the owner never staked in the pool.
func (s *Service) Get(poolID uint64, owner chef.Address) (*Position, error) {
	pos, err := s.positions.Get(Key{poolID, owner})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get position %d/%v", poolID, owner)
	}
	pos.normalize()
	return pos, nil
}

func (s *Service) Set(poolID uint64, owner chef.Address, pos *Position) error {
	if err := s.positions.Set(Key{poolID, owner}, pos); err != nil {
		return errors.Wrapf(err, "failed to set position %d/%v", poolID, owner)
	}
	return nil
}
