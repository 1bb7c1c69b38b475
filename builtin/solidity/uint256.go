// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/yieldchef/chef/chef"
)

// Uint256 is a single unsigned counter slot.
type Uint256 struct {
	raw *Raw[*big.Int]
}

func NewUint256(context *Context, slot chef.Bytes32) *Uint256 {
	return &Uint256{raw: NewRaw[*big.Int](context, slot)}
}

func (u *Uint256) Get() (*big.Int, error) {
	return u.raw.Get()
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() == 0 {
		u.raw.context.state.SetRawStorage(u.raw.context.address, u.raw.pos, nil)
		return nil
	}
	return u.raw.Set(value)
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Sub(storage, value))
}
