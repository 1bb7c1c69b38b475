// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements the exact 256-bit integer arithmetic of the
// reward-per-share accumulator. Nothing here rounds except the final floor
// division, and every operation that would not fit 256 bits fails with an
// ArithmeticOverflow revert instead of wrapping.
package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/chef"
)

// Scale of every reward-per-share accumulator.
var Scale = new(big.Int).SetUint64(chef.RewardScale)

var feeDenominator = new(big.Int).SetUint64(chef.FeeDenominator)

func toU256(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, reverts.New(reverts.ArithmeticOverflow, "negative operand")
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "operand exceeds 256 bits")
	}
	return u, nil
}

func operands(vs ...*big.Int) ([]*uint256.Int, error) {
	us := make([]*uint256.Int, len(vs))
	for i, v := range vs {
		u, err := toU256(v)
		if err != nil {
			return nil, err
		}
		us[i] = u
	}
	return us, nil
}

// MulDiv returns floor(a*b/d). The intermediate product may use 512 bits,
// the quotient must fit 256 bits.
func MulDiv(a, b, d *big.Int) (*big.Int, error) {
	us, err := operands(a, b, d)
	if err != nil {
		return nil, err
	}
	if us[2].IsZero() {
		return nil, reverts.New(reverts.ArithmeticOverflow, "division by zero")
	}
	z, overflow := new(uint256.Int).MulDivOverflow(us[0], us[1], us[2])
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "quotient exceeds 256 bits")
	}
	return z.ToBig(), nil
}

// Mul returns a*b.
func Mul(a, b *big.Int) (*big.Int, error) {
	us, err := operands(a, b)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).MulOverflow(us[0], us[1])
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "product exceeds 256 bits")
	}
	return z.ToBig(), nil
}

// Add returns a+b.
func Add(a, b *big.Int) (*big.Int, error) {
	us, err := operands(a, b)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).AddOverflow(us[0], us[1])
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "sum exceeds 256 bits")
	}
	return z.ToBig(), nil
}

// Sub returns a-b, failing when b > a.
func Sub(a, b *big.Int) (*big.Int, error) {
	us, err := operands(a, b)
	if err != nil {
		return nil, err
	}
	z, underflow := new(uint256.Int).SubOverflow(us[0], us[1])
	if underflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "difference below zero")
	}
	return z.ToBig(), nil
}

// RewardPerShare returns reward*Scale/totalStaked.
func RewardPerShare(reward, totalStaked *big.Int) (*big.Int, error) {
	return MulDiv(reward, Scale, totalStaked)
}

// Accumulated returns amount*acc/Scale, the reward debt of a position.
func Accumulated(amount, acc *big.Int) (*big.Int, error) {
	return MulDiv(amount, acc, Scale)
}

// Pending returns amount*acc/Scale - debt.
// A negative result means a debt was not synced and is reported as an error.
func Pending(amount, acc, debt *big.Int) (*big.Int, error) {
	accumulated, err := Accumulated(amount, acc)
	if err != nil {
		return nil, err
	}
	if accumulated.Cmp(debt) < 0 {
		return nil, reverts.Newf(reverts.ArithmeticOverflow, "reward debt %v exceeds accumulated %v", debt, accumulated)
	}
	return accumulated.Sub(accumulated, debt), nil
}

// ProRata returns elapsed*rate*weight/totalWeight, zero when totalWeight is zero.
func ProRata(elapsed uint64, rate *big.Int, weight, totalWeight uint64) (*big.Int, error) {
	if totalWeight == 0 || elapsed == 0 || weight == 0 {
		return new(big.Int), nil
	}
	emitted, err := Mul(new(big.Int).SetUint64(elapsed), rate)
	if err != nil {
		return nil, err
	}
	return MulDiv(emitted, new(big.Int).SetUint64(weight), new(big.Int).SetUint64(totalWeight))
}

// Fee returns floor(amount*bp/10000).
func Fee(amount *big.Int, bp uint16) (*big.Int, error) {
	return MulDiv(amount, big.NewInt(int64(bp)), feeDenominator)
}
