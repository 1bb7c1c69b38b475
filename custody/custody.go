// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody holds the external assets staked into pools.
//
// Custody is the interface the farm consumes. Moves are synchronous and
// all-or-nothing. Ledger is the in-repo implementation: it keeps balances per
// (asset, holder) in state, so every move joins the checkpoint of the running
// operation and is reverted with it.
package custody

import (
	"math/big"

	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

// Custody moves external assets.
type Custody interface {
	// Pull moves amount of asset from a principal into to.
	Pull(asset, from, to chef.Address, amount *big.Int) error
	// Push pays amount of asset out of the vault to a principal.
	Push(asset, to chef.Address, amount *big.Int) error
}

var slotBalances = chef.BytesToBytes32([]byte("balances"))

type holding struct {
	asset  chef.Address
	holder chef.Address
}

func (h holding) Bytes() []byte {
	return chef.Blake2b(h.asset.Bytes(), h.holder.Bytes()).Bytes()
}

// Ledger is a Custody keeping balances in state.
type Ledger struct {
	sctx     *solidity.Context
	vault    chef.Address
	balances *solidity.Mapping[holding, *big.Int]
}

var _ Custody = (*Ledger)(nil)

// New creates a custody ledger paying out of vault.
func New(addr chef.Address, vault chef.Address, state *state.State, journal *tx.Journal) *Ledger {
	sctx := solidity.NewContext(addr, state, journal)
	return &Ledger{
		sctx:     sctx,
		vault:    vault,
		balances: solidity.NewMapping[holding, *big.Int](sctx, slotBalances),
	}
}

// BalanceOf returns the asset balance of holder.
func (l *Ledger) BalanceOf(asset, holder chef.Address) (*big.Int, error) {
	return l.balances.Get(holding{asset, holder})
}

// Credit creates amount of asset for holder. It is the entry point of
// assets into the ledger, used by genesis and the solo faucet.
func (l *Ledger) Credit(asset, holder chef.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return reverts.New(reverts.InvalidAmount, "credit amount must be positive")
	}
	if err := l.add(holding{asset, holder}, amount); err != nil {
		return err
	}
	l.record(asset, chef.Address{}, holder, amount)
	return nil
}

func (l *Ledger) Pull(asset, from, to chef.Address, amount *big.Int) error {
	return l.move(asset, from, to, amount)
}

func (l *Ledger) Push(asset, to chef.Address, amount *big.Int) error {
	return l.move(asset, l.vault, to, amount)
}

func (l *Ledger) move(asset, from, to chef.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "asset amount is negative")
	}
	if amount.Sign() == 0 {
		return nil
	}
	src := holding{asset, from}
	bal, err := l.balances.Get(src)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "asset balance %v is less than %v", bal, amount)
	}
	if from == to {
		return nil
	}
	if err := l.set(src, bal.Sub(bal, amount)); err != nil {
		return err
	}
	if err := l.add(holding{asset, to}, amount); err != nil {
		return err
	}
	l.record(asset, from, to, amount)
	return nil
}

func (l *Ledger) add(h holding, amount *big.Int) error {
	bal, err := l.balances.Get(h)
	if err != nil {
		return err
	}
	return l.set(h, bal.Add(bal, amount))
}

func (l *Ledger) set(h holding, bal *big.Int) error {
	if bal.Sign() == 0 {
		l.balances.Delete(h)
		return nil
	}
	return l.balances.Set(h, bal)
}

func (l *Ledger) record(asset, from, to chef.Address, amount *big.Int) {
	l.sctx.Journal().AddTransfer(&tx.Transfer{
		Token:     asset,
		Sender:    from,
		Recipient: to,
		Amount:    new(big.Int).Set(amount),
	})
}
