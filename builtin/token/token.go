// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/log"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

var logger = log.WithContext("pkg", "token")

var (
	slotMeta        = chef.BytesToBytes32([]byte("meta"))
	slotBalances    = chef.BytesToBytes32([]byte("balances"))
	slotTotalSupply = chef.BytesToBytes32([]byte("total-supply"))
	slotMaxSupply   = chef.BytesToBytes32([]byte("max-supply"))
	slotPreminted   = chef.BytesToBytes32([]byte("preminted"))
	slotTotalBurned = chef.BytesToBytes32([]byte("total-burned"))
	slotAuthority   = chef.BytesToBytes32([]byte("mint-authority"))
	slotBurnSink    = chef.BytesToBytes32([]byte("burn-sink"))
)

// Meta describes a token.
type Meta struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Token is a capped fungible ledger with a single mint authority.
// Total supply never exceeds max supply: a mint beyond the cap is clamped.
type Token struct {
	sctx *solidity.Context

	meta        *solidity.Raw[*Meta]
	balances    *solidity.Mapping[chef.Address, *big.Int]
	totalSupply *solidity.Uint256
	maxSupply   *solidity.Uint256
	preminted   *solidity.Uint256
	totalBurned *solidity.Uint256
	authority   *solidity.Address
	burnSink    *solidity.Address
}

// New create a new instance.
func New(addr chef.Address, state *state.State, journal *tx.Journal) *Token {
	sctx := solidity.NewContext(addr, state, journal)
	return &Token{
		sctx:        sctx,
		meta:        solidity.NewRaw[*Meta](sctx, slotMeta),
		balances:    solidity.NewMapping[chef.Address, *big.Int](sctx, slotBalances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		maxSupply:   solidity.NewUint256(sctx, slotMaxSupply),
		preminted:   solidity.NewUint256(sctx, slotPreminted),
		totalBurned: solidity.NewUint256(sctx, slotTotalBurned),
		authority:   solidity.NewAddress(sctx, slotAuthority),
		burnSink:    solidity.NewAddress(sctx, slotBurnSink),
	}
}

// Address returns the token id.
func (t *Token) Address() chef.Address {
	return t.sctx.Address()
}

// Initialize sets the immutable parameters, once at genesis.
func (t *Token) Initialize(meta *Meta, maxSupply *big.Int, authority, burnSink chef.Address) error {
	set, err := t.meta.IsSet()
	if err != nil {
		return err
	}
	if set {
		return errors.New("token already initialized")
	}
	if maxSupply.Sign() <= 0 {
		return reverts.New(reverts.InvalidAmount, "max supply must be positive")
	}
	if err := t.meta.Set(meta); err != nil {
		return err
	}
	if err := t.maxSupply.Set(maxSupply); err != nil {
		return err
	}
	if err := t.authority.Set(authority); err != nil {
		return err
	}
	return t.burnSink.Set(burnSink)
}

//
// Getters - no state change
//

func (t *Token) Meta() (*Meta, error) {
	return t.meta.Get()
}

func (t *Token) BalanceOf(addr chef.Address) (*big.Int, error) {
	return t.balances.Get(addr)
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) MaxSupply() (*big.Int, error) {
	return t.maxSupply.Get()
}

// Preminted returns the supply created at genesis outside of the mint authority.
func (t *Token) Preminted() (*big.Int, error) {
	return t.preminted.Get()
}

// TotalBurned returns the amount sent to the burn sink through Burn.
func (t *Token) TotalBurned() (*big.Int, error) {
	return t.totalBurned.Get()
}

func (t *Token) MintAuthority() (chef.Address, error) {
	return t.authority.Get()
}

func (t *Token) BurnSink() (chef.Address, error) {
	return t.burnSink.Get()
}

// Remaining returns max supply minus total supply.
func (t *Token) Remaining() (*big.Int, error) {
	supply, err := t.totalSupply.Get()
	if err != nil {
		return nil, err
	}
	max, err := t.maxSupply.Get()
	if err != nil {
		return nil, err
	}
	if supply.Cmp(max) >= 0 {
		return new(big.Int), nil
	}
	return max.Sub(max, supply), nil
}

//
// Setters - state change
//

// Premint credits supply at genesis. It must fit the cap.
func (t *Token) Premint(to chef.Address, amount *big.Int) error {
	remaining, err := t.Remaining()
	if err != nil {
		return err
	}
	if amount.Cmp(remaining) > 0 {
		return reverts.Newf(reverts.InvalidAmount, "premint %v exceeds remaining supply %v", amount, remaining)
	}
	if err := t.credit(chef.Address{}, to, amount); err != nil {
		return err
	}
	return t.preminted.Add(amount)
}

// Mint credits up to amount to the recipient and returns what was actually minted.
// The request is clamped to the remaining supply, so the result may be less than
// amount, including zero once the cap is reached.
func (t *Token) Mint(caller, to chef.Address, amount *big.Int) (*big.Int, error) {
	authority, err := t.authority.Get()
	if err != nil {
		return nil, err
	}
	if caller != authority {
		return nil, reverts.New(reverts.Unauthorized, "caller is not the mint authority")
	}
	if amount.Sign() < 0 {
		return nil, reverts.New(reverts.InvalidAmount, "mint amount is negative")
	}
	remaining, err := t.Remaining()
	if err != nil {
		return nil, err
	}
	minted := new(big.Int).Set(amount)
	if minted.Cmp(remaining) > 0 {
		logger.Debug("mint clamped at cap", "token", t.Address(), "requested", amount, "minted", remaining)
		minted = remaining
	}
	if err := t.credit(chef.Address{}, to, minted); err != nil {
		return nil, err
	}
	return minted, nil
}

func (t *Token) credit(from, to chef.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	t.sctx.Journal().AddTransfer(&tx.Transfer{
		Token:     t.Address(),
		Sender:    from,
		Recipient: to,
		Amount:    new(big.Int).Set(amount),
	})
	return nil
}

// Transfer moves amount between principals.
func (t *Token) Transfer(from, to chef.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "transfer amount is negative")
	}
	if amount.Sign() == 0 {
		return nil
	}
	bal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "transfer amount %v exceeds balance %v", amount, bal)
	}
	if err := t.setBalance(from, bal.Sub(bal, amount)); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	t.sctx.Journal().AddTransfer(&tx.Transfer{
		Token:     t.Address(),
		Sender:    from,
		Recipient: to,
		Amount:    new(big.Int).Set(amount),
	})
	return nil
}

// Burn moves amount to the burn sink. Supply is unchanged, burned tokens
// are accounted in TotalBurned and never spent again.
func (t *Token) Burn(from chef.Address, amount *big.Int) error {
	sink, err := t.burnSink.Get()
	if err != nil {
		return err
	}
	if err := t.Transfer(from, sink, amount); err != nil {
		return err
	}
	return t.totalBurned.Add(amount)
}

func (t *Token) addBalance(addr chef.Address, amount *big.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	return t.setBalance(addr, bal.Add(bal, amount))
}

func (t *Token) setBalance(addr chef.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		t.balances.Delete(addr)
		return nil
	}
	return t.balances.Set(addr, bal)
}
