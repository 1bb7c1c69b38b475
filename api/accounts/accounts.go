// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/ledger"
)

type AssetBalance struct {
	Asset   chef.Address          `json:"asset"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Account struct {
	Reward  *math.HexOrDecimal256 `json:"reward"`
	Presale *math.HexOrDecimal256 `json:"presale"`
	Assets  []*AssetBalance       `json:"assets"` // custody balances of pool assets
}

type Accounts struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Accounts {
	return &Accounts{ledger}
}

func (a *Accounts) getAccount(addr chef.Address) (acc *Account, err error) {
	err = a.ledger.View(func(n *builtin.Natives, _ uint64) error {
		reward, err := n.Reward.BalanceOf(addr)
		if err != nil {
			return err
		}
		presale, err := n.Presale.BalanceOf(addr)
		if err != nil {
			return err
		}
		pools, err := n.Farm.Pools()
		if err != nil {
			return err
		}
		acc = &Account{
			Reward:  utils.Amount(reward),
			Presale: utils.Amount(presale),
			Assets:  make([]*AssetBalance, 0, len(pools)),
		}
		for _, p := range pools {
			bal, err := n.Custody.BalanceOf(p.Asset, addr)
			if err != nil {
				return err
			}
			acc.Assets = append(acc.Assets, &AssetBalance{p.Asset, utils.Amount(bal)})
		}
		return nil
	})
	return
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := chef.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleGetAssetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := chef.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	asset, err := chef.ParseAddress(mux.Vars(req)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	var bal *AssetBalance
	if err := a.ledger.View(func(n *builtin.Natives, _ uint64) error {
		b, err := n.Custody.BalanceOf(asset, addr)
		if err != nil {
			return err
		}
		bal = &AssetBalance{asset, utils.Amount(b)}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, bal)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/assets/{asset}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/assets/{asset}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAssetBalance))
}
