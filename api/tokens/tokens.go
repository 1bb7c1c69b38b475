// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/builtin/token"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/ledger"
)

type Token struct {
	Address       chef.Address          `json:"address"`
	Name          string                `json:"name"`
	Symbol        string                `json:"symbol"`
	Decimals      uint8                 `json:"decimals"`
	TotalSupply   *math.HexOrDecimal256 `json:"totalSupply"`
	MaxSupply     *math.HexOrDecimal256 `json:"maxSupply"`
	Preminted     *math.HexOrDecimal256 `json:"preminted"`
	TotalBurned   *math.HexOrDecimal256 `json:"totalBurned"`
	MintAuthority chef.Address          `json:"mintAuthority"`
	BurnSink      chef.Address          `json:"burnSink"`
}

func convertToken(t *token.Token) (*Token, error) {
	meta, err := t.Meta()
	if err != nil {
		return nil, err
	}
	supply, err := t.TotalSupply()
	if err != nil {
		return nil, err
	}
	maxSupply, err := t.MaxSupply()
	if err != nil {
		return nil, err
	}
	preminted, err := t.Preminted()
	if err != nil {
		return nil, err
	}
	burned, err := t.TotalBurned()
	if err != nil {
		return nil, err
	}
	authority, err := t.MintAuthority()
	if err != nil {
		return nil, err
	}
	sink, err := t.BurnSink()
	if err != nil {
		return nil, err
	}
	return &Token{
		Address:       t.Address(),
		Name:          meta.Name,
		Symbol:        meta.Symbol,
		Decimals:      meta.Decimals,
		TotalSupply:   utils.Amount(supply),
		MaxSupply:     utils.Amount(maxSupply),
		Preminted:     utils.Amount(preminted),
		TotalBurned:   utils.Amount(burned),
		MintAuthority: authority,
		BurnSink:      sink,
	}, nil
}

type Tokens struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Tokens {
	return &Tokens{ledger}
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	name := mux.Vars(req)["name"]
	var result *Token
	if err := t.ledger.View(func(n *builtin.Natives, _ uint64) (err error) {
		switch name {
		case "reward":
			result, err = convertToken(n.Reward)
		case "presale":
			result, err = convertToken(n.Presale)
		default:
			err = utils.NotFound(fmt.Errorf("token %q not found", name))
		}
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{name}").
		Methods(http.MethodGet).
		Name("GET /tokens/{name}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
}
