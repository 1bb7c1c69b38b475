// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package redemption

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

type State struct {
	StartTick        uint64                `json:"startTick"`
	PresaleEndTick   uint64                `json:"presaleEndTick"`
	BurnSink         chef.Address          `json:"burnSink"`
	PresaleMaxSupply *math.HexOrDecimal256 `json:"presaleMaxSupply"`
	PresaleTotalSold *math.HexOrDecimal256 `json:"presaleTotalSold"`
	UnsoldSettled    bool                  `json:"unsoldSettled"`
	Reserve          *math.HexOrDecimal256 `json:"reserve"`
}

type SwapRequest struct {
	User   chef.Address          `json:"user"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type SweepRequest struct {
	Caller chef.Address `json:"caller"`
}

type SweepResult struct {
	Burned  *math.HexOrDecimal256 `json:"burned"`
	Receipt *utils.Receipt        `json:"receipt"`
}

type Redemption struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Redemption {
	return &Redemption{ledger}
}

func (r *Redemption) handleGetState(w http.ResponseWriter, _ *http.Request) error {
	var result *State
	if err := r.ledger.View(func(n *builtin.Natives, _ uint64) error {
		st, err := n.Redemption.State()
		if err != nil {
			return err
		}
		reserve, err := n.Redemption.Reserve()
		if err != nil {
			return err
		}
		result = &State{
			StartTick:        st.StartTick,
			PresaleEndTick:   st.PresaleEndTick,
			BurnSink:         st.BurnSink,
			PresaleMaxSupply: utils.Amount(st.PresaleMaxSupply),
			PresaleTotalSold: utils.Amount(st.PresaleTotalSold),
			UnsoldSettled:    st.UnsoldSettled,
			Reserve:          utils.Amount(reserve),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (r *Redemption) handleSwap(w http.ResponseWriter, req *http.Request) error {
	var body SwapRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := r.ledger.Swap(body.User, utils.BigInt(body.Amount))
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (r *Redemption) handleSweep(w http.ResponseWriter, req *http.Request) error {
	var body SweepRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	burned, receipt, err := r.ledger.SweepUnsold(body.Caller)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &SweepResult{
		Burned:  utils.Amount(burned),
		Receipt: utils.ConvertReceipt(receipt),
	})
}

func (r *Redemption) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /redemption").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetState))
	sub.Path("/swap").
		Methods(http.MethodPost).
		Name("POST /redemption/swap").
		HandlerFunc(utils.WrapHandlerFunc(r.handleSwap))
	sub.Path("/sweep").
		Methods(http.MethodPost).
		Name("POST /redemption/sweep").
		HandlerFunc(utils.WrapHandlerFunc(r.handleSweep))
}
