// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/tx"
)

// Event is the json form of an emitted event.
type Event struct {
	Address chef.Address   `json:"address"`
	Topics  []chef.Bytes32 `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// Transfer is the json form of a token or asset movement.
type Transfer struct {
	Token     chef.Address          `json:"token"`
	Sender    chef.Address          `json:"sender"`
	Recipient chef.Address          `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

// Receipt is the json form of a committed operation.
type Receipt struct {
	Seq       uint64       `json:"seq"`
	Tick      uint64       `json:"tick"`
	Op        string       `json:"op"`
	Caller    chef.Address `json:"caller"`
	Events    []*Event     `json:"events"`
	Transfers []*Transfer  `json:"transfers"`
}

// ConvertReceipt converts a receipt into its json form.
func ConvertReceipt(r *tx.Receipt) *Receipt {
	receipt := &Receipt{
		Seq:       r.Seq,
		Tick:      r.Tick,
		Op:        r.Op,
		Caller:    r.Caller,
		Events:    make([]*Event, len(r.Events)),
		Transfers: make([]*Transfer, len(r.Transfers)),
	}
	for i, ev := range r.Events {
		receipt.Events[i] = &Event{
			Address: ev.Address,
			Topics:  ev.Topics,
			Data:    ev.Data,
		}
	}
	for i, tr := range r.Transfers {
		receipt.Transfers[i] = &Transfer{
			Token:     tr.Token,
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    Amount(tr.Amount),
		}
	}
	return receipt
}

// Amount wraps a big integer for json.
func Amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

// BigInt unwraps a json amount, nil is zero.
func BigInt(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(v))
}
