// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/yieldchef/chef/chef"
)

// Event is a log emitted by a builtin.
// Topics[0] is the keccak hash of the event signature, the indexed
// arguments follow. Data carries the rlp encoded non-indexed arguments.
type Event struct {
	Address chef.Address
	Topics  []chef.Bytes32
	Data    []byte
}

// Events slice of event logs.
type Events []*Event

// Transfer token transfer log.
type Transfer struct {
	Token     chef.Address
	Sender    chef.Address
	Recipient chef.Address
	Amount    *big.Int
}

// Transfers slice of transfer logs.
type Transfers []*Transfer

// Receipt is the outcome of one committed ledger operation.
type Receipt struct {
	Seq       uint64
	Tick      uint64
	Op        string
	Caller    chef.Address
	Events    Events
	Transfers Transfers
}
