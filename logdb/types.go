// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	OpSeq   uint64
	Index   uint32
	Tick    uint64
	Op      string
	Caller  chef.Address
	Address chef.Address // always a builtin address
	Topics  [5]*chef.Bytes32
	Data    []byte
}

// newEvent converts tx.Event to Event.
func newEvent(receipt *tx.Receipt, index uint32, txEvent *tx.Event) *Event {
	ev := &Event{
		OpSeq:   receipt.Seq,
		Index:   index,
		Tick:    receipt.Tick,
		Op:      receipt.Op,
		Caller:  receipt.Caller,
		Address: txEvent.Address,
		Data:    txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	OpSeq     uint64
	Index     uint32
	Tick      uint64
	Op        string
	Caller    chef.Address
	Token     chef.Address
	Sender    chef.Address
	Recipient chef.Address
	Amount    *big.Int
}

// newTransfer converts tx.Transfer to Transfer.
func newTransfer(receipt *tx.Receipt, index uint32, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		OpSeq:     receipt.Seq,
		Index:     index,
		Tick:      receipt.Tick,
		Op:        receipt.Op,
		Caller:    receipt.Caller,
		Token:     transfer.Token,
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    transfer.Amount,
	}
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive tick range. To below From means no upper bound.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *chef.Address
	Topics  [5]*chef.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	Token     *chef.Address // which asset
	Sender    *chef.Address // who sent tokens
	Recipient *chef.Address // who received tokens
}

type TransferFilter struct {
	Caller      *chef.Address // who ran the operation
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
