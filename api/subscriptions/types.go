// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/yieldchef/chef/api/events"
	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/tx"
)

type EventMessage struct {
	Address chef.Address   `json:"address"`
	Topics  []chef.Bytes32 `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
	Meta    events.LogMeta `json:"meta"`
}

type TransferMessage struct {
	Token     chef.Address          `json:"token"`
	Sender    chef.Address          `json:"sender"`
	Recipient chef.Address          `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Meta      events.LogMeta        `json:"meta"`
}

func logMeta(r *tx.Receipt, index int) events.LogMeta {
	return events.LogMeta{
		OpSeq:  r.Seq,
		Index:  uint32(index),
		Tick:   r.Tick,
		Op:     r.Op,
		Caller: r.Caller,
	}
}

// EventFilter matches events by address and topics. Nil fields match anything.
type EventFilter struct {
	Address *chef.Address
	Topics  [5]*chef.Bytes32
}

func (f *EventFilter) match(ev *tx.Event) bool {
	if f.Address != nil && *f.Address != ev.Address {
		return false
	}
	for i, topic := range f.Topics {
		if topic == nil {
			continue
		}
		if i >= len(ev.Topics) || ev.Topics[i] != *topic {
			return false
		}
	}
	return true
}

// TransferFilter matches transfers. Nil fields match anything.
type TransferFilter struct {
	Token     *chef.Address
	Sender    *chef.Address
	Recipient *chef.Address
}

func (f *TransferFilter) match(tr *tx.Transfer) bool {
	if f.Token != nil && *f.Token != tr.Token {
		return false
	}
	if f.Sender != nil && *f.Sender != tr.Sender {
		return false
	}
	if f.Recipient != nil && *f.Recipient != tr.Recipient {
		return false
	}
	return true
}

// messageReader turns a receipt into the messages of one subject.
type messageReader func(r *tx.Receipt) []any

func eventReader(filter *EventFilter) messageReader {
	return func(r *tx.Receipt) []any {
		var msgs []any
		for i, ev := range r.Events {
			if filter.match(ev) {
				msgs = append(msgs, &EventMessage{
					Address: ev.Address,
					Topics:  ev.Topics,
					Data:    ev.Data,
					Meta:    logMeta(r, i),
				})
			}
		}
		return msgs
	}
}

func transferReader(filter *TransferFilter) messageReader {
	return func(r *tx.Receipt) []any {
		var msgs []any
		for i, tr := range r.Transfers {
			if filter.match(tr) {
				msgs = append(msgs, &TransferMessage{
					Token:     tr.Token,
					Sender:    tr.Sender,
					Recipient: tr.Recipient,
					Amount:    utils.Amount(tr.Amount),
					Meta:      logMeta(r, i),
				})
			}
		}
		return msgs
	}
}

func receiptReader() messageReader {
	return func(r *tx.Receipt) []any {
		return []any{utils.ConvertReceipt(r)}
	}
}
