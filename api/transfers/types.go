// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/yieldchef/chef/api/events"
	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/logdb"
)

type FilteredTransfer struct {
	Token     chef.Address          `json:"token"`
	Sender    chef.Address          `json:"sender"`
	Recipient chef.Address          `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Meta      events.LogMeta        `json:"meta"`
}

type TransferCriteria struct {
	Token     *chef.Address `json:"token"`
	Sender    *chef.Address `json:"sender"`
	Recipient *chef.Address `json:"recipient"`
}

type TransferFilter struct {
	Caller      *chef.Address       `json:"caller"`
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *events.Range       `json:"range"`
	Options     *events.Options     `json:"options"`
	Order       logdb.Order         `json:"order"`
}

func convertTransferFilter(filter *TransferFilter) *logdb.TransferFilter {
	f := &logdb.TransferFilter{
		Caller: filter.Caller,
		Range:  events.ConvertRange(filter.Range),
		Order:  filter.Order,
	}
	if filter.Options != nil {
		f.Options = &logdb.Options{Offset: filter.Options.Offset, Limit: filter.Options.Limit}
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.TransferCriteria{
			Token:     c.Token,
			Sender:    c.Sender,
			Recipient: c.Recipient,
		})
	}
	return f
}

func convertTransfer(transfer *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Token:     transfer.Token,
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    utils.Amount(transfer.Amount),
		Meta: events.LogMeta{
			OpSeq:  transfer.OpSeq,
			Index:  transfer.Index,
			Tick:   transfer.Tick,
			Op:     transfer.Op,
			Caller: transfer.Caller,
		},
	}
}
