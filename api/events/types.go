// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/logdb"
)

// LogMeta locates a log in the operation history.
type LogMeta struct {
	OpSeq  uint64       `json:"opSeq"`
	Index  uint32       `json:"index"`
	Tick   uint64       `json:"tick"`
	Op     string       `json:"op"`
	Caller chef.Address `json:"caller"`
}

type FilteredEvent struct {
	Address chef.Address   `json:"address"`
	Topics  []chef.Bytes32 `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
	Meta    LogMeta        `json:"meta"`
}

// Range is an inclusive tick range, open ended when To is omitted.
type Range struct {
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Address *chef.Address `json:"address"`
	TopicSet
}

type TopicSet struct {
	Topic0 *chef.Bytes32 `json:"topic0"`
	Topic1 *chef.Bytes32 `json:"topic1"`
	Topic2 *chef.Bytes32 `json:"topic2"`
	Topic3 *chef.Bytes32 `json:"topic3"`
	Topic4 *chef.Bytes32 `json:"topic4"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

// ConvertRange converts an api range into a logdb range.
func ConvertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	rng := &logdb.Range{}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To != nil {
		rng.To = *r.To
	} else if rng.From > 0 {
		// no upper bound
		rng.To = rng.From - 1
	} else {
		return nil
	}
	return rng
}

func convertEventFilter(filter *EventFilter) *logdb.EventFilter {
	f := &logdb.EventFilter{
		Range: ConvertRange(filter.Range),
		Order: filter.Order,
	}
	if filter.Options != nil {
		f.Options = &logdb.Options{Offset: filter.Options.Offset, Limit: filter.Options.Limit}
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  [5]*chef.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3, c.Topic4},
		})
	}
	return f
}

func convertEvent(event *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: event.Address,
		Data:    event.Data,
		Meta: LogMeta{
			OpSeq:  event.OpSeq,
			Index:  event.Index,
			Tick:   event.Tick,
			Op:     event.Op,
			Caller: event.Caller,
		},
	}
	fe.Topics = make([]chef.Bytes32, 0)
	for _, topic := range event.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, *topic)
		}
	}
	return fe
}
