// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/event"

	"github.com/yieldchef/chef/co"
	"github.com/yieldchef/chef/tx"
)

// broadcaster delivers committed receipts to subscribers in commit order.
// Publishing never blocks, so a slow subscriber only delays other subscribers.
type broadcaster struct {
	feed  event.Feed
	scope event.SubscriptionScope
	goes  co.Goes

	mu    sync.Mutex
	queue []*tx.Receipt
	wake  chan struct{}
}

func newBroadcaster() *broadcaster {
	b := &broadcaster{wake: make(chan struct{}, 1)}
	b.goes.GoCtx(b.loop)
	return b
}

func (b *broadcaster) subscribe(ch chan *tx.Receipt) event.Subscription {
	return b.scope.Track(b.feed.Subscribe(ch))
}

func (b *broadcaster) publish(receipt *tx.Receipt) {
	b.mu.Lock()
	b.queue = append(b.queue, receipt)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *broadcaster) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
		}

		b.mu.Lock()
		queue := b.queue
		b.queue = nil
		b.mu.Unlock()

		for _, receipt := range queue {
			b.feed.Send(receipt)
		}
	}
}

// close unsubscribes everyone, which also releases a pending Send, then stops the loop.
func (b *broadcaster) close() {
	b.scope.Close()
	b.goes.Stop()
}
