// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"sync/atomic"
	"time"
)

// Source supplies the current tick. Ticks never go backwards.
type Source interface {
	CurrentTick() uint64
}

// Manual is a clock advanced explicitly, for tests and the solo node.
type Manual struct {
	tick atomic.Uint64
}

// NewManual creates a manual clock at tick.
func NewManual(tick uint64) *Manual {
	m := &Manual{}
	m.tick.Store(tick)
	return m
}

func (m *Manual) CurrentTick() uint64 {
	return m.tick.Load()
}

// Advance moves the clock n ticks forward and returns the new tick.
func (m *Manual) Advance(n uint64) uint64 {
	return m.tick.Add(n)
}

// Set moves the clock to tick. Going backwards is ignored.
func (m *Manual) Set(tick uint64) uint64 {
	for {
		cur := m.tick.Load()
		if tick <= cur {
			return cur
		}
		if m.tick.CompareAndSwap(cur, tick) {
			return tick
		}
	}
}

// Interval derives ticks from wall time: one tick per interval since the
// genesis timestamp, like block numbers.
type Interval struct {
	genesis  time.Time
	interval time.Duration
	now      func() time.Time
	last     atomic.Uint64
}

// NewInterval creates an interval clock.
func NewInterval(genesis time.Time, interval time.Duration) *Interval {
	if interval <= 0 {
		interval = time.Second
	}
	return &Interval{genesis: genesis, interval: interval, now: time.Now}
}

// CurrentTick returns the tick of the wall time, never less than a tick
// returned before, so a clock stepped backwards holds the tick.
func (c *Interval) CurrentTick() uint64 {
	var tick uint64
	if elapsed := c.now().Sub(c.genesis); elapsed > 0 {
		tick = uint64(elapsed / c.interval)
	}
	for {
		last := c.last.Load()
		if tick <= last {
			return last
		}
		if c.last.CompareAndSwap(last, tick) {
			return tick
		}
	}
}

// Interval returns the tick length.
func (c *Interval) Interval() time.Duration {
	return c.interval
}
