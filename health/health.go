// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

const delayBuffer = 5 * time.Second

type TickProgress struct {
	Tick       uint64     `json:"tick"`
	OpSeq      uint64     `json:"opSeq"`
	AdvancedAt *time.Time `json:"advancedAt"`
}

type Status struct {
	Healthy     bool          `json:"healthy"`
	Progress    *TickProgress `json:"progress"`
	LedgerReady bool          `json:"ledgerReady"`
}

// Health tracks whether the ledger is open and its clock keeps advancing.
type Health struct {
	lock         sync.RWMutex
	tickInterval time.Duration
	tick         uint64
	opSeq        uint64
	advancedAt   time.Time
	ledgerReady  bool
}

// New creates a Health. A zero tickInterval means ticks are advanced on demand
// and their freshness is not checked.
func New(tickInterval time.Duration) *Health {
	return &Health{tickInterval: tickInterval}
}

// Observe records the current tick and op sequence of the ledger.
func (h *Health) Observe(tick, opSeq uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if tick != h.tick || h.advancedAt.IsZero() {
		h.tick = tick
		h.advancedAt = time.Now()
	}
	h.opSeq = opSeq
}

func (h *Health) LedgerReady(ready bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.ledgerReady = ready
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	advancedAt := h.advancedAt
	healthy := h.ledgerReady
	if h.tickInterval > 0 {
		healthy = healthy && time.Since(advancedAt) <= h.tickInterval+delayBuffer
	}

	return &Status{
		Healthy: healthy,
		Progress: &TickProgress{
			Tick:       h.tick,
			OpSeq:      h.opSeq,
			AdvancedAt: &advancedAt,
		},
		LedgerReady: h.ledgerReady,
	}
}
