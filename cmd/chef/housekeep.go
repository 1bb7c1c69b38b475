// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/health"
	"github.com/yieldchef/chef/ledger"
)

const ntpServer = "pool.ntp.org"

// houseKeeping feeds the health tracker and, when clockSync is set, warns
// about local clock drift since ticks are derived from wall time.
func houseKeeping(ctx context.Context, l *ledger.Ledger, h *health.Health, tickInterval time.Duration, clockSync bool) {
	logger.Debug("enter house keeping")

	observeTicker := time.NewTicker(time.Second)
	clockSyncTicker := time.NewTicker(10 * time.Minute)

	defer func() {
		logger.Debug("leave house keeping")
		observeTicker.Stop()
		clockSyncTicker.Stop()
	}()

	h.Observe(l.Tick(), l.OpSeq())
	if clockSync {
		go checkClockOffset(tickInterval)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-observeTicker.C:
			h.Observe(l.Tick(), l.OpSeq())
		case <-clockSyncTicker.C:
			if clockSync {
				go checkClockOffset(tickInterval)
			}
		}
	}
}

func checkClockOffset(tickInterval time.Duration) {
	resp, err := ntp.Query(ntpServer)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > tickInterval/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

// advanceTicks moves the solo clock forward by one tick per interval.
func advanceTicks(ctx context.Context, manual *clock.Manual, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick := manual.Advance(1)
			logger.Trace("tick advanced", "tick", tick)
		}
	}
}
