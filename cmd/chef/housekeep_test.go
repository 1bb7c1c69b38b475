// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/co"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/health"
	"github.com/yieldchef/chef/ledger"
	"github.com/yieldchef/chef/lvldb"
)

func TestAdvanceTicks(t *testing.T) {
	manual := clock.NewManual(0)

	var goes co.Goes
	goes.GoCtx(func(ctx context.Context) {
		advanceTicks(ctx, manual, 5*time.Millisecond)
	})

	assert.Eventually(t, func() bool { return manual.CurrentTick() >= 3 }, time.Second, time.Millisecond)
	goes.Stop()

	stopped := manual.CurrentTick()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, manual.CurrentTick())
}

func TestHouseKeepingObservesLedger(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	manual := clock.NewManual(7)
	l, err := ledger.New(db, genesis.NewDevnet(), manual, nil, ledger.Options{})
	require.NoError(t, err)

	h := health.New(0)
	h.LedgerReady(true)

	var goes co.Goes
	goes.GoCtx(func(ctx context.Context) {
		houseKeeping(ctx, l, h, time.Second, false)
	})
	defer goes.Stop()

	assert.Eventually(t, func() bool { return h.Status().Progress.Tick == 7 }, time.Second, time.Millisecond)
	assert.True(t, h.Status().Healthy)
}
