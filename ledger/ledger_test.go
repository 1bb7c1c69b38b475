// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/builtin/farm"
	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/logdb"
	"github.com/yieldchef/chef/lvldb"
	"github.com/yieldchef/chef/tx"
)

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), unit)
}

type testLedger struct {
	*Ledger
	clock *clock.Manual
	accs  []genesis.DevAccount
}

func newTestLedger(t *testing.T) *testLedger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	clk := clock.NewManual(0)
	l, err := New(db, genesis.NewDevnet(), clk, logDB, Options{CacheSize: 128})
	require.NoError(t, err)
	t.Cleanup(l.Close)

	return &testLedger{l, clk, genesis.DevAccounts()}
}

func TestDepositAndHarvest(t *testing.T) {
	l := newTestLedger(t)
	alice := l.accs[2].Address

	net, receipt, err := l.Deposit(0, alice, units(100))
	require.NoError(t, err)
	assert.Equal(t, units(100), net)
	assert.Equal(t, uint64(1), receipt.Seq)
	assert.Equal(t, OpDeposit, receipt.Op)
	assert.Equal(t, alice, receipt.Caller)

	l.clock.Advance(10)
	// 10 ticks * 10 units * 600/1000
	pending, err := l.PendingRewards(0, alice)
	require.NoError(t, err)
	assert.Equal(t, units(60), pending)

	_, err = l.Withdraw(0, alice, big.NewInt(0))
	require.NoError(t, err)

	bal, err := l.RewardBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, units(60), bal)
	assert.Equal(t, uint64(2), l.OpSeq())

	em, err := l.Emission()
	require.NoError(t, err)
	assert.Equal(t, units(60), em.MintedTotal)
}

func TestRevertDiscardsChanges(t *testing.T) {
	l := newTestLedger(t)
	alice := l.accs[2].Address

	_, err := l.Withdraw(0, alice, units(1))
	assert.True(t, reverts.Is(err, reverts.InsufficientStake))
	assert.Equal(t, uint64(0), l.OpSeq())

	_, _, err = l.Deposit(7, alice, units(1))
	assert.True(t, reverts.Is(err, reverts.PoolNotFound))

	// the fee is 400bp, the whole deposit must still be undone on failure
	_, _, err = l.Deposit(1, alice, units(2_000_000))
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))

	p, err := l.Pool(1)
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalStaked.Sign())
}

func TestAdminOperations(t *testing.T) {
	l := newTestLedger(t)
	owner := l.accs[0].Address
	bob := l.accs[3].Address

	asset := chef.BytesToAddress([]byte("asset-c"))
	_, _, err := l.AddPool(bob, asset, 100, 0, false)
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	p, _, err := l.AddPool(owner, asset, 100, 0, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), p.ID)

	p, _, err = l.SetPool(owner, 2, 0, 10, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.Weight)
	assert.Equal(t, uint16(10), p.DepositFeeBP)

	_, err = l.SetEmissionRate(owner, units(1))
	require.NoError(t, err)
	_, err = l.MassUpdatePools(owner)
	require.NoError(t, err)

	em, err := l.Emission()
	require.NoError(t, err)
	assert.Equal(t, units(1), em.RewardPerTick)
	// two genesis pools, then three admin mutations
	assert.Equal(t, uint64(5), em.Version)

	_, err = l.TransferAdmin(owner, bob)
	require.NoError(t, err)
	_, err = l.MassUpdatePools(owner)
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	_, err = l.MassUpdatePools(bob)
	assert.NoError(t, err)
}

func TestClaimAllAndEmergency(t *testing.T) {
	l := newTestLedger(t)
	alice := l.accs[2].Address

	_, _, err := l.Deposit(0, alice, units(100))
	require.NoError(t, err)
	_, _, err = l.Deposit(1, alice, units(100))
	require.NoError(t, err)

	l.clock.Advance(5)
	outcomes, receipt, err := l.ClaimAll(alice)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
	}
	assert.Equal(t, units(30), outcomes[0].Amount)
	// 96 staked after the 400bp fee, the accumulator rounds down
	acc := new(big.Int).Div(new(big.Int).Mul(units(20), big.NewInt(1e12)), units(96))
	want := new(big.Int).Div(new(big.Int).Mul(units(96), acc), big.NewInt(1e12))
	assert.Equal(t, want, outcomes[1].Amount)
	assert.NotEmpty(t, receipt.Transfers)

	amount, _, err := l.EmergencyWithdraw(1, alice)
	require.NoError(t, err)
	assert.Equal(t, units(96), amount)

	pos, err := l.Position(1, alice)
	require.NoError(t, err)
	assert.True(t, pos.IsEmpty())
}

func TestRedemption(t *testing.T) {
	l := newTestLedger(t)
	buyer := l.accs[2].Address

	_, err := l.Swap(buyer, units(10))
	require.NoError(t, err)

	bal, err := l.RewardBalance(buyer)
	require.NoError(t, err)
	assert.Equal(t, units(10), bal)

	_, _, err = l.SweepUnsold(buyer)
	assert.True(t, reverts.Is(err, reverts.TooEarly))

	l.clock.Set(28800)
	burned, _, err := l.SweepUnsold(buyer)
	require.NoError(t, err)
	// 5M presale cap, 2M preminted to two dev accounts
	assert.Equal(t, units(3_000_000), burned)
}

func TestReceiptsAreIndexedAndPublished(t *testing.T) {
	l := newTestLedger(t)
	alice := l.accs[2].Address

	ch := make(chan *tx.Receipt, 1)
	sub := l.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	_, receipt, err := l.Deposit(1, alice, units(100))
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, receipt, got)
	case <-time.After(time.Second):
		t.Fatal("receipt not published")
	}

	events, err := l.LogDB().FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{
			Address: &builtin.Farm.Address,
			Topics:  [5]*chef.Bytes32{&farm.DepositEvent},
		}},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, OpDeposit, events[0].Op)
	assert.Equal(t, uint64(1), events[0].OpSeq)

	// asset pull, fee push
	transfers, err := l.LogDB().FilterTransfers(context.Background(), &logdb.TransferFilter{
		Caller: &alice,
	})
	require.NoError(t, err)
	assert.Len(t, transfers, 2)
}

func TestStalledSubscriberDoesNotBlockLedger(t *testing.T) {
	l := newTestLedger(t)
	alice := l.accs[2].Address

	stalled := make(chan *tx.Receipt, 1)
	sub := l.SubscribeReceipts(stalled)
	defer sub.Unsubscribe()

	ordered := make(chan *tx.Receipt, 8)
	sub2 := l.SubscribeReceipts(ordered)
	defer sub2.Unsubscribe()

	done := make(chan error, 1)
	go func() {
		for range 3 {
			l.clock.Advance(1)
			if _, _, err := l.Deposit(1, alice, units(10)); err != nil {
				done <- err
				return
			}
		}
		_, err := l.PendingRewards(1, alice)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("ledger blocked by a subscriber that does not read")
	}
	assert.Equal(t, uint64(3), l.OpSeq())

	// the first receipt fills the stalled channel, the second is pending in Send
	select {
	case got := <-ordered:
		assert.Equal(t, uint64(1), got.Seq)
	case <-time.After(time.Second):
		t.Fatal("receipt not published")
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.db")

	db, err := lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	clk := clock.NewManual(0)
	l, err := New(db, genesis.NewDevnet(), clk, nil, Options{})
	require.NoError(t, err)

	alice := genesis.DevAccounts()[2].Address
	_, _, err = l.Deposit(0, alice, units(100))
	require.NoError(t, err)
	l.Close()
	require.NoError(t, db.Close())

	db, err = lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()

	l, err = New(db, genesis.NewDevnet(), clk, nil, Options{})
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, uint64(1), l.OpSeq())
	assert.Equal(t, genesis.NewDevnet().ID(), l.GenesisID())

	pos, err := l.Position(0, alice)
	require.NoError(t, err)
	assert.Equal(t, units(100), pos.Amount)

	other := genesis.DevGenesis()
	other.TickInterval = 10
	gen, err := genesis.NewCustomNet(other)
	require.NoError(t, err)
	_, err = New(db, gen, clk, nil, Options{})
	assert.ErrorIs(t, err, ErrGenesisMismatch)
}
