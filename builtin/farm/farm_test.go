// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/tx"
)

func lastEvent(t *testing.T, journal *tx.Journal, sig chef.Bytes32) *tx.Event {
	events := journal.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Topics[0] == sig {
			return events[i]
		}
	}
	t.Fatalf("no %s event", EventNames[sig])
	return nil
}

func TestPendingSplitByWeightAndStake(t *testing.T) {
	tf := newTestFarm(t, farmOptions{rate: new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18))})
	poolA := tf.addPool(t, assetA, 600, 0, 0)
	tf.addPool(t, assetB, 400, 0, 0)

	_, err := tf.Deposit(poolA, alice, big.NewInt(200), 0)
	require.NoError(t, err)
	_, err = tf.Deposit(poolA, bob, big.NewInt(800), 0)
	require.NoError(t, err)

	// 10 * 0.6 * 0.2 = 1.2 units
	assert.Equal(t, big.NewInt(1.2e18), tf.pending(t, poolA, alice, 1))
	assert.Equal(t, big.NewInt(4.8e18), tf.pending(t, poolA, bob, 1))

	supply, err := tf.reward.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, 0, supply.Sign(), "pending must not mint")

	require.NoError(t, tf.Withdraw(poolA, alice, big.NewInt(0), 1))
	assert.Equal(t, big.NewInt(1.2e18), tf.rewardBalance(t, alice))
	assert.Equal(t, 0, tf.pending(t, poolA, alice, 1).Sign())

	ev := lastEvent(t, tf.journal, HarvestEvent)
	assert.Equal(t, chef.BytesToBytes32(alice.Bytes()), ev.Topics[1])
	var data AmountData
	require.NoError(t, rlp.DecodeBytes(ev.Data, &data))
	assert.Equal(t, big.NewInt(1.2e18), data.Amount)
}

func TestDepositFee(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	id := tf.addPool(t, assetA, 1, 401, 0)

	net, err := tf.Deposit(id, alice, big.NewInt(1000), 0)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(960), net)

	pos, err := tf.Position(id, alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(960), pos.Amount)

	p, err := tf.Pool(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(960), p.TotalStaked)

	assert.Equal(t, big.NewInt(40), tf.assetBalance(t, assetA, feeSink))
	assert.Equal(t, big.NewInt(960), tf.assetBalance(t, assetA, farmAddr))
	assert.Equal(t, big.NewInt(1e6-1000), tf.assetBalance(t, assetA, alice))

	var data DepositData
	require.NoError(t, rlp.DecodeBytes(lastEvent(t, tf.journal, DepositEvent).Data, &data))
	assert.Equal(t, big.NewInt(960), data.Net)
	assert.Equal(t, big.NewInt(40), data.Fee)
}

func TestEmissionClampsAtCap(t *testing.T) {
	tf := newTestFarm(t, farmOptions{maxSupply: big.NewInt(25), rate: big.NewInt(10)})
	id := tf.addPool(t, assetA, 1, 0, 0)
	_, err := tf.Deposit(id, alice, big.NewInt(1000), 0)
	require.NoError(t, err)

	require.NoError(t, tf.MassUpdatePools(owner, 2))
	em, err := tf.Emission()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), em.MintedTotal)
	assert.True(t, em.Open())

	// gross reward is 10, only 5 is left
	require.NoError(t, tf.MassUpdatePools(owner, 3))
	em, err = tf.Emission()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(25), em.MintedTotal)
	assert.Equal(t, uint64(3), em.EmissionEndTick)
	assert.False(t, em.Open())

	require.NoError(t, tf.MassUpdatePools(owner, 10))
	supply, err := tf.reward.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(25), supply)
	assert.Equal(t, big.NewInt(25), tf.pending(t, id, alice, 20))

	require.NoError(t, tf.Withdraw(id, alice, big.NewInt(1000), 20))
	assert.Equal(t, big.NewInt(25), tf.rewardBalance(t, alice))
	assert.Equal(t, big.NewInt(1e6), tf.assetBalance(t, assetA, alice))
}

func TestEmissionCapCountsPremint(t *testing.T) {
	tf := newTestFarm(t, farmOptions{maxSupply: big.NewInt(100), premint: big.NewInt(90), rate: big.NewInt(4)})
	id := tf.addPool(t, assetA, 1, 0, 0)
	_, err := tf.Deposit(id, alice, big.NewInt(10), 0)
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(10), tf.pending(t, id, alice, 5))
	require.NoError(t, tf.Withdraw(id, alice, big.NewInt(0), 5))

	em, err := tf.Emission()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), em.MintedTotal)
	assert.Equal(t, uint64(5), em.EmissionEndTick)
	assert.Equal(t, big.NewInt(10), tf.rewardBalance(t, alice))
}

func TestEmergencyWithdrawForfeitsRewards(t *testing.T) {
	tf := newTestFarm(t, farmOptions{rate: big.NewInt(50)})
	id := tf.addPool(t, assetA, 1, 0, 0)
	_, err := tf.Deposit(id, alice, big.NewInt(500), 0)
	require.NoError(t, err)
	require.NoError(t, tf.MassUpdatePools(owner, 1))
	assert.Equal(t, big.NewInt(50), tf.pending(t, id, alice, 1))

	returned, err := tf.EmergencyWithdraw(id, alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), returned)

	pos, err := tf.Position(id, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.Amount.Sign())
	assert.Equal(t, 0, pos.RewardDebt.Sign())
	assert.Equal(t, big.NewInt(1e6), tf.assetBalance(t, assetA, alice))
	assert.Equal(t, 0, tf.rewardBalance(t, alice).Sign())
	assert.Equal(t, 0, tf.pending(t, id, alice, 5).Sign())

	p, err := tf.Pool(id)
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalStaked.Sign())

	var data EmergencyWithdrawData
	require.NoError(t, rlp.DecodeBytes(lastEvent(t, tf.journal, EmergencyWithdrawEvent).Data, &data))
	assert.Equal(t, big.NewInt(500), data.Amount)
	assert.Equal(t, big.NewInt(50), data.Forfeited)

	// a new episode starts clean
	_, err = tf.Deposit(id, alice, big.NewInt(100), 5)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), tf.pending(t, id, alice, 7))
}

func TestEmergencyWithdrawWithEmptyVault(t *testing.T) {
	tf := newTestFarm(t, farmOptions{rate: big.NewInt(50)})
	id := tf.addPool(t, assetA, 1, 0, 0)
	_, err := tf.Deposit(id, alice, big.NewInt(500), 0)
	require.NoError(t, err)
	require.NoError(t, tf.MassUpdatePools(owner, 3))
	require.NoError(t, tf.reward.Transfer(farmAddr, carol, tf.rewardBalance(t, farmAddr)))

	returned, err := tf.EmergencyWithdraw(id, alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), returned)

	returned, err = tf.EmergencyWithdraw(id, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, returned.Sign())
}

func TestNoStakersNoMint(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	id := tf.addPool(t, assetA, 1, 0, 0)

	require.NoError(t, tf.MassUpdatePools(owner, 100))
	supply, err := tf.reward.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, 0, supply.Sign())

	p, err := tf.Pool(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), p.LastAccrualTick)
	assert.Equal(t, 0, p.AccRewardPerShare.Sign())

	// the idle period is not paid to a late staker
	_, err = tf.Deposit(id, alice, big.NewInt(10), 100)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), tf.pending(t, id, alice, 101))
}

func TestAccrueIdempotent(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	id := tf.addPool(t, assetA, 1, 0, 0)
	_, err := tf.Deposit(id, alice, big.NewInt(3), 0)
	require.NoError(t, err)

	require.NoError(t, tf.MassUpdatePools(owner, 5))
	first, err := tf.Pool(id)
	require.NoError(t, err)
	require.NoError(t, tf.MassUpdatePools(owner, 5))
	second, err := tf.Pool(id)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// an older tick never rewinds the pool
	require.NoError(t, tf.MassUpdatePools(owner, 2))
	third, err := tf.Pool(id)
	require.NoError(t, err)
	assert.Equal(t, first, third)

	supply, err := tf.reward.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), supply)
}

func TestFarmStartTick(t *testing.T) {
	tf := newTestFarm(t, farmOptions{start: 10})
	id := tf.addPool(t, assetA, 1, 0, 0)

	p, err := tf.Pool(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), p.LastAccrualTick)

	_, err = tf.Deposit(id, alice, big.NewInt(10), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, tf.pending(t, id, alice, 5).Sign())
	assert.Equal(t, 0, tf.pending(t, id, alice, 10).Sign())
	assert.Equal(t, big.NewInt(20), tf.pending(t, id, alice, 12))
}

func TestSetEmissionRateClosesOldRate(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	id := tf.addPool(t, assetA, 1, 0, 0)
	_, err := tf.Deposit(id, alice, big.NewInt(1000), 0)
	require.NoError(t, err)

	require.NoError(t, tf.SetEmissionRate(owner, big.NewInt(20), 5))
	assert.Equal(t, big.NewInt(50), tf.pending(t, id, alice, 5))
	assert.Equal(t, big.NewInt(90), tf.pending(t, id, alice, 7))

	em, err := tf.Emission()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), em.RewardPerTick)
	assert.Equal(t, uint64(2), em.Version)

	var data RateData
	require.NoError(t, rlp.DecodeBytes(lastEvent(t, tf.journal, EmissionRateChangedEvent).Data, &data))
	assert.Equal(t, big.NewInt(10), data.Previous)
	assert.Equal(t, big.NewInt(20), data.Next)

	err = tf.SetEmissionRate(owner, big.NewInt(-1), 8)
	assert.True(t, reverts.Is(err, reverts.InvalidAmount))
}

func TestSetPoolAccruesUnderOldWeight(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	poolA := tf.addPool(t, assetA, 1, 0, 0)
	tf.addPool(t, assetB, 1, 0, 0)
	_, err := tf.Deposit(poolA, alice, big.NewInt(1000), 0)
	require.NoError(t, err)

	p, err := tf.SetPool(owner, poolA, 3, 100, false, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), p.Weight)
	assert.Equal(t, uint16(100), p.DepositFeeBP)
	assert.Equal(t, big.NewInt(20), tf.pending(t, poolA, alice, 4))
	// 20 + 2 ticks * 10 * 3/4
	assert.Equal(t, big.NewInt(35), tf.pending(t, poolA, alice, 6))

	em, err := tf.Emission()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), em.TotalWeight)
}

func TestAdminErrors(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	id := tf.addPool(t, assetA, 1, 0, 0)

	_, err := tf.AddPool(alice, assetB, 1, 0, false, 0)
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	_, err = tf.AddPool(owner, assetB, 1, 402, false, 0)
	assert.True(t, reverts.Is(err, reverts.InvalidFee))

	_, err = tf.AddPool(owner, assetA, 1, 0, false, 0)
	assert.True(t, reverts.Is(err, reverts.DuplicateAsset))

	_, err = tf.SetPool(owner, 9, 1, 0, false, 0)
	assert.True(t, reverts.Is(err, reverts.PoolNotFound))

	_, err = tf.SetPool(owner, id, 1, 500, false, 0)
	assert.True(t, reverts.Is(err, reverts.InvalidFee))

	_, err = tf.SetPool(bob, id, 1, 0, false, 0)
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	assert.True(t, reverts.Is(tf.SetEmissionRate(alice, big.NewInt(1), 0), reverts.Unauthorized))
	assert.True(t, reverts.Is(tf.MassUpdatePools(alice, 0), reverts.Unauthorized))

	n, err := tf.PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	found, ok, err := tf.PoolByAsset(assetA)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, found.ID)
}

func TestStakeErrors(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	id := tf.addPool(t, assetA, 1, 0, 0)

	_, err := tf.Deposit(7, alice, big.NewInt(1), 0)
	assert.True(t, reverts.Is(err, reverts.PoolNotFound))

	_, err = tf.Deposit(id, alice, big.NewInt(-1), 0)
	assert.True(t, reverts.Is(err, reverts.InvalidAmount))

	_, err = tf.Deposit(id, alice, big.NewInt(2e6), 0)
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))

	_, err = tf.Deposit(id, alice, big.NewInt(100), 0)
	require.NoError(t, err)

	err = tf.Withdraw(id, alice, big.NewInt(101), 1)
	assert.True(t, reverts.Is(err, reverts.InsufficientStake))
	assert.Equal(t, "withdraw amount exceeds staked amount", err.Error())

	err = tf.Withdraw(id, bob, big.NewInt(1), 1)
	assert.True(t, reverts.Is(err, reverts.InsufficientStake))

	_, err = tf.EmergencyWithdraw(3, alice)
	assert.True(t, reverts.Is(err, reverts.PoolNotFound))
}

func TestBuiltinPrincipalCannotStake(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	id := tf.addPool(t, assetA, 1, 401, 0)

	_, err := tf.Deposit(id, alice, big.NewInt(1000), 0)
	require.NoError(t, err)

	for _, addr := range []chef.Address{farmAddr, rewardAddr} {
		_, err = tf.Deposit(id, addr, big.NewInt(10000), 1)
		assert.True(t, reverts.Is(err, reverts.Unauthorized), addr.String())
		err = tf.Withdraw(id, addr, big.NewInt(0), 1)
		assert.True(t, reverts.Is(err, reverts.Unauthorized), addr.String())
		_, err = tf.EmergencyWithdraw(id, addr)
		assert.True(t, reverts.Is(err, reverts.Unauthorized), addr.String())
		_, err = tf.ClaimAll(addr, 1)
		assert.True(t, reverts.Is(err, reverts.Unauthorized), addr.String())
	}

	p, err := tf.Pool(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(960), p.TotalStaked)
	assert.Equal(t, big.NewInt(960), tf.assetBalance(t, assetA, farmAddr))
	assert.Equal(t, big.NewInt(40), tf.assetBalance(t, assetA, feeSink))

	require.NoError(t, tf.Withdraw(id, alice, big.NewInt(960), 2))
	assert.Equal(t, big.NewInt(1e6-40), tf.assetBalance(t, assetA, alice))
}

func TestWithdrawReturnsPrincipal(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	id := tf.addPool(t, assetA, 1, 0, 0)
	_, err := tf.Deposit(id, alice, big.NewInt(300), 0)
	require.NoError(t, err)
	_, err = tf.Deposit(id, bob, big.NewInt(100), 0)
	require.NoError(t, err)

	require.NoError(t, tf.Withdraw(id, alice, big.NewInt(300), 4))
	assert.Equal(t, big.NewInt(30), tf.rewardBalance(t, alice))
	assert.Equal(t, big.NewInt(1e6), tf.assetBalance(t, assetA, alice))

	// bob keeps earning alone
	assert.Equal(t, big.NewInt(10+20), tf.pending(t, id, bob, 6))

	// the emptied position is kept with zero amount and debt
	pos, err := tf.Position(id, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.Amount.Sign())
	assert.Equal(t, 0, pos.RewardDebt.Sign())
}

func TestSettlementDeferred(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	id := tf.addPool(t, assetA, 1, 0, 0)
	_, err := tf.Deposit(id, alice, big.NewInt(1000), 0)
	require.NoError(t, err)

	require.NoError(t, tf.MassUpdatePools(owner, 3))
	require.NoError(t, tf.reward.Transfer(farmAddr, carol, big.NewInt(30)))

	require.NoError(t, tf.Withdraw(id, alice, big.NewInt(500), 3))
	assert.Equal(t, big.NewInt(1e6-500), tf.assetBalance(t, assetA, alice))
	assert.Equal(t, 0, tf.rewardBalance(t, alice).Sign())

	pos, err := tf.Position(id, alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), pos.Owed)
	assert.Equal(t, big.NewInt(500), pos.Amount)
	assert.Equal(t, big.NewInt(30), tf.pending(t, id, alice, 3))

	var data AmountData
	require.NoError(t, rlp.DecodeBytes(lastEvent(t, tf.journal, SettlementDeferredEvent).Data, &data))
	assert.Equal(t, big.NewInt(30), data.Amount)

	require.NoError(t, tf.reward.Transfer(carol, farmAddr, big.NewInt(30)))
	require.NoError(t, tf.Withdraw(id, alice, big.NewInt(0), 4))
	assert.Equal(t, big.NewInt(40), tf.rewardBalance(t, alice))

	pos, err = tf.Position(id, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.Owed.Sign())
}

func TestClaimAllIsBestEffort(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	poolA := tf.addPool(t, assetA, 1, 0, 0)
	poolB := tf.addPool(t, assetB, 1, 0, 0)
	_, err := tf.Deposit(poolA, alice, big.NewInt(100), 0)
	require.NoError(t, err)
	_, err = tf.Deposit(poolB, alice, big.NewInt(100), 0)
	require.NoError(t, err)

	_, err = tf.SetPool(owner, poolA, 0, 0, true, 5)
	require.NoError(t, err)
	// two more ticks at this rate overflow 256 bits
	require.NoError(t, tf.SetEmissionRate(owner, new(big.Int).Lsh(big.NewInt(1), 255), 5))

	outcomes, err := tf.ClaimAll(alice, 7)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, poolA, outcomes[0].PoolID)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, big.NewInt(25), outcomes[0].Amount)

	assert.Equal(t, poolB, outcomes[1].PoolID)
	assert.True(t, reverts.Is(outcomes[1].Err, reverts.ArithmeticOverflow))

	assert.Equal(t, big.NewInt(25), tf.rewardBalance(t, alice))
	p, err := tf.Pool(poolB)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), p.LastAccrualTick)
}

func TestClaimAllSkipsEmptyPositions(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	tf.addPool(t, assetA, 1, 0, 0)
	poolB := tf.addPool(t, assetB, 1, 0, 0)
	_, err := tf.Deposit(poolB, bob, big.NewInt(100), 0)
	require.NoError(t, err)

	outcomes, err := tf.ClaimAll(bob, 4)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, poolB, outcomes[0].PoolID)
	assert.Equal(t, big.NewInt(20), outcomes[0].Amount)

	outcomes, err = tf.ClaimAll(carol, 4)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestAddPoolWithUpdate(t *testing.T) {
	tf := newTestFarm(t, farmOptions{})
	poolA := tf.addPool(t, assetA, 1, 0, 0)
	_, err := tf.Deposit(poolA, alice, big.NewInt(10), 0)
	require.NoError(t, err)

	_, err = tf.AddPool(owner, assetB, 1, 0, true, 4)
	require.NoError(t, err)
	// 4 ticks alone, then half of the emission
	assert.Equal(t, big.NewInt(40+5), tf.pending(t, poolA, alice, 5))

	var data PoolData
	require.NoError(t, rlp.DecodeBytes(lastEvent(t, tf.journal, PoolAddedEvent).Data, &data))
	assert.Equal(t, assetB, data.Asset)
}
