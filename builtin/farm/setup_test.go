// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/builtin/admin"
	"github.com/yieldchef/chef/builtin/token"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/custody"
	"github.com/yieldchef/chef/lvldb"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

var (
	farmAddr    = chef.BytesToAddress([]byte("Farm"))
	rewardAddr  = chef.BytesToAddress([]byte("Reward"))
	custodyAddr = chef.BytesToAddress([]byte("Custody"))
	adminAddr   = chef.BytesToAddress([]byte("Admin"))

	owner    = chef.BytesToAddress([]byte("owner"))
	feeSink  = chef.BytesToAddress([]byte("fee-sink"))
	burnSink = chef.BytesToAddress([]byte("burn-sink"))

	alice = chef.BytesToAddress([]byte("alice"))
	bob   = chef.BytesToAddress([]byte("bob"))
	carol = chef.BytesToAddress([]byte("carol"))

	assetA = chef.BytesToAddress([]byte("asset-a"))
	assetB = chef.BytesToAddress([]byte("asset-b"))
)

type testFarm struct {
	*Farm
	state   *state.State
	journal *tx.Journal
	reward  *token.Token
	custody *custody.Ledger
	admin   *admin.Admin
}

type farmOptions struct {
	maxSupply *big.Int
	premint   *big.Int
	rate      *big.Int
	start     uint64
}

func newTestFarm(t *testing.T, opts farmOptions) *testFarm {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	if opts.maxSupply == nil {
		opts.maxSupply = new(big.Int).Lsh(big.NewInt(1), 128)
	}
	if opts.rate == nil {
		opts.rate = big.NewInt(10)
	}

	st := state.NewStater(db, 0).NewState()
	journal := tx.NewJournal()

	reward := token.New(rewardAddr, st, journal)
	require.NoError(t, reward.Initialize(&token.Meta{Name: "Reward", Symbol: "RWD", Decimals: 18}, opts.maxSupply, farmAddr, burnSink))
	if opts.premint != nil {
		require.NoError(t, reward.Premint(owner, opts.premint))
	}

	adm := admin.New(adminAddr, st, journal)
	require.NoError(t, adm.Set(owner))

	cust := custody.New(custodyAddr, farmAddr, st, journal)
	f := New(farmAddr, st, journal, reward, cust, adm)
	require.NoError(t, f.Initialize(opts.rate, opts.start, feeSink))

	for _, user := range []chef.Address{alice, bob, carol} {
		require.NoError(t, cust.Credit(assetA, user, big.NewInt(1e6)))
		require.NoError(t, cust.Credit(assetB, user, big.NewInt(1e6)))
	}
	return &testFarm{
		Farm:    f,
		state:   st,
		journal: journal,
		reward:  reward,
		custody: cust,
		admin:   adm,
	}
}

func (tf *testFarm) addPool(t *testing.T, asset chef.Address, weight uint64, feeBP uint16, tick uint64) uint64 {
	p, err := tf.AddPool(owner, asset, weight, feeBP, false, tick)
	require.NoError(t, err)
	return p.ID
}

func (tf *testFarm) rewardBalance(t *testing.T, addr chef.Address) *big.Int {
	bal, err := tf.reward.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

func (tf *testFarm) assetBalance(t *testing.T, asset, addr chef.Address) *big.Int {
	bal, err := tf.custody.BalanceOf(asset, addr)
	require.NoError(t, err)
	return bal
}

func (tf *testFarm) pending(t *testing.T, poolID uint64, user chef.Address, tick uint64) *big.Int {
	pending, err := tf.PendingRewards(poolID, user, tick)
	require.NoError(t, err)
	return pending
}
