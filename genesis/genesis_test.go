// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/lvldb"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

func TestDevGenesis(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := genesis.NewDevnet()
	assert.Equal(t, "devnet", gen.Name())
	assert.False(t, gen.ID().IsZero())
	assert.Equal(t, chef.DefaultTickInterval, gen.TickInterval())

	st := state.NewStater(db, 0).NewState()
	require.NoError(t, gen.Build(st, tx.NewJournal()))
	assert.Equal(t, gen.ID(), st.Stage().Hash())
	require.NoError(t, st.Stage().Commit())

	n := builtin.Bind(state.NewStater(db, 0).NewState(), tx.NewJournal())
	accs := genesis.DevAccounts()

	admin, err := n.Admin.Get()
	require.NoError(t, err)
	assert.Equal(t, accs[0].Address, admin)

	authority, err := n.Reward.MintAuthority()
	require.NoError(t, err)
	assert.Equal(t, builtin.Farm.Address, authority)

	count, err := n.Farm.PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	em, err := n.Farm.Emission()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), em.TotalWeight)

	// cap excludes the admin premint and the redemption reserve
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(94_000_000), unit), em.EmissionCap)

	reserve, err := n.Redemption.Reserve()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(5_000_000), unit), reserve)

	bal, err := n.Custody.BalanceOf(genesis.DevAssetA, accs[9].Address)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(1_000_000), unit), bal)

	rs, err := n.Redemption.State()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(2_000_000), unit), rs.PresaleTotalSold)
}

func TestDevGenesisIDStable(t *testing.T) {
	assert.Equal(t, genesis.NewDevnet().ID(), genesis.NewDevnet().ID())
}

const customYAML = `
launchTime: 1700000000
tickInterval: 5
admin: "0x00000000000000000000000000000000000000aa"
feeSink: "0x00000000000000000000000000000000000000fe"
burnSink: "0x000000000000000000000000000000000000dead"
reward:
  name: Reward
  symbol: RWD
  decimals: 18
  maxSupply: "0x3e8"
presale:
  name: Presale
  symbol: PRE
  decimals: 18
  maxSupply: "100"
  premint:
    - address: "0x00000000000000000000000000000000000000b1"
      amount: "60"
farm:
  rewardPerTick: "10"
  startTick: 7
  pools:
    - asset: "0x00000000000000000000000000000000000000a1"
      weight: 1
      depositFeeBP: 100
redemption:
  startTick: 0
  presaleEndTick: 50
  reserve: "100"
assets:
  - asset: "0x00000000000000000000000000000000000000a1"
    holders:
      - address: "0x00000000000000000000000000000000000000b1"
        amount: "500"
`

func TestLoadCustomGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customYAML), 0o600))

	cfg, err := genesis.LoadCustomGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cfg.TickInterval)
	assert.Equal(t, big.NewInt(1000), cfg.Reward.MaxSupply.Int())
	assert.Equal(t, big.NewInt(60), cfg.Presale.Premint[0].Amount.Int())
	assert.Equal(t, chef.MustParseAddress("0x00000000000000000000000000000000000000aa"), cfg.Admin)

	gen, err := genesis.NewCustomNet(cfg)
	require.NoError(t, err)
	assert.Equal(t, "customnet", gen.Name())
	assert.Equal(t, uint64(1700000000), gen.LaunchTime())

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.NewStater(db, 0).NewState()
	require.NoError(t, gen.Build(st, tx.NewJournal()))

	n := builtin.Bind(st, tx.NewJournal())
	p, err := n.Farm.Pool(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), p.LastAccrualTick)
	assert.Equal(t, uint16(100), p.DepositFeeBP)

	em, err := n.Farm.Emission()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(900), em.EmissionCap)
}

func TestCustomNetValidation(t *testing.T) {
	_, err := genesis.NewCustomNet(&genesis.CustomGenesis{})
	assert.EqualError(t, err, "admin address required")

	cfg := genesis.DevGenesis()
	cfg.TickInterval = 0
	_, err = genesis.NewCustomNet(cfg)
	assert.EqualError(t, err, "tick interval must be positive")

	cfg = genesis.DevGenesis()
	cfg.Farm.Pools = append(cfg.Farm.Pools, cfg.Farm.Pools[0])
	_, err = genesis.NewCustomNet(cfg)
	assert.Error(t, err)
}

func TestHexOrDecimal256(t *testing.T) {
	var v genesis.HexOrDecimal256
	require.NoError(t, v.UnmarshalJSON([]byte(`"0x10"`)))
	assert.Equal(t, big.NewInt(16), v.Int())

	require.NoError(t, v.UnmarshalJSON([]byte(`42`)))
	assert.Equal(t, big.NewInt(42), v.Int())

	b, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"0x2a"`, string(b))

	assert.Error(t, v.UnmarshalText([]byte("nope")))
}
