// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"flag"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/ledger"
	"github.com/yieldchef/chef/lvldb"
)

func TestGenesisActionRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "devnet")

	set := flag.NewFlagSet("genesis", flag.ContinueOnError)
	set.String(outputFlag.Name, "", "")
	require.NoError(t, set.Set(outputFlag.Name, out))
	require.NoError(t, genesisAction(cli.NewContext(cli.NewApp(), set, nil)))

	gen, err := genesis.LoadCustomGenesis(out + ".yaml")
	require.NoError(t, err)

	custom, err := genesis.NewCustomNet(gen)
	require.NoError(t, err)
	assert.Equal(t, genesis.NewDevnet().ID(), custom.ID())
}

func TestResumeTick(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	manual := clock.NewManual(0)
	l, err := ledger.New(db, genesis.NewDevnet(), manual, nil, ledger.Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), resumeTick(l))

	manual.Set(42)
	_, _, err = l.Deposit(0, genesis.DevAccounts()[2].Address, big.NewInt(1000))
	require.NoError(t, err)

	reopened, err := ledger.New(db, genesis.NewDevnet(), clock.NewManual(0), nil, ledger.Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), resumeTick(reopened))
}
