// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/builtin/farm"
	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/ledger"
	"github.com/yieldchef/chef/lvldb"
)

var (
	ts    *httptest.Server
	chain *ledger.Ledger
	alice = genesis.DevAccounts()[2].Address
)

func TestSubscriptions(t *testing.T) {
	initSubscriptionsServer(t)
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"testHandleSubjectWithEvent":            testHandleSubjectWithEvent,
		"testHandleSubjectWithTransfer":         testHandleSubjectWithTransfer,
		"testHandleSubjectWithReceipt":          testHandleSubjectWithReceipt,
		"testHandleSubjectWithNonValidArgument": testHandleSubjectWithNonValidArgument,
	} {
		t.Run(name, tt)
	}
}

func initSubscriptionsServer(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	chain, err = ledger.New(db, genesis.NewDevnet(), clock.NewManual(0), nil, ledger.Options{})
	require.NoError(t, err)

	router := mux.NewRouter()
	subs := New(chain, []string{"*"})
	subs.Mount(router, "/subscriptions")
	ts = httptest.NewServer(router)
	t.Cleanup(subs.Close)
}

func dial(t *testing.T, subject, rawQuery string) *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/" + subject, RawQuery: rawQuery}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)

	// Check the protocol upgrade to websocket
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Equal(t, "Upgrade", resp.Header.Get("Connection"))
	assert.Equal(t, "websocket", resp.Header.Get("Upgrade"))
	return conn
}

func deposit(t *testing.T) {
	_, _, err := chain.Deposit(0, alice, big.NewInt(1000))
	require.NoError(t, err)
}

func testHandleSubjectWithEvent(t *testing.T) {
	conn := dial(t, "event", "addr="+builtin.Farm.Address.String()+"&t0="+farm.DepositEvent.String())
	defer conn.Close()

	deposit(t)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg EventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, builtin.Farm.Address, msg.Address)
	assert.Equal(t, farm.DepositEvent, msg.Topics[0])
	assert.Equal(t, "deposit", msg.Meta.Op)
	assert.Equal(t, alice, msg.Meta.Caller)
}

func testHandleSubjectWithTransfer(t *testing.T) {
	conn := dial(t, "transfer", "sender="+alice.String())
	defer conn.Close()

	deposit(t)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg TransferMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, genesis.DevAssetA, msg.Token)
	assert.Equal(t, builtin.Farm.Address, msg.Recipient)
	assert.Equal(t, big.NewInt(1000), (*big.Int)(msg.Amount))
}

func testHandleSubjectWithReceipt(t *testing.T) {
	conn := dial(t, "receipt", "")
	defer conn.Close()

	deposit(t)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg utils.Receipt
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "deposit", msg.Op)
	assert.Equal(t, chain.OpSeq(), msg.Seq)
}

func testHandleSubjectWithNonValidArgument(t *testing.T) {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/event", RawQuery: "addr=invalid"}
	_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	u.Path = "/subscriptions/block"
	u.RawQuery = ""
	_, resp, err = websocket.DefaultDialer.Dial(u.String(), nil)
	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
