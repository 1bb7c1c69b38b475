// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/api/events"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/logdb"
	"github.com/yieldchef/chef/tx"
)

var (
	tokenAddr = chef.BytesToAddress([]byte("token"))
	alice     = chef.BytesToAddress([]byte("alice"))
	bob       = chef.BytesToAddress([]byte("bob"))
)

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func TestTransfers(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	for i := 1; i <= 4; i++ {
		sender, recipient := alice, bob
		if i%2 == 0 {
			sender, recipient = bob, alice
		}
		require.NoError(t, db.Write(&tx.Receipt{
			Seq:    uint64(i),
			Tick:   uint64(i),
			Op:     "withdraw",
			Caller: sender,
			Transfers: tx.Transfers{
				{Token: tokenAddr, Sender: sender, Recipient: recipient, Amount: big.NewInt(int64(i * 100))},
			},
		}))
	}

	router := mux.NewRouter()
	New(db, 10).Mount(router, "/logs/transfer")
	ts := httptest.NewServer(router)
	defer ts.Close()

	res, status := httpPost(t, ts.URL+"/logs/transfer", &TransferFilter{
		CriteriaSet: []*TransferCriteria{{Sender: &alice}},
	})
	require.Equal(t, http.StatusOK, status, string(res))
	var logs []*FilteredTransfer
	require.NoError(t, json.Unmarshal(res, &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, big.NewInt(100), (*big.Int)(logs[0].Amount))
	assert.Equal(t, bob, logs[0].Recipient)
	assert.Equal(t, "withdraw", logs[0].Meta.Op)

	res, status = httpPost(t, ts.URL+"/logs/transfer", &TransferFilter{Caller: &bob, Order: logdb.DESC})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(res, &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, uint64(4), logs[0].Meta.OpSeq)

	_, status = httpPost(t, ts.URL+"/logs/transfer", &TransferFilter{Options: &events.Options{Limit: 11}})
	assert.Equal(t, http.StatusForbidden, status)
}
