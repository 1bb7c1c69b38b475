// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/ledger"
	"github.com/yieldchef/chef/lvldb"
)

var (
	ts    *httptest.Server
	clk   *clock.Manual
	owner = genesis.DevAccounts()[0].Address
	alice = genesis.DevAccounts()[2].Address
	unit  = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

func units(n int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).Mul(big.NewInt(n), unit))
}

func TestFarm(t *testing.T) {
	initFarmServer(t)
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"getPools":          getPools,
		"getMissingPool":    getMissingPool,
		"depositAndHarvest": depositAndHarvest,
		"adminOperations":   adminOperations,
		"invalidRequests":   invalidRequests,
		"builtinPrincipal":  builtinPrincipal,
	} {
		t.Run(name, tt)
	}
}

func initFarmServer(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clk = clock.NewManual(0)
	l, err := ledger.New(db, genesis.NewDevnet(), clk, nil, ledger.Options{})
	require.NoError(t, err)

	router := mux.NewRouter()
	New(l).Mount(router, "/farm")
	ts = httptest.NewServer(router)
}

func httpDo(t *testing.T, method, path string, body any) ([]byte, int) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func getPools(t *testing.T) {
	res, status := httpDo(t, http.MethodGet, "/farm/pools", nil)
	require.Equal(t, http.StatusOK, status)

	var pools []*Pool
	require.NoError(t, json.Unmarshal(res, &pools))
	require.True(t, len(pools) >= 2)
	assert.Equal(t, genesis.DevAssetA, pools[0].Asset)
	assert.Equal(t, uint64(600), pools[0].Weight)
	assert.Equal(t, uint16(400), pools[1].DepositFeeBP)
}

func getMissingPool(t *testing.T) {
	_, status := httpDo(t, http.MethodGet, "/farm/pools/99", nil)
	assert.Equal(t, http.StatusNotFound, status)

	_, status = httpDo(t, http.MethodGet, "/farm/pools/99/positions/"+alice.String(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func depositAndHarvest(t *testing.T) {
	res, status := httpDo(t, http.MethodPost, "/farm/pools/1/deposit", &StakeRequest{User: alice, Amount: units(100)})
	require.Equal(t, http.StatusOK, status, string(res))

	var deposit DepositResult
	require.NoError(t, json.Unmarshal(res, &deposit))
	assert.Equal(t, units(96), deposit.Net)
	assert.Equal(t, "deposit", deposit.Receipt.Op)

	start := clk.CurrentTick()
	clk.Advance(12)

	res, status = httpDo(t, http.MethodGet, "/farm/pools/1/positions/"+alice.String(), nil)
	require.Equal(t, http.StatusOK, status)
	var pos Position
	require.NoError(t, json.Unmarshal(res, &pos))
	assert.Equal(t, units(96), pos.Amount)
	assert.Equal(t, start+12, pos.Tick)
	assert.True(t, (*big.Int)(pos.Pending).Sign() > 0)

	res, status = httpDo(t, http.MethodPost, "/farm/claim", &UserRequest{User: alice})
	require.Equal(t, http.StatusOK, status, string(res))
	var claim ClaimResult
	require.NoError(t, json.Unmarshal(res, &claim))
	require.Len(t, claim.Outcomes, 1)
	assert.Equal(t, pos.Pending, claim.Outcomes[0].Amount)
	assert.Empty(t, claim.Outcomes[0].Error)

	res, status = httpDo(t, http.MethodPost, "/farm/pools/1/withdraw", &StakeRequest{User: alice, Amount: units(1000)})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(res), "withdraw amount exceeds staked amount")

	res, status = httpDo(t, http.MethodPost, "/farm/pools/1/emergency-withdraw", &UserRequest{User: alice})
	require.Equal(t, http.StatusOK, status, string(res))
	var ew EmergencyWithdrawResult
	require.NoError(t, json.Unmarshal(res, &ew))
	assert.Equal(t, units(96), ew.Amount)
}

func adminOperations(t *testing.T) {
	asset := chef.BytesToAddress([]byte("api-asset"))

	_, status := httpDo(t, http.MethodPost, "/farm/pools", &AddPoolRequest{Caller: alice, Asset: asset, Weight: 1})
	assert.Equal(t, http.StatusForbidden, status)

	res, status := httpDo(t, http.MethodPost, "/farm/pools", &AddPoolRequest{Caller: owner, Asset: asset, Weight: 1, WithUpdate: true})
	require.Equal(t, http.StatusOK, status, string(res))
	var added PoolResult
	require.NoError(t, json.Unmarshal(res, &added))
	assert.Equal(t, asset, added.Pool.Asset)

	_, status = httpDo(t, http.MethodPost, "/farm/pools", &AddPoolRequest{Caller: owner, Asset: asset, Weight: 1})
	assert.Equal(t, http.StatusBadRequest, status)

	res, status = httpDo(t, http.MethodPut, "/farm/pools/2", &SetPoolRequest{Caller: owner, Weight: 5, DepositFeeBP: 401})
	require.Equal(t, http.StatusOK, status, string(res))

	_, status = httpDo(t, http.MethodPut, "/farm/pools/2", &SetPoolRequest{Caller: owner, Weight: 5, DepositFeeBP: 402})
	assert.Equal(t, http.StatusBadRequest, status)

	res, status = httpDo(t, http.MethodPost, "/farm/emission/rate", &RateRequest{Caller: owner, RewardPerTick: units(5)})
	require.Equal(t, http.StatusOK, status, string(res))

	_, status = httpDo(t, http.MethodPost, "/farm/pools/update", &CallerRequest{Caller: owner})
	assert.Equal(t, http.StatusOK, status)

	res, status = httpDo(t, http.MethodGet, "/farm/emission", nil)
	require.Equal(t, http.StatusOK, status)
	var em Emission
	require.NoError(t, json.Unmarshal(res, &em))
	assert.Equal(t, units(5), em.RewardPerTick)
	assert.Equal(t, uint64(1005), em.TotalWeight)
	assert.Nil(t, em.EmissionEndTick)

	res, status = httpDo(t, http.MethodGet, "/farm/admin", nil)
	require.Equal(t, http.StatusOK, status)
	var admin map[string]chef.Address
	require.NoError(t, json.Unmarshal(res, &admin))
	assert.Equal(t, owner, admin["admin"])
}

func builtinPrincipal(t *testing.T) {
	res, status := httpDo(t, http.MethodPost, "/farm/pools/0/deposit", &StakeRequest{User: builtin.Farm.Address, Amount: units(1)})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(res), "builtin principal cannot stake")
}

func invalidRequests(t *testing.T) {
	_, status := httpDo(t, http.MethodPost, "/farm/pools/0/deposit", utils.M{"user": alice, "unknown": 1})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpDo(t, http.MethodGet, "/farm/pools/0/positions/nope", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpDo(t, http.MethodPost, "/farm/emission/rate", &CallerRequest{Caller: owner})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStoreFailureIsInternalError(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	l, err := ledger.New(db, genesis.NewDevnet(), clock.NewManual(0), nil, ledger.Options{})
	require.NoError(t, err)
	defer l.Close()

	router := mux.NewRouter()
	New(l).Mount(router, "/farm")
	srv := httptest.NewServer(router)
	defer srv.Close()

	require.NoError(t, db.Close())

	for _, path := range []string{"/farm/emission", "/farm/admin", "/farm/pools/0"} {
		res, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode, path)
	}
}
