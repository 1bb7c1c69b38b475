// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/logdb"
	"github.com/yieldchef/chef/tx"
)

const defaultLogLimit uint64 = 10

var (
	ts           *httptest.Server
	contractAddr = chef.BytesToAddress([]byte("contract"))
	caller       = chef.BytesToAddress([]byte("caller"))
	topic0       = chef.BytesToBytes32([]byte("topic0"))
	topic1       = chef.BytesToBytes32([]byte("topic1"))
)

func TestEvents(t *testing.T) {
	initEventServer(t, 5)
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"filterAll":          filterAll,
		"filterByTopic":      filterByTopic,
		"filterByRange":      filterByRange,
		"filterDescPaginate": filterDescPaginate,
		"invalidFilters":     invalidFilters,
	} {
		t.Run(name, tt)
	}
}

func TestEventsLimit(t *testing.T) {
	initEventServer(t, 20)
	defer ts.Close()

	res, status := httpPost(t, ts.URL+"/logs/event", &EventFilter{})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(res), "please use pagination")

	res, status = httpPost(t, ts.URL+"/logs/event", &EventFilter{Options: &Options{Offset: 15, Limit: 10}})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, parseEvents(t, res), 5)
}

func initEventServer(t *testing.T, count int) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for i := 1; i <= count; i++ {
		topics := []chef.Bytes32{topic0}
		if i%2 == 0 {
			topics = append(topics, topic1)
		}
		require.NoError(t, db.Write(&tx.Receipt{
			Seq:    uint64(i),
			Tick:   uint64(i * 10),
			Op:     "deposit",
			Caller: caller,
			Events: tx.Events{{Address: contractAddr, Topics: topics, Data: []byte{byte(i)}}},
		}))
	}

	router := mux.NewRouter()
	New(db, defaultLogLimit).Mount(router, "/logs/event")
	ts = httptest.NewServer(router)
}

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

func parseEvents(t *testing.T, data []byte) []*FilteredEvent {
	var events []*FilteredEvent
	require.NoError(t, json.Unmarshal(data, &events))
	return events
}

func filterAll(t *testing.T) {
	res, status := httpPost(t, ts.URL+"/logs/event", &EventFilter{})
	require.Equal(t, http.StatusOK, status)

	events := parseEvents(t, res)
	require.Len(t, events, 5)
	assert.Equal(t, contractAddr, events[0].Address)
	assert.Equal(t, uint64(1), events[0].Meta.OpSeq)
	assert.Equal(t, "deposit", events[0].Meta.Op)
	assert.Equal(t, caller, events[0].Meta.Caller)
	assert.Equal(t, []chef.Bytes32{topic0}, events[0].Topics)
}

func filterByTopic(t *testing.T) {
	res, status := httpPost(t, ts.URL+"/logs/event", &EventFilter{
		CriteriaSet: []*EventCriteria{{Address: &contractAddr, TopicSet: TopicSet{Topic1: &topic1}}},
	})
	require.Equal(t, http.StatusOK, status)
	events := parseEvents(t, res)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(2), events[0].Meta.OpSeq)
	assert.Equal(t, uint64(4), events[1].Meta.OpSeq)
}

func filterByRange(t *testing.T) {
	from, to := uint64(20), uint64(30)
	res, status := httpPost(t, ts.URL+"/logs/event", &EventFilter{Range: &Range{From: &from, To: &to}})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, parseEvents(t, res), 2)

	res, status = httpPost(t, ts.URL+"/logs/event", &EventFilter{Range: &Range{From: &to}})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, parseEvents(t, res), 3)
}

func filterDescPaginate(t *testing.T) {
	res, status := httpPost(t, ts.URL+"/logs/event", &EventFilter{
		Order:   logdb.DESC,
		Options: &Options{Offset: 1, Limit: 2},
	})
	require.Equal(t, http.StatusOK, status)
	events := parseEvents(t, res)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(4), events[0].Meta.OpSeq)
	assert.Equal(t, uint64(3), events[1].Meta.OpSeq)
}

func invalidFilters(t *testing.T) {
	_, status := httpPost(t, ts.URL+"/logs/event", &EventFilter{Options: &Options{Limit: defaultLogLimit + 1}})
	assert.Equal(t, http.StatusForbidden, status)

	from, to := uint64(30), uint64(20)
	_, status = httpPost(t, ts.URL+"/logs/event", &EventFilter{Range: &Range{From: &from, To: &to}})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpPost(t, ts.URL+"/logs/event", &EventFilter{Order: "sideways"})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpPost(t, ts.URL+"/logs/event", map[string]any{"criteriaSet": []any{nil}})
	assert.Equal(t, http.StatusBadRequest, status)
}
