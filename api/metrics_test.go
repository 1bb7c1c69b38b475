// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldchef/chef/api/tokens"
	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/ledger"
	"github.com/yieldchef/chef/lvldb"
	"github.com/yieldchef/chef/metrics"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func findMetric(family *dto.MetricFamily, labels map[string]string) *dto.Metric {
	for _, m := range family.GetMetric() {
		matched := 0
		for _, l := range m.GetLabel() {
			if v, ok := labels[l.GetName()]; ok && v == l.GetValue() {
				matched++
			}
		}
		if matched == len(labels) {
			return m
		}
	}
	return nil
}

func TestMetricsMiddleware(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	l, err := ledger.New(db, genesis.NewDevnet(), clock.NewManual(0), nil, ledger.Options{})
	require.NoError(t, err)

	router := mux.NewRouter()
	tokens.New(l).Mount(router, "/tokens")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	httpGet(t, ts.URL+"/tokens/reward")
	httpGet(t, ts.URL+"/tokens/presale")
	_, code := httpGet(t, ts.URL+"/tokens/bogus")
	assert.Equal(t, http.StatusNotFound, code)

	// unnamed routes are not recorded
	httpGet(t, ts.URL+"/metrics")

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	counter := families["chef_api_request_count"]
	require.NotNil(t, counter)

	ok := findMetric(counter, map[string]string{"name": "GET /tokens/{name}", "code": "200", "method": "GET"})
	require.NotNil(t, ok)
	assert.Equal(t, float64(2), ok.GetCounter().GetValue())

	notFound := findMetric(counter, map[string]string{"name": "GET /tokens/{name}", "code": "404", "method": "GET"})
	require.NotNil(t, notFound)
	assert.Equal(t, float64(1), notFound.GetCounter().GetValue())

	assert.Nil(t, findMetric(counter, map[string]string{"name": ""}))

	duration := families["chef_api_duration_ms"]
	require.NotNil(t, duration)
	hist := findMetric(duration, map[string]string{"name": "GET /tokens/{name}", "code": "200"})
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.GetHistogram().GetSampleCount())
}
