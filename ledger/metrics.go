// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/yieldchef/chef/metrics"

var (
	metricOpCount    = metrics.LazyLoadCounterVec("ledger_op_count", []string{"op", "status"})
	metricOpDuration = metrics.LazyLoadHistogramVec("ledger_op_duration_us", []string{"op"}, metrics.BucketOpLatency)
	metricMinted     = metrics.LazyLoadGauge("farm_minted_total_nano")
)
