// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/lossless-cash/lossless-go/metrics"

var (
	metricCalls        = metrics.LazyLoadCounterVec("runtime_calls_count", []string{"op", "result"})
	metricCallDuration = metrics.LazyLoadHistogramVec("runtime_call_duration_ms", []string{"op"}, metrics.BucketHTTPReqs)
	metricReports      = metrics.LazyLoadCounterVec("reports_closed_count", []string{"status"})
	metricEvents       = metrics.LazyLoadCounter("events_committed_count")
)
