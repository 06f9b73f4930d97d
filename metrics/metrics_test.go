// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

// The tests share the process wide registry and must run in order.
func TestMetrics(t *testing.T) {
	t.Run("noop", func(t *testing.T) {
		metrics = defaultNoopMetrics()

		for _, m := range []any{
			Counter("noop_counter"),
			CounterVec("noop_counter_vec", nil),
			Gauge("noop_gauge"),
			HistogramVec("noop_hist", nil, nil),
		} {
			require.IsType(t, &noopMeters{}, m)
		}
		Counter("noop_counter").Add(1)
		Gauge("noop_gauge").SetBig(big.NewInt(1))
		CounterVec("noop_counter_vec", []string{"op"}).AddWithLabel(1, map[string]string{"nonsense": "ok"})

		server := httptest.NewServer(HTTPHandler())
		t.Cleanup(server.Close)
		resp, err := http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("lazy", func(t *testing.T) {
		metrics = defaultNoopMetrics()
		lazyCounter := LazyLoadCounter("lazy_counter")
		lazyCounterVec := LazyLoadCounterVec("lazy_counter_vec", nil)
		lazyGauge := LazyLoadGauge("lazy_gauge")
		lazyHist := LazyLoadHistogramVec("lazy_hist", nil, nil)

		InitializePrometheusMetrics()

		require.IsType(t, &promCountMeter{}, lazyCounter())
		require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
		require.IsType(t, &promGaugeMeter{}, lazyGauge())
		require.IsType(t, &promHistogramVecMeter{}, lazyHist())
		assert.Same(t, lazyCounter(), lazyCounter())
	})

	t.Run("prometheus", func(t *testing.T) {
		InitializePrometheusMetrics()

		ops := CounterVec("ops_count", []string{"op", "outcome"})
		total := 0
		for i := range 10 {
			ops.AddWithLabel(int64(i), map[string]string{"op": "stake", "outcome": strconv.Itoa(i % 2)})
			total += i
		}
		Counter("events_count").Add(3)

		locked := Gauge("locked")
		locked.SetBig(new(big.Int).Exp(big.NewInt(10), big.NewInt(25), nil))
		Gauge("count").Set(7)

		hist := HistogramVec("duration_ms", []string{"route"}, BucketHTTPReqs)
		hist.ObserveWithLabels(5, map[string]string{"route": "a"})
		hist.ObserveWithLabels(15, map[string]string{"route": "b"})

		families := gather(t)
		sum := families["epochstake_ops_count"].Metric[0].GetCounter().GetValue() +
			families["epochstake_ops_count"].Metric[1].GetCounter().GetValue()
		assert.Equal(t, float64(total), sum)
		assert.Equal(t, float64(3), families["epochstake_events_count"].Metric[0].GetCounter().GetValue())
		assert.Equal(t, 1e25, families["epochstake_locked"].Metric[0].GetGauge().GetValue())
		assert.Equal(t, float64(7), families["epochstake_count"].Metric[0].GetGauge().GetValue())
		hsum := families["epochstake_duration_ms"].Metric[0].GetHistogram().GetSampleSum() +
			families["epochstake_duration_ms"].Metric[1].GetHistogram().GetSampleSum()
		assert.Equal(t, float64(20), hsum)

		server := httptest.NewServer(HTTPHandler())
		t.Cleanup(server.Close)
		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
