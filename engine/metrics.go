// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/vechain/epochstake/metrics"
	"github.com/vechain/epochstake/reverts"
)

var (
	metricOperations       = metrics.LazyLoadCounterVec("operations_count", []string{"op", "outcome"})
	metricEvents           = metrics.LazyLoadCounter("events_published_count")
	metricLocked           = metrics.LazyLoadGauge("staking_locked_amount")
	metricStakeRewards     = metrics.LazyLoadGauge("staking_pending_reward")
	metricStakes           = metrics.LazyLoadGauge("staking_stakes_count")
	metricGovernors        = metrics.LazyLoadGauge("governance_governors_count")
	metricGovernancePended = metrics.LazyLoadGauge("governance_pending_reward")
	metricDampingHits      = metrics.LazyLoadGauge("reward_damping_cache_hits")
	metricDampingMisses    = metrics.LazyLoadGauge("reward_damping_cache_misses")
)

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case err == errUnchanged:
		return "unchanged"
	}
	if code := reverts.CodeOf(err); code != "" {
		return string(code)
	}
	return "error"
}

func observe(op string, err error) {
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome(err)})
}

// updateGauges must be called with mu held.
func (e *Engine) updateGauges() {
	locked, rewards := e.staking.Totals()
	metricLocked().SetBig(locked)
	metricStakeRewards().SetBig(rewards)
	metricStakes().Set(int64(e.staking.Count()))
	metricGovernors().Set(int64(e.governance.Count()))
	metricGovernancePended().SetBig(e.governance.Pending())

	changed, hits, misses := e.dampened.CacheStats()
	if changed {
		logger.Debug("damping cache stats", "hit", hits, "miss", misses)
	}
	metricDampingHits().Set(hits)
	metricDampingMisses().Set(misses)
}
