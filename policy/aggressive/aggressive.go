// Package aggressive implements the reclaim policy the original source
// leaves as an unused reservation: PurgeThresholdPctMax and
// PurgeTotalTime are defined in Standard_Query_Cache but never consulted
// by the described purge loop. This package resolves that open question by
// escalating to repeated back-to-back sweeps once usage crosses the high
// threshold, bounded by the configured time budget, instead of the single
// pass per tick that the low-threshold gate alone would produce.
package aggressive

import (
	"time"

	"github.com/aismail/qcache/policy"
)

// Policy behaves exactly like threshold.Policy below MaxPct, but once usage
// reaches MaxPct it keeps sweeping shards — without waiting for the next
// PurgeLoopTime tick — until either usage drops back under MaxPct, a full
// pass frees nothing, or Budget of wall-clock time elapses.
type Policy struct{}

// New returns the escalating reclaim policy.
func New() policy.ReclaimPolicy { return Policy{} }

// Tick runs the baseline single pass, then escalates if still over budget.
func (Policy) Tick(env policy.Env) {
	if env.UsedPct() < env.MinPct() {
		return
	}

	now := env.Now()
	for i := 0; i < env.NumShards(); i++ {
		env.PurgeShard(i, now)
	}

	if env.UsedPct() < env.MaxPct() {
		return
	}

	deadline := time.Now().Add(env.Budget())
	for env.UsedPct() >= env.MaxPct() && time.Now().Before(deadline) {
		freedAny := false
		for i := 0; i < env.NumShards(); i++ {
			if removed, _ := env.PurgeShard(i, now); removed > 0 {
				freedAny = true
			}
		}
		if !freedAny {
			// Nothing left to reclaim yet (everything resident is
			// still live and referenced); further spinning this tick
			// would just burn CPU. Wait for the next tick instead.
			break
		}
	}
}
