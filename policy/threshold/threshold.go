// Package threshold implements the default reclaim policy: a single sweep
// of every shard, gated by a low-memory-pressure threshold. It is the
// direct translation of the original cache's purge loop body
// (Standard_Query_Cache::purgeHash_thread): skip the tick entirely when
// usage is comfortably low, otherwise purge every shard once.
package threshold

import "github.com/aismail/qcache/policy"

// Policy is the default, non-escalating reclaim policy.
type Policy struct{}

// New returns the default threshold-gated reclaim policy.
func New() policy.ReclaimPolicy { return Policy{} }

// Tick skips the pass if usage is below MinPct; otherwise it purges every
// shard exactly once.
func (Policy) Tick(env policy.Env) {
	if env.UsedPct() < env.MinPct() {
		return
	}
	now := env.Now()
	for i := 0; i < env.NumShards(); i++ {
		env.PurgeShard(i, now)
	}
}
