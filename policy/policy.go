// Package policy defines the pluggable reclaim-gating contract used by the
// cache's background reclaimer. It mirrors the shape of a classic
// eviction-policy abstraction (a factory-free Strategy interface plus a
// narrow Env of hooks the strategy is allowed to call) but answers a
// different question: not "which entry to evict" (the cache is strictly
// TTL-driven, never LRU/LFU) but "how hard should this tick sweep".
package policy

import "time"

// Env exposes what a ReclaimPolicy needs to drive one reclaimer tick,
// without the policy package importing package cache (which would create
// an import cycle, since cache.Options references policy.ReclaimPolicy).
type Env interface {
	// NumShards returns the number of independent shards.
	NumShards() int

	// PurgeShard runs one purge_some pass over shard i for the given
	// cached "now", returning the entries removed and bytes freed.
	PurgeShard(i int, now int64) (removed int, freedBytes uint64)

	// TotalSize returns the cache-wide approximate resident size in bytes
	// (live entry overhead plus value bytes), summed across shards.
	TotalSize() uint64

	// UsedPct returns current_used_memory_pct, clamped to [0, 100].
	UsedPct() int

	// MinPct and MaxPct are PurgeThresholdPctMin/Max from Options.
	MinPct() int
	MaxPct() int

	// Budget is PurgeTotalTime from Options: the wall-clock allowance for
	// an aggressive, multi-pass reclaim within a single tick.
	Budget() time.Duration

	// Now returns the reclaimer's cached "now" for this tick (unix seconds).
	Now() int64
}

// ReclaimPolicy decides whether, and how aggressively, a reclaimer tick
// sweeps shards for expired entries. Tick is called once per reclaimer
// wakeup (every Options.PurgeLoopTime).
type ReclaimPolicy interface {
	Tick(env Env)
}
