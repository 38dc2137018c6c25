package cache

import "time"

// cacheEnv adapts a *cache to policy.Env, mirroring the teacher pattern of
// a small hook-adapter type (shardHooks there, cacheEnv here) so the policy
// package never needs to import package cache.
//
// TotalSize/UsedPct are computed live rather than cached: the aggressive
// policy re-checks them between passes within a single tick to decide
// whether to keep escalating, so they must reflect bytes freed by earlier
// passes in that same tick.
type cacheEnv struct {
	c         *cache
	cachedNow int64
}

func (e cacheEnv) NumShards() int { return len(e.c.shards) }

// PurgeShard compares shard i's own projected yield against the cache-wide
// total, exactly as the original does (its get_data_size() reads the
// global counters from inside a per-shard method — see DESIGN.md).
func (e cacheEnv) PurgeShard(i int, now int64) (int, uint64) {
	removed, freed := e.c.shards[i].purgeSome(now, e.c.totalSize())
	e.c.opt.Metrics.Evict(removed, freed)
	return removed, freed
}

func (e cacheEnv) TotalSize() uint64 { return e.c.totalSize() }

func (e cacheEnv) UsedPct() int {
	return usedMemoryPct(e.c.totalSize(), e.c.opt.MaxMemorySize)
}

func (e cacheEnv) MinPct() int { return e.c.opt.PurgeThresholdPctMin }
func (e cacheEnv) MaxPct() int { return e.c.opt.PurgeThresholdPctMax }

func (e cacheEnv) Budget() time.Duration { return e.c.opt.PurgeTotalTime }

func (e cacheEnv) Now() int64 { return e.cachedNow }
