package threshold

import (
	"testing"
	"time"

	"github.com/aismail/qcache/policy"
)

// --- test double ---

type fakeEnv struct {
	usedPct      int
	minPct       int
	maxPct       int
	shards       int
	purgeCalls   []int
	removedEach  int
}

func (e *fakeEnv) NumShards() int { return e.shards }
func (e *fakeEnv) PurgeShard(i int, now int64) (int, uint64) {
	e.purgeCalls = append(e.purgeCalls, i)
	return e.removedEach, uint64(e.removedEach) * 64
}
func (e *fakeEnv) TotalSize() uint64     { return 0 }
func (e *fakeEnv) UsedPct() int          { return e.usedPct }
func (e *fakeEnv) MinPct() int           { return e.minPct }
func (e *fakeEnv) MaxPct() int           { return e.maxPct }
func (e *fakeEnv) Budget() time.Duration { return time.Second }
func (e *fakeEnv) Now() int64            { return 1000 }

var _ policy.Env = (*fakeEnv)(nil)

// Below MinPct, Tick must skip the pass entirely.
func TestThreshold_Tick_SkipsBelowMinPct(t *testing.T) {
	t.Parallel()

	e := &fakeEnv{usedPct: 1, minPct: 3, shards: 4}
	New().Tick(e)

	if len(e.purgeCalls) != 0 {
		t.Fatalf("expected no purge calls, got %v", e.purgeCalls)
	}
}

// At or above MinPct, Tick must purge every shard exactly once.
func TestThreshold_Tick_PurgesEveryShardOnce(t *testing.T) {
	t.Parallel()

	e := &fakeEnv{usedPct: 10, minPct: 3, shards: 4}
	New().Tick(e)

	if len(e.purgeCalls) != 4 {
		t.Fatalf("expected 4 purge calls, got %d (%v)", len(e.purgeCalls), e.purgeCalls)
	}
	for i, shard := range e.purgeCalls {
		if shard != i {
			t.Fatalf("expected shards purged in order, got %v", e.purgeCalls)
		}
	}
}
