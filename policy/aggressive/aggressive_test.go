package aggressive

import (
	"testing"
	"time"

	"github.com/aismail/qcache/policy"
)

// --- test double ---

// fakeEnv simulates a cache whose usage decreases by dropPerPass percentage
// points after every PurgeShard call across a full shard sweep, until it
// reaches floor. This lets Tick's escalation loop observe real progress
// without a real cache behind it.
type fakeEnv struct {
	usedPct     int
	floor       int
	dropPerPass int
	minPct      int
	maxPct      int
	shards      int
	budget      time.Duration

	passes     int
	shardCalls int
}

func (e *fakeEnv) NumShards() int { return e.shards }

func (e *fakeEnv) PurgeShard(i int, now int64) (int, uint64) {
	e.shardCalls++
	if i == e.shards-1 { // last shard in the sweep: apply this pass's drop
		e.passes++
		if e.usedPct > e.floor {
			e.usedPct -= e.dropPerPass
			if e.usedPct < e.floor {
				e.usedPct = e.floor
			}
			return 1, 64
		}
	}
	return 0, 0
}

func (e *fakeEnv) TotalSize() uint64     { return 0 }
func (e *fakeEnv) UsedPct() int          { return e.usedPct }
func (e *fakeEnv) MinPct() int           { return e.minPct }
func (e *fakeEnv) MaxPct() int           { return e.maxPct }
func (e *fakeEnv) Budget() time.Duration { return e.budget }
func (e *fakeEnv) Now() int64            { return 1000 }

var _ policy.Env = (*fakeEnv)(nil)

// Below MinPct, Tick must skip entirely, exactly like threshold.Policy.
func TestAggressive_Tick_SkipsBelowMinPct(t *testing.T) {
	t.Parallel()

	e := &fakeEnv{usedPct: 1, minPct: 3, maxPct: 90, shards: 4, budget: time.Second}
	New().Tick(e)

	if e.shardCalls != 0 {
		t.Fatalf("expected no purge calls, got %d", e.shardCalls)
	}
}

// Between MinPct and MaxPct, Tick purges every shard exactly once and does
// not escalate.
func TestAggressive_Tick_SinglePassBetweenThresholds(t *testing.T) {
	t.Parallel()

	e := &fakeEnv{usedPct: 50, floor: 50, minPct: 3, maxPct: 90, shards: 4, budget: time.Second}
	New().Tick(e)

	if e.shardCalls != 4 {
		t.Fatalf("expected exactly one sweep (4 shard calls), got %d", e.shardCalls)
	}
}

// At or above MaxPct, Tick escalates: it keeps sweeping until usage drops
// back under MaxPct.
func TestAggressive_Tick_EscalatesUntilUnderMaxPct(t *testing.T) {
	t.Parallel()

	e := &fakeEnv{
		usedPct: 95, floor: 80, dropPerPass: 5,
		minPct: 3, maxPct: 90, shards: 2, budget: time.Second,
	}
	New().Tick(e)

	if e.usedPct >= e.maxPct {
		t.Fatalf("expected usage to drop below MaxPct, stayed at %d", e.usedPct)
	}
	if e.passes < 2 {
		t.Fatalf("expected the baseline pass plus at least one escalation pass, got %d passes", e.passes)
	}
}

// Escalation stops once a full pass frees nothing, even if still over
// MaxPct, to avoid spinning the reclaimer goroutine pointlessly.
func TestAggressive_Tick_StopsWhenPassFreesNothing(t *testing.T) {
	t.Parallel()

	e := &fakeEnv{
		usedPct: 95, floor: 95, dropPerPass: 0, // never actually drops
		minPct: 3, maxPct: 90, shards: 2, budget: time.Second,
	}
	New().Tick(e)

	if e.usedPct != 95 {
		t.Fatalf("usage should not have changed, got %d", e.usedPct)
	}
	// One baseline pass, plus the escalation loop's first no-op pass before
	// it detects freedAny==false and breaks.
	if e.passes > 2 {
		t.Fatalf("expected escalation to bail out quickly, got %d passes", e.passes)
	}
}
