package cache

import (
	"time"

	"github.com/aismail/qcache/policy"
	"github.com/aismail/qcache/policy/threshold"
	"github.com/cespare/xxhash/v2"
)

// Defaults mirror Standard_Query_Cache's DEFAULT_* macros.
const (
	DefaultShardCount           = 32
	DefaultMaxMemorySize        = 4 << 20 // 4 MiB
	DefaultPurgeLoopTime        = 500 * time.Millisecond
	DefaultPurgeTotalTime       = 10 * time.Second
	DefaultPurgeThresholdPctMin = 3
	DefaultPurgeThresholdPctMax = 90
)

// HashExpireMax is the boundary (ten years, in seconds) above which a
// caller's expire argument to Set is interpreted as an absolute Unix
// deadline rather than a relative duration.
const HashExpireMax int64 = 3600 * 24 * 365 * 10

// farFutureDeadline is the absolute Unix deadline GetOrLoad uses for a
// non-positive ttl. It must exceed HashExpireMax by enough to read as an
// absolute timestamp far beyond any real wall-clock "now", not merely
// exceed the threshold by a small margin (a value only just above
// HashExpireMax is itself a valid, already-past Unix timestamp).
const farFutureDeadline int64 = HashExpireMax * 100

// Clock provides the cache's notion of "now" in Unix seconds. The default
// is time.Now; tests substitute a fake clock for deterministic TTL checks.
type Clock interface{ NowUnix() int64 }

type systemClock struct{}

func (systemClock) NowUnix() int64 { return time.Now().Unix() }

// Options configures a Cache. The zero value is not directly usable for
// every field (Hash and Policy would be nil), but New fills in every
// documented default, so Options{} is a safe way to get a cache with
// defaults throughout.
type Options struct {
	// MaxMemorySize is the ceiling the reclaimer measures usage against.
	// It is advisory, not enforced synchronously on Set: the cache is
	// TTL-driven, so it can briefly exceed this between reclaimer ticks.
	MaxMemorySize uint64

	// ShardCount is the number of independent shards. Defaults to 32,
	// matching the original's SHARED_QUERY_CACHE_HASH_TABLES.
	ShardCount int

	// PurgeLoopTime is the reclaimer's sleep interval between ticks.
	PurgeLoopTime time.Duration
	// PurgeTotalTime bounds the aggressive policy's multi-pass escalation
	// within a single tick; reserved (unused) by the default policy.
	PurgeTotalTime time.Duration

	// PurgeThresholdPctMin gates whether a tick purges at all: below this
	// percentage of MaxMemorySize in use, the tick is skipped entirely.
	PurgeThresholdPctMin int
	// PurgeThresholdPctMax is consulted only by policy/aggressive; the
	// default policy never reads it.
	PurgeThresholdPctMax int

	// Hash fingerprints a raw key to the 64-bit value the cache actually
	// stores and indexes by. Defaults to xxhash. Two distinct raw keys
	// that hash identically are treated as the same logical key — this
	// is a documented design choice, not a defect.
	Hash func([]byte) uint64

	// Policy decides how aggressively the reclaimer sweeps on a given
	// tick. Defaults to threshold.New() (single sweep, gated on
	// PurgeThresholdPctMin). See policy/aggressive for the two-threshold
	// escalating alternative.
	Policy policy.ReclaimPolicy

	// Clock overrides the time source; nil uses time.Now.
	Clock Clock

	// Metrics receives live Hit/Miss/Set/Evict/Size signals. Defaults to
	// NoopMetrics; plug metrics/prom.Adapter to export Prometheus metrics.
	Metrics Metrics

	// DisableAutoReclaim prevents New from starting the background
	// reclaimer goroutine. Set this when a host wants to drive
	// Cache.PurgeLoop itself (e.g. under its own supervisor, or as the
	// cgo plugin's dedicated purge thread).
	DisableAutoReclaim bool
}

func (o *Options) setDefaults() {
	if o.MaxMemorySize == 0 {
		o.MaxMemorySize = DefaultMaxMemorySize
	}
	if o.ShardCount <= 0 {
		o.ShardCount = DefaultShardCount
	}
	if o.PurgeLoopTime <= 0 {
		o.PurgeLoopTime = DefaultPurgeLoopTime
	}
	if o.PurgeTotalTime <= 0 {
		o.PurgeTotalTime = DefaultPurgeTotalTime
	}
	if o.PurgeThresholdPctMin <= 0 {
		o.PurgeThresholdPctMin = DefaultPurgeThresholdPctMin
	}
	if o.PurgeThresholdPctMax <= 0 {
		o.PurgeThresholdPctMax = DefaultPurgeThresholdPctMax
	}
	if o.Hash == nil {
		o.Hash = xxhash.Sum64
	}
	if o.Policy == nil {
		o.Policy = threshold.New()
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
}

func (o *Options) now() int64 {
	if o.Clock != nil {
		return o.Clock.NowUnix()
	}
	return systemClock{}.NowUnix()
}

// deadline converts the caller's expire argument per spec: values beyond
// HashExpireMax are absolute Unix timestamps, everything else is a
// relative number of seconds added to now.
func (o *Options) deadline(now int64, expireArg int64) int64 {
	if expireArg > HashExpireMax {
		return expireArg
	}
	return now + expireArg
}
