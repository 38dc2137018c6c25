package cache

import (
	"context"
	"time"
)

// Cache is a sharded, in-memory, TTL-driven key/value cache. All methods
// are safe for concurrent use by multiple goroutines.
type Cache interface {
	// Get returns a fresh copy of the value stored under key, and true, if
	// present and not expired. A miss (absent, expired, or an allocation
	// failure while copying) returns (nil, false); it is never an error.
	Get(key []byte) ([]byte, bool)

	// Set stores value under key with the given expire argument: values
	// greater than HashExpireMax are treated as an absolute Unix deadline,
	// everything else as a relative number of seconds from now. Set always
	// succeeds barring allocation failure, in which case it returns false
	// and the cache is left unchanged.
	Set(key, value []byte, expire int64) bool

	// GetOrLoad returns the cached value for key if present and fresh;
	// otherwise it calls load to produce one, storing the result with ttl
	// before returning it. Concurrent GetOrLoad calls for the same key
	// that miss at the same time are coalesced: load runs at most once,
	// and all callers observe its result. A non-positive ttl means the
	// loaded value never expires on its own.
	GetOrLoad(ctx context.Context, key []byte, ttl time.Duration, load func(ctx context.Context) ([]byte, error)) ([]byte, error)

	// Flush evicts every entry across all shards and returns the number
	// of entries that were indexed immediately beforehand. Entries are
	// marked DROPIT and unindexed right away; their backing memory is
	// reclaimed by the next purge pass that observes ref_count <= 1.
	Flush() int

	// Stats returns a snapshot of the cache's counters, aggregated across
	// shards. It is safe to call concurrently with any other operation.
	Stats() Stats

	// ShardCounts returns the number of live entries in each shard, in
	// shard-index order. Diagnostic only: used to observe how evenly keys
	// spread across shards under a given hash and keyspace.
	ShardCounts() []int

	// PurgeLoop runs the reclaimer: it wakes on PurgeLoopTime, consults
	// memory pressure, and may sweep every shard for expired entries. It
	// blocks until ctx is cancelled. New starts one as a background
	// goroutine automatically unless Options.DisableAutoReclaim is set,
	// in which case a host may call PurgeLoop itself.
	PurgeLoop(ctx context.Context) error

	// PrintVersion writes a version banner to the diagnostic stream.
	// Diagnostic only; not part of the operational contract.
	PrintVersion()

	// Area is a non-functional diagnostic probe inherited from the
	// original cache's base-class interface; it carries no operational
	// meaning and exists only so reimplementations stay interface-compatible
	// with tooling written against the original's virtual method table.
	Area() float64

	// Close marks the cache closed and stops its background reclaimer (if
	// any was started by New). Subsequent Get/Set/GetOrLoad become no-ops
	// returning a miss/false/ErrClosed respectively. Close does not wait
	// for outstanding read borrows to be released; callers must ensure
	// none are outstanding before dropping the last reference to the
	// cache, per the cache's resource-lifetime contract.
	Close() error
}
