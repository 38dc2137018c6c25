package cache

import "sync/atomic"

// dropit is the sentinel expire value meaning "logically removed, reclaim
// ASAP", matching the original cache's EXPIRE_DROPIT.
const dropit int64 = 0

// entryOverhead is the approximate per-entry bookkeeping cost (struct
// header, map slot, sequence slot) added to an entry's value length when
// estimating resident memory. It is a constant approximation, not an exact
// accounting — see the cache's Non-goals: memory accounting converges
// under steady state, it is never byte-exact.
const entryOverhead uint64 = 64

// entry is a single cached value. Once created and indexed, only expire,
// access, and refCount ever change; value, length, and key are immutable
// for the entry's lifetime.
//
// expire and access are atomic because a reader may observe them after the
// shard's lock has been released (Cache.Get copies the value outside the
// lock, holding only a reference via refCount); refCount is atomic because
// multiple concurrent readers under the shard's shared lock each increment
// it independently.
type entry struct {
	key    uint64
	value  []byte
	length uint32

	expire atomic.Int64 // unix seconds, or dropit
	access atomic.Int64 // unix seconds of last successful read

	// refCount counts the shard's own reference (1 while indexed) plus one
	// per in-flight reader holding a borrow between lookup and release.
	// An entry is only eligible for collection once ref_count <= 1 and it
	// has been unindexed (removed from both map and sequence).
	refCount atomic.Int32
}

func newEntry(fingerprint uint64, value []byte, expire int64, now int64) *entry {
	e := &entry{
		key:    fingerprint,
		value:  value,
		length: uint32(len(value)),
	}
	e.expire.Store(expire)
	e.access.Store(now)
	return e
}

// expired reports whether the entry must not be returned to readers: either
// explicitly dropped (DROPIT) or past its deadline as of now.
func (e *entry) expired(now int64) bool {
	exp := e.expire.Load()
	return exp == dropit || exp <= now
}
