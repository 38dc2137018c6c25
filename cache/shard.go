package cache

import (
	"sync"

	"github.com/aismail/qcache/internal/util"
)

// shard is one of the cache's independent partitions. Each shard owns a
// map from fingerprint to entry (for O(1) lookup) and a parallel
// insertion-ordered slice (the reclaimer's scan order, supporting O(1)
// append and O(1) remove-by-index via swap-with-last). Both structures are
// guarded by the same RWMutex; an entry is reachable from the map iff it is
// reachable from the sequence.
type shard struct {
	mu    sync.RWMutex
	index map[uint64]*entry
	seq   []*entry

	// Hot counters. Each is padded to its own cache line so that two
	// shards updating their own counters concurrently never contend on a
	// shared cache line — the per-shard analogue of the original's
	// thread-local accumulators: contention is bounded by how many
	// goroutines hash to the *same* shard, not by total concurrency.
	_          util.CacheLinePad
	cntSet     util.PaddedAtomicUint64
	cntGet     util.PaddedAtomicUint64
	cntGetOK   util.PaddedAtomicUint64
	dataIn     util.PaddedAtomicUint64
	dataOut    util.PaddedAtomicUint64
	numDeleted util.PaddedAtomicUint64
	cntPurge   util.PaddedAtomicUint64
	freed      util.PaddedAtomicUint64
	sizeValues util.PaddedAtomicInt64
	numEntries util.PaddedAtomicInt64
}

func newShard() *shard {
	return &shard{
		index: make(map[uint64]*entry),
	}
}

// replace inserts newEntry under fingerprint, superseding and marking
// DROPIT any entry previously indexed there. The shard's own reference
// (ref_count = 1) is established here; the caller never holds a borrow on
// the entry it just inserted.
func (s *shard) replace(fingerprint uint64, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.refCount.Store(1)
	s.seq = append(s.seq, e)

	if old, ok := s.index[fingerprint]; ok {
		old.expire.Store(dropit)
		old.refCount.Add(-1)
		delete(s.index, fingerprint)
	}
	s.index[fingerprint] = e

	s.cntSet.Add(1)
	s.sizeValues.Add(int64(e.length))
	s.dataIn.Add(uint64(e.length))
	s.numEntries.Add(1)
}

// lookup returns a borrowed reference to the entry indexed under
// fingerprint, if any, with its ref_count already incremented. The caller
// must call release once it is done reading the entry (after copying out
// whatever it needs — the shard's lock is released before the caller
// reads anything from the entry).
func (s *shard) lookup(fingerprint uint64) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.index[fingerprint]
	if !ok {
		s.cntGet.Add(1)
		return nil, false
	}
	e.refCount.Add(1)
	s.cntGet.Add(1)
	s.cntGetOK.Add(1)
	s.dataOut.Add(uint64(e.length))
	return e, true
}

// release ends a borrow started by lookup. No lock is required: refCount
// is atomic and release only ever decrements it.
func (s *shard) release(e *entry) {
	e.refCount.Add(-1)
}

// count returns the number of indexed (live) entries.
func (s *shard) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

// dataSize approximates this shard's resident memory: per-entry overhead
// for every entry not yet reclaimed by purgeSome (indexed ones, plus
// superseded or flushed ones still in the sequence), plus the sum of their
// value lengths.
func (s *shard) dataSize() uint64 {
	n := s.numEntries.Load()
	if n < 0 {
		n = 0
	}
	v := s.sizeValues.Load()
	if v < 0 {
		v = 0
	}
	return uint64(n)*entryOverhead + uint64(v)
}

// empty marks every indexed entry DROPIT and clears the map. Entries
// remain in the sequence — and therefore remain valid for any reader that
// is mid-borrow — until purgeSome reclaims them.
func (s *shard) empty() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.index)
	for _, e := range s.index {
		e.expire.Store(dropit)
	}
	s.index = make(map[uint64]*entry)
	return n
}

// purgeSome is the reclaimer's per-shard sweep. It first estimates, under
// a shared lock, how much would be freed by evicting everything currently
// expired; if that projected yield is not worth the cost of an exclusive
// lock (more than ~1% of totalSize), it returns without purging anything.
// Otherwise it re-walks the sequence under the exclusive lock and removes
// every expired entry whose ref_count is not held by any other reader.
func (s *shard) purgeSome(now int64, totalSize uint64) (removed int, freedBytes uint64) {
	s.mu.RLock()
	var evictableCount int
	var evictableBytes uint64
	for _, e := range s.seq {
		if e.expired(now) {
			evictableCount++
			evictableBytes += uint64(e.length)
		}
	}
	s.mu.RUnlock()

	projected := evictableBytes + uint64(evictableCount)*entryOverhead
	if totalSize == 0 || float64(projected) <= float64(totalSize)*0.01 {
		return 0, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < len(s.seq); {
		e := s.seq[i]
		if e.expired(now) && e.refCount.Load() <= 1 {
			last := len(s.seq) - 1
			s.seq[i] = s.seq[last]
			s.seq[last] = nil
			s.seq = s.seq[:last]

			if cur, ok := s.index[e.key]; ok && cur == e {
				delete(s.index, e.key)
			}

			freedBytes += uint64(e.length)
			removed++
			continue // s.seq[i] now holds the swapped-in element
		}
		i++
	}

	if removed > 0 {
		s.numDeleted.Add(uint64(removed))
		s.numEntries.Add(-int64(removed))
		s.sizeValues.Add(-int64(freedBytes))
		s.cntPurge.Add(uint64(removed))
		s.freed.Add(freedBytes)
	}
	return removed, freedBytes
}
