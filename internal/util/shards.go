package util

// ShardIndex maps a 64-bit fingerprint to a shard index by straight modulo,
// matching the original cache's `hk % SHARED_QUERY_CACHE_HASH_TABLES`.
// Unlike a power-of-two masking scheme, this keeps the shard count a free
// construction parameter (default 32) without constraining it to a
// particular bit shape.
func ShardIndex(fingerprint uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	return int(fingerprint % uint64(shards))
}
