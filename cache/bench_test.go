package cache

import (
	"context"
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// benchmarkMix exercises a read/write mix against a warm cache.
// RunParallel spawns GOMAXPROCS goroutines per iteration.
func benchmarkMix(b *testing.B, readsPct int) {
	c := New(Options{MaxMemorySize: 256 << 20})
	b.Cleanup(func() { _ = c.Close() })

	value := []byte("v")
	for i := 0; i < 50_000; i++ {
		c.Set([]byte("k:"+strconv.Itoa(i)), value, 3600)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := []byte("k:" + strconv.Itoa(i&keyMask))
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Set(k, value, 3600)
			}
			i++
		}
	})
}

func BenchmarkCache_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkCache_50r50w(b *testing.B) { benchmarkMix(b, 50) }

// benchmarkGetOrLoad measures the singleflight-coalesced hit path once an
// entry is warm; the load function never actually runs after the first call.
func benchmarkGetOrLoad(b *testing.B) {
	c := New(Options{DisableAutoReclaim: true})
	b.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	load := func(ctx context.Context) ([]byte, error) { return []byte("v"), nil }
	if _, err := c.GetOrLoad(ctx, []byte("hot"), time.Minute, load); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := c.GetOrLoad(ctx, []byte("hot"), time.Minute, load); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkCache_GetOrLoad(b *testing.B) { benchmarkGetOrLoad(b) }
