// Command bench runs a synthetic get/set workload against qcache and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aismail/qcache/cache"
	pmet "github.com/aismail/qcache/metrics/prom"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		maxMemory = flag.Uint64("max-memory", cache.DefaultMaxMemorySize, "MaxMemorySize in bytes")
		shards    = flag.Int("shards", cache.DefaultShardCount, "number of shards")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys      = flag.Int("keys", 1_000_000, "keyspace size")
		valueSize = flag.Int("value-size", 128, "value size in bytes")
		ttl       = flag.Duration("ttl", 30*time.Second, "per-entry TTL")
		preload   = flag.Int("preload", 0, "preload entries (0 = keys/4)")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		metricsAddr = flag.String("metrics-addr", "", "if set, serve /metrics and /debug/pprof on this address")
	)
	flag.Parse()

	var metrics cache.Metrics = cache.NoopMetrics{}
	if *metricsAddr != "" {
		adapter := pmet.New(nil, "qcache", "bench", nil)
		metrics = adapter
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("serving metrics on %s", *metricsAddr)
			log.Println(http.ListenAndServe(*metricsAddr, nil))
		}()
	}

	c := cache.New(cache.Options{
		MaxMemorySize: *maxMemory,
		ShardCount:    *shards,
		Metrics:       metrics,
	})
	defer c.Close()

	value := make([]byte, *valueSize)

	n := *preload
	if n == 0 {
		n = *keys / 4
	}
	for i := 0; i < n; i++ {
		c.Set(keyBytes(i), value, int64(ttl.Seconds()))
	}

	var ops int64
	var hits int64
	deadline := time.Now().Add(*duration)

	var wg sync.WaitGroup
	wg.Add(*workers)
	for w := 0; w < *workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(*seed + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := keyBytes(r.Intn(*keys))
				if r.Intn(100) < *readPct {
					if _, ok := c.Get(k); ok {
						atomic.AddInt64(&hits, 1)
					}
				} else {
					c.Set(k, value, int64(ttl.Seconds()))
				}
				atomic.AddInt64(&ops, 1)
			}
		}(w)
	}
	wg.Wait()

	elapsed := *duration
	st := c.Stats()
	fmt.Printf("ops=%d (%.0f ops/s) hits=%d\n", ops, float64(ops)/elapsed.Seconds(), hits)
	fmt.Printf("entries=%d size_values=%d used_pct=%d purged=%d freed=%d\n",
		st.NumEntries, st.SizeValues, st.UsedMemoryPct, st.CntPurge, st.TotalFreedMemory)
}

func keyBytes(i int) []byte {
	return []byte("bench:" + strconv.Itoa(i))
}
