package cache

import (
	"context"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// A mixed workload of concurrent Get/Set/Flush on random keys, some
// expiring fast enough to overlap with the background reclaimer.
// Should pass under `-race` without detector reports.
func TestRace_Basic(t *testing.T) {
	c := New(Options{
		ShardCount:    32,
		PurgeLoopTime: 5 * time.Millisecond,
	})
	t.Cleanup(func() { _ = c.Close() })

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 5000
	deadline := time.Now().Add(500 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := []byte("k:" + strconv.Itoa(r.Intn(keyspace)))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% — Flush
					c.Flush()
				case 5, 6, 7, 8, 9, 10, 11, 12, 13, 14: // ~10% — short TTL Set
					c.Set(k, []byte("x"), 0)
				default: // ~85% — mostly-live Set/Get mix
					if r.Intn(2) == 0 {
						c.Set(k, []byte("x"), 60)
					} else {
						c.Get(k)
					}
				}
			}
		}(w)
	}
	wg.Wait()
}

// One hundred goroutines call GetOrLoad on the same key concurrently.
// The loader should run at most once (singleflight coalescing).
func TestRace_GetOrLoad(t *testing.T) {
	var calls int64

	c := New(Options{DisableAutoReclaim: true})
	t.Cleanup(func() { _ = c.Close() })

	load := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(2 * time.Millisecond)
		return []byte("v"), nil
	}

	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			_, err := c.GetOrLoad(context.Background(), []byte("hot"), time.Minute, load)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if n := atomic.LoadInt64(&calls); n != 1 {
		t.Fatalf("loader should run once, ran %d times", n)
	}
}

// Readers holding a borrow while the reclaimer concurrently purges expired
// entries must never observe a torn or freed value.
func TestRace_ReaderAgainstReclaimer(t *testing.T) {
	c := New(Options{
		ShardCount:           1,
		PurgeLoopTime:        time.Millisecond,
		PurgeThresholdPctMin: 0,
		MaxMemorySize:        1, // force the reclaimer to always consider itself over budget
	})
	t.Cleanup(func() { _ = c.Close() })

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		for {
			select {
			case <-stop:
				return
			default:
				c.Set([]byte("k"), []byte("v"), int64(i%2))
				i++
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		deadline := time.Now().Add(200 * time.Millisecond)
		for time.Now().Before(deadline) {
			c.Get([]byte("k"))
		}
	}()

	time.Sleep(200 * time.Millisecond)
	close(stop)
	wg.Wait()
}
