//go:build go1.18

package cache

import (
	"strings"
	"testing"
)

// Fuzz basic Set/Get round-trip semantics under arbitrary byte inputs.
// Guards against panics and ensures a fresh Set is always immediately
// readable back unchanged.
func FuzzCache_SetGetRoundTrip(f *testing.F) {
	f.Add("", "")
	f.Add("a", "1")
	f.Add("select 1", "[[1]]")
	f.Add("αβγ", "δ")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c := New(Options{DisableAutoReclaim: true})
		t.Cleanup(func() { _ = c.Close() })

		if !c.Set([]byte(k), []byte(v), 60) {
			t.Fatalf("Set must succeed")
		}
		got, ok := c.Get([]byte(k))
		if !ok || string(got) != v {
			t.Fatalf("after Set/Get: want %q, got %q ok=%v", v, got, ok)
		}

		// Replacing under the same key must not leak the old value.
		if !c.Set([]byte(k), []byte(v+"x"), 60) {
			t.Fatalf("replacing Set must succeed")
		}
		got2, ok := c.Get([]byte(k))
		if !ok || string(got2) != v+"x" {
			t.Fatalf("after replace: want %q, got %q ok=%v", v+"x", got2, ok)
		}
	})
}
