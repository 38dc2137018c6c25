//go:build cgo

// Command plugin provides the C-ABI factory functions (create_cache,
// destroy_cache) qcache's spec requires for dynamic loading by a host
// process (e.g. a C++ database proxy loading this cache as a shared
// library). It must be package main: cgo only emits a package's //export
// symbols into the generated header when that package is the c-shared
// build root. Build with:
//
//	go build -buildmode=c-shared -o libqcache.so ./plugin
//
// Go values cannot cross the cgo boundary as raw pointers safely once the
// garbage collector is involved, so the handle returned to C is an opaque
// uintptr minted by runtime/cgo.Handle, not a *cache.Cache. The host treats
// it as opaque and passes it back unchanged to destroy_cache, get, and set.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/aismail/qcache/cache"
)

//export create_cache
func create_cache() C.uintptr_t {
	c := cache.New(cache.Options{})
	return C.uintptr_t(cgo.NewHandle(c))
}

//export destroy_cache
func destroy_cache(handle C.uintptr_t) {
	h := cgo.Handle(handle)
	if c, ok := h.Value().(cache.Cache); ok {
		_ = c.Close()
	}
	h.Delete()
}

//export qcache_get
func qcache_get(handle C.uintptr_t, key *C.uchar, keyLen C.uint32_t, outLen *C.uint32_t) *C.uchar {
	c := lookupCache(handle)
	if c == nil {
		return nil
	}
	goKey := C.GoBytes(unsafe.Pointer(key), C.int(keyLen))
	v, ok := c.Get(goKey)
	if !ok {
		return nil
	}
	*outLen = C.uint32_t(len(v))
	return (*C.uchar)(C.CBytes(v))
}

//export qcache_set
func qcache_set(handle C.uintptr_t, key *C.uchar, keyLen C.uint32_t, val *C.uchar, valLen C.uint32_t, expire C.int64_t) C.int {
	c := lookupCache(handle)
	if c == nil {
		return 0
	}
	goKey := C.GoBytes(unsafe.Pointer(key), C.int(keyLen))
	goVal := C.GoBytes(unsafe.Pointer(val), C.int(valLen))
	if c.Set(goKey, goVal, int64(expire)) {
		return 1
	}
	return 0
}

//export qcache_flush
func qcache_flush(handle C.uintptr_t) C.uint64_t {
	c := lookupCache(handle)
	if c == nil {
		return 0
	}
	return C.uint64_t(c.Flush())
}

func lookupCache(handle C.uintptr_t) cache.Cache {
	h := cgo.Handle(handle)
	c, _ := h.Value().(cache.Cache)
	return c
}

// qcache_free releases a buffer returned by qcache_get (allocated via
// C.CBytes, which uses malloc under the hood).
//
//export qcache_free
func qcache_free(p *C.uchar) {
	C.free(unsafe.Pointer(p))
}

// main is required for a c-shared build root but is never executed; the
// host calls into this library only through the exported C functions
// above.
func main() {}
