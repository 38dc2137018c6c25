package cache

// errString is a lightweight sentinel error, avoiding a dependency on the
// standard errors package for two constant strings.
type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrClosed is returned by GetOrLoad (and, where applicable, by
	// operations that take a context) once the cache has been closed.
	ErrClosed = errString("qcache: cache is closed")

	// ErrNoLoader is returned by GetOrLoad when no load function is
	// supplied and the key is absent or expired.
	ErrNoLoader = errString("qcache: no loader provided")
)
