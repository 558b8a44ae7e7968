package codec

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnsupportedAlgorithm is returned when a digest or cipher algorithm
// enum value is out of range.
var ErrUnsupportedAlgorithm = errors.New("codec: unsupported algorithm")

// ProviderError wraps a failure from the crypto provider with the
// operation that triggered it, without ever embedding the plaintext
// key, password, or digest material that produced it.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("codec: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// provider serializes every digest/cipher call behind a single
// process-wide lock. The original crypto layer this is grounded on
// (BaseLibrary/Crypto.cpp) is not re-entrant and expects exactly one
// caller inside the provider at a time; acquireProvider/release
// reproduce that with a RAII-style defer instead of explicit
// lock/unlock pairs scattered through callers.
var provider sync.Mutex

// acquireProvider takes the process-wide crypto lock and returns a
// release function. Callers should immediately `defer release()`.
func acquireProvider() func() {
	provider.Lock()
	return provider.Unlock
}
