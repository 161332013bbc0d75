package fieldmap

import (
	"reflect"
	"sync"
)

var (
	registry   = make(map[reflect.Type]any)
	registryMu sync.RWMutex
)

// Use returns the cached Binding for R, deriving it on first use.
// Derivation errors are not cached.
func Use[R any]() (*Binding[R], error) {
	typ := reflect.TypeFor[R]()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[typ]; ok {
		registryMu.RUnlock()
		return cached.(*Binding[R]), nil
	}
	registryMu.RUnlock()

	// Slow path: derive and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[typ]; ok {
		return cached.(*Binding[R]), nil
	}

	b, err := Derive[R]()
	if err != nil {
		return nil, err
	}

	registry[typ] = b
	return b, nil
}

// Reset clears the binding registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]any)
}
