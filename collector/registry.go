package collector

import (
	"reflect"
	"sync"
)

// Per-type singleton glue.
//
// Go has no per-instantiation static storage for generics, so "one
// collector per payload type" is rendered as a registry keyed by
// reflect.Type, guarded by a mutex. This is the one piece of the
// collector that genuinely is touched from more than one goroutine in
// ordinary use (whichever goroutines first reach for a given payload
// type's collector during startup), which is why it is the one piece
// that locks at all - everything past construction still assumes a
// single-threaded contract.
var (
	registryMu sync.Mutex
	registry   = map[reflect.Type]any{}
)

// CollectorFor returns the process-wide Collector for payload type T,
// creating it on first use. Every subsequent call for the same T
// returns the same instance.
func CollectorFor[T any, P Payload[T]]() *Collector[T, P] {
	key := reflect.TypeOf((*T)(nil)).Elem()

	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := registry[key]; ok {
		return existing.(*Collector[T, P])
	}
	c := newCollector[T, P]()
	registry[key] = c
	return c
}

// resetRegistryForTest clears the singleton registry. Collector tests
// that need a fresh Collector per test case call this instead of
// reusing the process-wide singleton, which would otherwise leak state
// across test cases. The package-level epoch is not reset.
func resetRegistryForTest() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[reflect.Type]any{}
}
