// Package collector implements a hybrid garbage collector: ordinary
// manual reference counting (Ref, WeakRef) augmented with a tracing
// mark-and-sweep pass that reclaims objects trapped in reference
// cycles reference counting alone cannot free.
//
// A payload type participates by implementing Payload: a mark byte and
// a Trace method that walks its own managed fields. Allocate through a
// Collector's Add (tracked only) or AddRoot (tracked and rooted), and
// call MarkAndSweep periodically; between calls, releasing the last
// strong Ref to an acyclic object frees it immediately, the same as any
// other manually reference-counted handle.
package collector
