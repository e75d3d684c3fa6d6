package collector

// Managed handles - Ref and WeakRef
//
// Go has no destructors, so "the last owning reference drops" has to be
// spelled out explicitly: Release decrements a manual strong count and,
// when it reaches zero, runs the cell's drop closure, which re-enters
// the payload's own Trace to release whatever Refs it holds as fields.
// That cascade is what lets an acyclic chain collapse all the way down
// through plain reference counting without any tracing at all - tracing
// only has to step in for cycles.
//
// WeakRef never contributes to strong, and upgrading it after the last
// strong owner released is refused: once strong reaches zero the cell
// is dead for good and never comes back.

type cell[T any] struct {
	value  T
	strong int
	drop   func(*T)
}

// Ref is a strong, reference-counted handle to a payload. The zero value
// is the empty handle (no payload).
type Ref[T any] struct {
	c *cell[T]
}

// IsEmpty reports whether r holds no payload.
func (r Ref[T]) IsEmpty() bool {
	return r.c == nil
}

// Get returns a pointer to the underlying payload, or nil for an empty
// handle. The pointer is valid for as long as some strong handle to the
// same cell exists.
func (r Ref[T]) Get() *T {
	if r.c == nil {
		return nil
	}
	return &r.c.value
}

// Clone returns a new strong handle to the same payload, incrementing
// the strong count.
func (r Ref[T]) Clone() Ref[T] {
	if r.c == nil {
		return Ref[T]{}
	}
	r.c.strong++
	return Ref[T]{c: r.c}
}

// Weak returns a non-owning observer of the same payload.
func (r Ref[T]) Weak() WeakRef[T] {
	return WeakRef[T]{c: r.c}
}

// Release drops this strong handle. If it was the last one, the cell's
// drop hook runs, cascading the release through whatever managed fields
// the payload owns. r is left empty.
func (r *Ref[T]) Release() {
	if r.c == nil {
		return
	}
	c := r.c
	r.c = nil
	c.strong--
	if c.strong == 0 && c.drop != nil {
		c.drop(&c.value)
	}
}

// clearRef releases r and resets it to empty. This is the reset
// callback handed to Trace during sweep and is also the cascade hook a
// cell installs on itself at allocation time - the same operation
// breaks cycles during sweep and tears down acyclic chains during
// ordinary reference counting.
func clearRef[T any](r *Ref[T]) {
	r.Release()
	*r = Ref[T]{}
}

// WeakRef observes a payload without contributing to its strong count.
// The zero value observes nothing.
type WeakRef[T any] struct {
	c *cell[T]
}

// Alive reports whether the observed payload still has at least one
// strong owner, without taking a reference. Used by compaction and by
// MarkAndSweep's dead-entry count, where acquiring and immediately
// releasing a temporary strong ref would just be wasted bookkeeping.
func (w WeakRef[T]) Alive() bool {
	return w.c != nil && w.c.strong > 0
}

// Upgrade attempts to produce a strong Ref to the observed payload. It
// fails once the payload's last strong owner has released it; a dead
// cell never comes back.
func (w WeakRef[T]) Upgrade() (Ref[T], bool) {
	if !w.Alive() {
		return Ref[T]{}, false
	}
	w.c.strong++
	return Ref[T]{c: w.c}, true
}
