package collector

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// DefaultThreshold is the fraction of dead entries in the tracked set
// that triggers compaction after a sweep.
const DefaultThreshold = 0.5

// Collector owns the root set and tracked set for one payload type and
// implements the mark, sweep and compaction passes. T is the payload
// struct; P is its pointer type, which is where GetMark/SetMark/Trace
// actually live (see Payload).
//
// Exactly one Collector exists per payload type in normal use - obtain
// it with CollectorFor rather than constructing one directly, unless a
// test genuinely wants an isolated instance.
type Collector[T any, P Payload[T]] struct {
	tracked []WeakRef[T]
	roots   []Ref[T]

	// Threshold is the compaction trigger: compaction runs after a
	// sweep once the dead fraction of tracked exceeds this. 1.0 disables
	// compaction; 0.0 compacts after every cycle.
	Threshold float64

	id     uuid.UUID
	logger *slog.Logger
	stats  Stats
}

// Option configures a Collector at construction time.
type Option[T any, P Payload[T]] func(*Collector[T, P])

// WithThreshold overrides ORGANIZATION_THRESHOLD for this collector.
func WithThreshold[T any, P Payload[T]](threshold float64) Option[T, P] {
	return func(c *Collector[T, P]) {
		c.Threshold = threshold
	}
}

// WithLogger overrides the structured logger a collector reports its
// mark-and-sweep and compaction activity to. The default is
// slog.Default().
func WithLogger[T any, P Payload[T]](logger *slog.Logger) Option[T, P] {
	return func(c *Collector[T, P]) {
		c.logger = logger
	}
}

func newCollector[T any, P Payload[T]](opts ...Option[T, P]) *Collector[T, P] {
	c := &Collector[T, P]{
		Threshold: DefaultThreshold,
		id:        uuid.New(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID is the correlation id stamped on this collector at construction,
// for tying log lines from one collector instance together across a
// process that may host several (one per payload type).
func (c *Collector[T, P]) ID() uuid.UUID {
	return c.id
}

// Stats returns a snapshot of this collector's counters.
func (c *Collector[T, P]) Stats() Stats {
	return c.stats
}

// Add allocates a new payload from value, appends a weak observer to
// the tracked set, and returns the owning strong Ref. O(1) amortised.
func (c *Collector[T, P]) Add(value T) Ref[T] {
	cl := &cell[T]{value: value, strong: 1}
	cl.drop = func(v *T) {
		var p P = v
		p.Trace(clearRef[T])
	}
	c.tracked = append(c.tracked, WeakRef[T]{c: cl})
	c.stats.Allocations++
	return Ref[T]{c: cl}
}

// AddRoot is Add, plus a strong reference kept in the root set, so the
// payload stays alive independent of any host-local variable.
func (c *Collector[T, P]) AddRoot(value T) Ref[T] {
	ref := c.Add(value)
	c.roots = append(c.roots, ref.Clone())
	c.stats.RootsAdded++
	return ref
}

// markOne marks ref's payload with epoch, unless it is already marked
// or empty, and recurses into its managed fields. Depth-first; the
// collector imposes no traversal order beyond what the payload's own
// Trace iterates in.
func (c *Collector[T, P]) markOne(e uint8, ref *Ref[T]) {
	if ref.IsEmpty() {
		return
	}
	var p P = ref.Get()
	if p.GetMark() == e {
		return
	}
	p.SetMark(e)
	p.Trace(func(child *Ref[T]) {
		c.markOne(e, child)
	})
}

// MarkAndSweep runs one collection cycle: bump the epoch, mark every
// payload reachable from roots, then sweep the tracked set, resetting
// the managed fields of anything that is both still alive and was not
// marked this cycle. Resetting clears the unreachable object's own
// strong references, which is what lets ordinary reference counting
// finish the job once the transient strong ref sweep is holding drops
// at the end of the loop iteration.
func (c *Collector[T, P]) MarkAndSweep() {
	e := nextEpoch()

	for i := range c.roots {
		c.markOne(e, &c.roots[i])
	}

	reset := 0
	for _, w := range c.tracked {
		ref, ok := w.Upgrade()
		if !ok {
			continue
		}
		var p P = ref.Get()
		if p.GetMark() != e {
			p.Trace(clearRef[T])
			reset++
		}
		ref.Release()
	}
	c.stats.Sweeps++
	c.stats.ObjectsReset += reset

	dead := 0
	for _, w := range c.tracked {
		if !w.Alive() {
			dead++
		}
	}
	c.logger.Debug("mark-and-sweep",
		"collector", c.id,
		"epoch", e,
		"tracked", len(c.tracked),
		"roots", len(c.roots),
		"reset", reset,
		"dead", dead,
	)
	if len(c.tracked) > 0 && float64(dead) > c.Threshold*float64(len(c.tracked)) {
		c.Organize()
	}
}

// Organize compacts the tracked set: entries whose weak observer is
// still alive are rewritten into a prefix of the slice in their
// original relative order, and the slice is truncated. It never removes
// a live entry and never reorders live entries relative to each other,
// and may be called at any time independent of MarkAndSweep.
func (c *Collector[T, P]) Organize() {
	before := len(c.tracked)
	next := 0
	for _, w := range c.tracked {
		if w.Alive() {
			c.tracked[next] = w
			next++
		}
	}
	c.tracked = c.tracked[:next]
	c.stats.Compactions++
	c.stats.LastReclaimed = before - next
	c.logger.Debug("organize",
		"collector", c.id,
		"before", before,
		"after", next,
		"reclaimed", before-next,
	)
}

// LiveCount returns the number of distinct payloads currently alive,
// counting a payload that is both rooted and tracked exactly once.
func (c *Collector[T, P]) LiveCount() int {
	seen := make(map[*cell[T]]struct{}, len(c.tracked))
	for i := range c.roots {
		if cl := c.roots[i].c; cl != nil && cl.strong > 0 {
			seen[cl] = struct{}{}
		}
	}
	for _, w := range c.tracked {
		if w.c != nil && w.c.strong > 0 {
			seen[w.c] = struct{}{}
		}
	}
	return len(seen)
}

// TrackedLen and RootLen expose the raw sizes of the tracked and root
// sets, mainly for tests that check compaction bookkeeping directly
// rather than through LiveCount.
func (c *Collector[T, P]) TrackedLen() int { return len(c.tracked) }
func (c *Collector[T, P]) RootLen() int    { return len(c.roots) }

// RootAt returns a pointer to the i'th root, so tests and hosts can
// clear or mutate a specific root without re-deriving it. It panics if
// i is out of range, like slice indexing.
func (c *Collector[T, P]) RootAt(i int) *Ref[T] {
	return &c.roots[i]
}

func (c *Collector[T, P]) String() string {
	return fmt.Sprintf("Collector[%s](tracked=%d roots=%d)", c.id, len(c.tracked), len(c.roots))
}
