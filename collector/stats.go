package collector

// Stats is a snapshot of one collector's lifetime counters. Plain
// running totals on plain fields, not atomics - Collector assumes a
// single-threaded context, so atomic counters would overstate the
// concurrency guarantees it actually offers.
type Stats struct {
	Allocations  int // payloads created via Add or AddRoot
	RootsAdded   int // payloads additionally rooted via AddRoot
	Sweeps       int // MarkAndSweep calls completed
	ObjectsReset int // payloads whose fields were cleared by sweep, lifetime total
	Compactions  int // Organize calls completed (including those MarkAndSweep triggered)

	// LastReclaimed is the number of dead tracked-set entries the most
	// recent Organize call dropped.
	LastReclaimed int
}
