package collector

// Payload is the contract a type must satisfy to be managed by a
// Collector. T is the application struct carrying the data; the
// constraint is written against its pointer type because the mark byte
// and the trace walk both need to mutate the receiver in place.
//
// GetMark/SetMark expose the per-object epoch tag: an 8-bit tag,
// initially zero. Trace must invoke visit exactly once for every
// managed Ref the payload owns as a direct field; nested containers
// (slices, maps) iterate and invoke per element. A payload with no
// managed children implements Trace as a no-op.
//
// Trace must be idempotent and side-effect-free beyond invoking visit:
// the collector calls it with two different callbacks (mark, and the
// releasing callback used by sweep and by cascading release) and the
// payload cannot tell which one it got. Trace must not allocate and
// must never call back into the collector.
type Payload[T any] interface {
	*T
	GetMark() uint8
	SetMark(mark uint8)
	Trace(visit func(*Ref[T]))
}

// epoch is the process-wide mark counter: a single package-level byte
// shared by every Collector instantiation, regardless of payload type.
// A mark-and-sweep on a Collector[A] bumps the same counter a
// Collector[B] would observe, but since each collector only ever
// compares marks against its own payloads during its own cycle, the
// sharing is harmless - epoch is just a monotonic nonce wrapping
// modulo 256.
var epoch uint8

func nextEpoch() uint8 {
	epoch++
	return epoch
}
