package gfmi

// ForkType classifies a Fork for reporting purposes only; fork identity
// and equality are defined entirely by (sa_lo, sa_hi).
type ForkType int

const (
	ForkRoot ForkType = iota
	ForkMain
	ForkLeaf
	ForkDead
	ForkCache
)

func (t ForkType) String() string {
	switch t {
	case ForkRoot:
		return "ROOT"
	case ForkMain:
		return "MAIN"
	case ForkLeaf:
		return "LEAF"
	case ForkDead:
		return "DEAD"
	case ForkCache:
		return "CACH"
	default:
		return "UNKNOWN"
	}
}

// Fork is an active search state: a half-open SA interval in the GFMI plus
// the next pattern index (scanning right-to-left) yet to consume.
type Fork struct {
	SALo, SAHi int64
	Pos        int
	Type       ForkType
}

// Empty reports whether the fork's SA interval has collapsed.
func (f Fork) Empty() bool { return f.SAHi <= f.SALo }

// AdvanceFork LF-steps fork in place by pattern[fork.Pos] against the full
// GFMI, then decrements Pos. Returns whether the resulting interval is
// still non-empty.
func (f *GFMI) AdvanceFork(fork *Fork, pattern []byte) bool {
	return f.LFStepFork(fork, pattern[fork.Pos])
}

// LFStepFork LF-steps fork in place by the explicit byte c, then decrements
// Pos. This is AdvanceFork's underlying primitive, factored out so callers
// that prepend one character at a time (the FM-table cache builder, which
// has no whole pattern to index by Pos) can drive the same LF-step/decrement
// pair without fabricating a backing byte slice.
func (f *GFMI) LFStepFork(fork *Fork, c byte) bool {
	e, ok := f.fmi.EncodingOf(c)
	if !ok {
		fork.SALo, fork.SAHi = 0, 0
		fork.Pos--
		return false
	}
	fork.SALo, fork.SAHi = f.fmi.LFStep(fork.SALo, fork.SAHi, e)
	fork.Pos--
	return fork.SAHi > fork.SALo
}

// PrecedenceRange returns the SA interval that would result from
// prepending byte c to fork's current suffix, without mutating fork. Used
// with c = c_0 to test whether the candidate walk has reached a vertex
// boundary.
func (f *GFMI) PrecedenceRange(fork Fork, c byte) (lo, hi int64, ok bool) {
	e, found := f.fmi.EncodingOf(c)
	if !found {
		return 0, 0, false
	}
	lo, hi = f.fmi.LFStep(fork.SALo, fork.SAHi, e)
	return lo, hi, hi > lo
}

// C0 and C1 expose the reserved delimiter bytes used at construction.
func (f *GFMI) C0() byte { return f.c0 }
func (f *GFMI) C1() byte { return f.c1 }

// R2RQuery resolves the incoming-neighbour SA ranges for the c_0-bucket
// range [a,b], optionally narrowed by the next pattern character c when the
// oracle (OIMT) is available. maxIntervals < 0 means uncapped.
func (f *GFMI) R2RQuery(a, b int64, nextChar byte, maxIntervals int) []Interval {
	lo, hi := int(a), int(b)
	if f.hasOracle {
		if e, ok := f.fmi.EncodingOf(nextChar); ok {
			return f.oracle.Query(lo, hi, e, maxIntervals)
		}
		return nil
	}
	return f.r2r.Query(lo, hi, maxIntervals)
}
