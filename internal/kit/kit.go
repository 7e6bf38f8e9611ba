// Package kit collects small numeric helpers shared across the core
// packages: a byte-histogram counter (the FM-index counts its alphabet
// with its own loop and does not call it), a log2 helper to size vertex
// codewords, and a worker/job splitter for the matcher's parallel advance
// phase.
package kit

// Log2Ceil returns ceil(log2(n)) for n >= 1, and 0 for n <= 1.
func Log2Ceil(n int) uint {
	if n <= 1 {
		return 0
	}
	bits := uint(0)
	v := n - 1
	for v > 0 {
		bits++
		v >>= 1
	}
	return bits
}

// ComputeHistogram counts occurrences of each byte value in block, writing
// into freqs (len(freqs) must be >= 256).
func ComputeHistogram(block []byte, freqs []int) {
	for _, b := range block {
		freqs[b]++
	}
}

// JobsPerTask splits 'jobs' workers across 'tasks' units of work as evenly
// as possible: when jobs > tasks, the first 'jobs mod tasks' tasks get one
// extra worker; when jobs <= tasks, every task gets exactly one.
func JobsPerTask(jobs, tasks uint) []uint {
	if tasks == 0 {
		return nil
	}
	out := make([]uint, tasks)
	if jobs == 0 {
		return out
	}
	var q, r uint
	if jobs <= tasks {
		q, r = 1, 0
	} else {
		q = jobs / tasks
		r = jobs - q*tasks
	}
	for i := range out {
		out[i] = q
	}
	for i := uint(0); r > 0; i = (i + 1) % tasks {
		out[i]++
		r--
	}
	return out
}
