package container

import "sort"

// BuildSuffixArray computes the suffix array of text: SA[i] is the starting
// index of the i-th lexicographically smallest suffix of text. text must
// already carry its own terminator (the caller appends the reserved
// terminator byte) so that suffixes never need an implicit comparison past
// the end of the slice.
//
// This is a prefix-doubling construction (rank arrays refined by O(log n)
// rounds of a 2-key sort) rather than a linear-time induced-sorting
// algorithm — see DESIGN.md's C2 entry for why: a full induced-sorting
// suffix-array construction is long enough to be its own subsystem and
// not the focus of this module.
func BuildSuffixArray(text []byte) []int32 {
	n := len(text)
	if n == 0 {
		return nil
	}
	sa := make([]int32, n)
	rank := make([]int32, n)
	for i := 0; i < n; i++ {
		sa[i] = int32(i)
		rank[i] = int32(text[i])
	}

	tmp := make([]int32, n)
	keyOf := func(i, k int) (int32, int32) {
		r1 := rank[i]
		r2 := int32(-1)
		if i+k < n {
			r2 = rank[i+k]
		}
		return r1, r2
	}

	for k := 1; ; k *= 2 {
		sort.Slice(sa, func(a, b int) bool {
			ia, ib := int(sa[a]), int(sa[b])
			r1a, r2a := keyOf(ia, k)
			r1b, r2b := keyOf(ib, k)
			if r1a != r1b {
				return r1a < r1b
			}
			return r2a < r2b
		})

		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			prev, cur := int(sa[i-1]), int(sa[i])
			p1, p2 := keyOf(prev, k)
			c1, c2 := keyOf(cur, k)
			if p1 == c1 && p2 == c2 {
				tmp[cur] = tmp[prev]
			} else {
				tmp[cur] = tmp[prev] + 1
			}
		}
		copy(rank, tmp)

		if int(rank[sa[n-1]]) == n-1 || k >= n {
			break
		}
	}

	return sa
}

// InverseSuffixArray computes ISA such that ISA[SA[i]] == i.
func InverseSuffixArray(sa []int32) []int32 {
	isa := make([]int32, len(sa))
	for i, s := range sa {
		isa[s] = int32(i)
	}
	return isa
}
