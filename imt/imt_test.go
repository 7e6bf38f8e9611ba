package imt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uensalo/gingo/container"
)

// bruteForceQuery union-merges the raw interval lists of keys in [a,b]
// directly, independent of the tree, as an oracle for Query.
func bruteForceQuery(keyIntervals map[int][]container.Interval, a, b int) []container.Interval {
	var all []container.Interval
	for k, lst := range keyIntervals {
		if k >= a && k <= b {
			all = append(all, lst...)
		}
	}
	return container.Compact(all)
}

func randomFixture(rng *rand.Rand, n int) map[int][]container.Interval {
	keyIntervals := make(map[int][]container.Interval)
	for k := 0; k < n; k++ {
		m := rng.Intn(3)
		var lst []container.Interval
		for i := 0; i < m; i++ {
			lo := int64(rng.Intn(50))
			hi := lo + int64(rng.Intn(5))
			lst = append(lst, container.Interval{Lo: lo, Hi: hi})
		}
		keyIntervals[k] = lst
	}
	return keyIntervals
}

func TestTreeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 30; trial++ {
		n := 1 + rng.Intn(40)
		keyIntervals := randomFixture(rng, n)
		tree := Build(n, func(key int) []container.Interval { return keyIntervals[key] })

		for q := 0; q < 10; q++ {
			a := rng.Intn(n)
			b := a + rng.Intn(n-a)
			want := bruteForceQuery(keyIntervals, a, b)
			got := tree.Query(a, b, -1)
			require.Equal(t, want, got, "trial=%d n=%d a=%d b=%d", trial, n, a, b)
		}
	}
}

func TestTreeQueryCap(t *testing.T) {
	keyIntervals := map[int][]container.Interval{
		0: {{Lo: 0, Hi: 0}},
		1: {{Lo: 10, Hi: 10}},
		2: {{Lo: 20, Hi: 20}},
		3: {{Lo: 30, Hi: 30}},
	}
	tree := Build(4, func(key int) []container.Interval { return keyIntervals[key] })
	got := tree.Query(0, 3, 2)
	require.Len(t, got, 2)
	require.Equal(t, []container.Interval{{Lo: 0, Hi: 0}, {Lo: 10, Hi: 10}}, got)
}

func TestTreeEmpty(t *testing.T) {
	tree := Build(0, func(key int) []container.Interval { return nil })
	require.Nil(t, tree.Query(0, 0, -1))
}

// TestOIMTUnionEqualsIMT checks the oracle invariant: unioning an OIMT's
// per-tag buckets over a range, then re-compacting, recovers exactly what
// the plain Tree returns for the same range. Tags are a property of each
// individual value (not of the leaf key listing it), mirroring how a
// vertex's incoming-neighbour rank is tagged by that neighbour's own
// preceding-character encoding.
func TestOIMTUnionEqualsIMT(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tagCount := 4

	for trial := 0; trial < 30; trial++ {
		n := 1 + rng.Intn(40)
		keyIntervals := randomFixture(rng, n)
		// randomFixture draws values from [0, 54), past the key range.
		valueTags := make([]uint16, 54)
		for v := range valueTags {
			valueTags[v] = uint16(rng.Intn(tagCount))
		}
		tagOf := func(v int) uint16 { return valueTags[v] }

		plain := Build(n, func(key int) []container.Interval { return keyIntervals[key] })
		oracle := BuildOIMT(n, func(key int) []container.Interval { return keyIntervals[key] }, tagOf)

		for q := 0; q < 10; q++ {
			a := rng.Intn(n)
			b := a + rng.Intn(n-a)

			want := plain.Query(a, b, -1)

			var unioned []container.Interval
			for tag := uint16(0); tag < uint16(tagCount); tag++ {
				unioned = append(unioned, oracle.Query(a, b, tag, -1)...)
			}
			got := container.Compact(unioned)

			require.Equal(t, want, got, "trial=%d n=%d a=%d b=%d", trial, n, a, b)
		}
	}
}

func TestOIMTBucketIsolation(t *testing.T) {
	// key 0's neighbour list spans values [0,5]; key 1's spans [100,105].
	// Values 0-5 carry tag 1, values 100-105 carry tag 2.
	keyIntervals := map[int][]container.Interval{
		0: {{Lo: 0, Hi: 5}},
		1: {{Lo: 100, Hi: 105}},
	}
	tagOf := func(v int) uint16 {
		if v <= 5 {
			return 1
		}
		return 2
	}

	oracle := BuildOIMT(2, func(key int) []container.Interval { return keyIntervals[key] }, tagOf)

	require.Equal(t, []container.Interval{{Lo: 0, Hi: 5}}, oracle.Query(0, 1, 1, -1))
	require.Equal(t, []container.Interval{{Lo: 100, Hi: 105}}, oracle.Query(0, 1, 2, -1))
	require.Nil(t, oracle.Query(0, 1, 3, -1))
}

func TestOIMTEmpty(t *testing.T) {
	oracle := BuildOIMT(0, func(key int) []container.Interval { return nil }, func(v int) uint16 { return 0 })
	require.Nil(t, oracle.Query(0, 0, 0, -1))
}
