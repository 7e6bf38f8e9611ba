package container

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func bruteForceSA(s string) []int32 {
	n := len(s)
	idx := make([]int32, n)
	for i := range idx {
		idx[i] = int32(i)
	}
	sort.Slice(idx, func(a, b int) bool {
		return s[idx[a]:] < s[idx[b]:]
	})
	return idx
}

func TestBuildSuffixArrayMatchesBruteForce(t *testing.T) {
	cases := []string{
		"mississippi\x00",
		"banana\x00",
		"abcabcabc\x00",
		"a\x00",
		"aaaaaaaaaa\x00",
		strings.Repeat("ACGT", 20) + "\x00",
	}
	for _, c := range cases {
		expect := bruteForceSA(c)
		got := BuildSuffixArray([]byte(c))
		require.Equal(t, expect, got, "input=%q", c)
	}
}

func TestInverseSuffixArray(t *testing.T) {
	sa := BuildSuffixArray([]byte("mississippi\x00"))
	isa := InverseSuffixArray(sa)
	for i, s := range sa {
		require.Equal(t, int32(i), isa[s])
	}
}

func TestCompact(t *testing.T) {
	in := []Interval{{5, 10}, {12, 15}, {0, 3}, {11, 11}}
	got := Compact(in)
	want := []Interval{{0, 3}, {5, 15}}
	require.Equal(t, want, got)
}

func TestMergeSorted(t *testing.T) {
	a := []Interval{{0, 3}, {10, 12}}
	b := []Interval{{4, 9}, {20, 25}}
	got := MergeSorted(a, b)
	want := []Interval{{0, 12}, {20, 25}}
	require.Equal(t, want, got)
}

func TestMinHeap(t *testing.T) {
	h := NewMinHeap(func(a, b int) bool { return a < b })
	for _, v := range []int{5, 3, 8, 1, 9, 2} {
		h.Push(v)
	}
	var out []int
	for h.Len() > 0 {
		out = append(out, h.Pop())
	}
	require.Equal(t, []int{1, 2, 3, 5, 8, 9}, out)
}

func TestOrderedMap(t *testing.T) {
	m := NewOrderedMap[int, string]()
	m.Insert(5, "five")
	m.Insert(1, "one")
	m.Insert(3, "three")

	require.Equal(t, []int{1, 3, 5}, m.Keys())
	v, ok := m.Get(3)
	require.True(t, ok)
	require.Equal(t, "three", v)

	_, ok = m.Get(4)
	require.False(t, ok)
	require.Equal(t, 2, m.Rank(4))
}
