package fmindex

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func bruteForceSA(s string) []int64 {
	n := len(s)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return s[idx[a]:] < s[idx[b]:] })
	out := make([]int64, n)
	for i, v := range idx {
		out[i] = int64(v)
	}
	return out
}

func TestSARoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := "ACGT"
	lengths := []int{1024, 4096, 17, 65536}
	rates := []uint{1, 4, 16, 64}

	for _, n := range lengths {
		sb := strings.Builder{}
		for i := 0; i < n; i++ {
			sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		text := []byte(sb.String() + "\x00")
		for _, rr := range rates {
			for _, ir := range rates {
				fm, err := Build(text, rr, ir)
				require.NoError(t, err)
				expect := bruteForceSA(string(text))
				got := fm.SARange(0, fm.BwtLength())
				require.Equal(t, expect, got, "n=%d rankRate=%d isaRate=%d", n, rr, ir)
			}
		}
	}
}

func TestCountAndLocate(t *testing.T) {
	text := []byte("mississippi\x00")
	fm, err := Build(text, 2, 2)
	require.NoError(t, err)

	require.Equal(t, int64(2), fm.Count([]byte("issi")))
	locs := fm.Locate([]byte("ssi"))
	sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
	require.Equal(t, []int64{2, 5}, locs)

	require.Equal(t, int64(0), fm.Count([]byte("xyz")))
}

func TestSerialiseRoundTrip(t *testing.T) {
	text := []byte("mississippi\x00")
	fm, err := Build(text, 2, 2)
	require.NoError(t, err)

	buf := fm.Serialise()
	fm2, err := Deserialise(buf)
	require.NoError(t, err)

	require.Equal(t, fm.BwtLength(), fm2.BwtLength())
	for i := int64(0); i < fm.BwtLength(); i++ {
		require.Equal(t, fm.Get(i), fm2.Get(i))
		require.Equal(t, fm.SA(i), fm2.SA(i))
	}
	if diff := cmp.Diff(fm.cTable, fm2.cTable); diff != "" {
		t.Fatalf("C-table mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, fm.Count([]byte("ssi")), fm2.Count([]byte("ssi")))
}

func TestSingleCharAlphabet(t *testing.T) {
	text := []byte("aaaa\x00")
	fm, err := Build(text, 1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(4), fm.Count([]byte("a")))
}
