package container

import "sort"

// OrderedMap is an append-then-sort-once map keyed by an ordered key type,
// for a build-once / query-many access pattern where a red-black ordered
// map would otherwise be reached for. No other package of the module uses
// it. See DESIGN.md for why a real balanced tree wasn't warranted.
type OrderedMap[K Ordered, V any] struct {
	keys   []K
	values []V
	sorted bool
}

// Ordered constrains key types to those with a natural total order.
type Ordered interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~string
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap[K Ordered, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{}
}

// Insert appends a key/value pair. Duplicate keys are allowed during the
// build phase; Get returns the first match once sorted.
func (m *OrderedMap[K, V]) Insert(k K, v V) {
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
	m.sorted = false
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int { return len(m.keys) }

func (m *OrderedMap[K, V]) ensureSorted() {
	if m.sorted {
		return
	}
	idx := make([]int, len(m.keys))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return m.keys[idx[a]] < m.keys[idx[b]] })

	sortedKeys := make([]K, len(idx))
	sortedValues := make([]V, len(idx))
	for i, j := range idx {
		sortedKeys[i] = m.keys[j]
		sortedValues[i] = m.values[j]
	}
	m.keys, m.values = sortedKeys, sortedValues
	m.sorted = true
}

// Get returns the value for k and whether it was found.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	m.ensureSorted()
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= k })
	if i < len(m.keys) && m.keys[i] == k {
		return m.values[i], true
	}
	var zero V
	return zero, false
}

// Keys returns the keys in sorted order.
func (m *OrderedMap[K, V]) Keys() []K {
	m.ensureSorted()
	return m.keys
}

// Values returns the values, ordered to match Keys().
func (m *OrderedMap[K, V]) Values() []V {
	m.ensureSorted()
	return m.values
}

// Rank returns the index k would occupy in sorted order (like
// sort.Search): the count of keys strictly less than k.
func (m *OrderedMap[K, V]) Rank(k K) int {
	m.ensureSorted()
	return sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= k })
}
