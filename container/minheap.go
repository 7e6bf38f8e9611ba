package container

// MinHeap is a binary min-heap over items of type T ordered by a supplied
// key function, used by imt's k-way interval-list merge.
// Hand-rolled rather than wrapping container/heap: the call sites only ever
// need Push/Pop/Peek, and an explicit slice-based heap matches the style of
// low-level index-arithmetic code elsewhere in this module.
type MinHeap[T any] struct {
	items []T
	less  func(a, b T) bool
}

// NewMinHeap creates an empty heap ordered by less.
func NewMinHeap[T any](less func(a, b T) bool) *MinHeap[T] {
	return &MinHeap[T]{less: less}
}

// Len returns the number of items in the heap.
func (h *MinHeap[T]) Len() int { return len(h.items) }

// Push inserts an item.
func (h *MinHeap[T]) Push(item T) {
	h.items = append(h.items, item)
	h.siftUp(len(h.items) - 1)
}

// Pop removes and returns the minimum item. Panics if the heap is empty.
func (h *MinHeap[T]) Pop() T {
	top := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top
}

// Peek returns the minimum item without removing it.
func (h *MinHeap[T]) Peek() T {
	return h.items[0]
}

func (h *MinHeap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && h.less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && h.less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
