package astar

import "container/heap"

// queueEntry pairs a priority f = g + h with the queued descriptor.
// seq records push order and breaks priority ties FIFO.
type queueEntry[C any] struct {
	priority float64
	seq      uint64
	basic    NodeBasic[C]
}

// entryHeap is a min-heap of queueEntry ordered by (priority, seq).
// Lazy decrease-key: improved nodes are pushed again and stale entries are skipped
// on pop (checked via Node.WasVisited).
type entryHeap[C any] []queueEntry[C]

// Len returns the number of items in the heap.
func (h entryHeap[C]) Len() int { return len(h) }

// Less orders by priority, then by push sequence.
func (h entryHeap[C]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}

	return h[i].seq < h[j].seq
}

// Swap swaps two elements in the heap.
func (h entryHeap[C]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push adds x, which must be a queueEntry[C].
func (h *entryHeap[C]) Push(x any) { *h = append(*h, x.(queueEntry[C])) }

// Pop removes and returns the last element.
func (h *entryHeap[C]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}

// openSet is the A* frontier.
type openSet[C any] struct {
	heap entryHeap[C]
	seq  uint64
}

func (o *openSet[C]) push(priority float64, basic NodeBasic[C]) {
	heap.Push(&o.heap, queueEntry[C]{priority: priority, seq: o.seq, basic: basic})
	o.seq++
}

func (o *openSet[C]) pop() NodeBasic[C] {
	return heap.Pop(&o.heap).(queueEntry[C]).basic
}

func (o *openSet[C]) len() int { return len(o.heap) }

// reset empties the frontier, keeping its backing array.
func (o *openSet[C]) reset() {
	o.heap = o.heap[:0]
	o.seq = 0
}
