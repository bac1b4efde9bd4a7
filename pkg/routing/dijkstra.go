package routing

import "math"

const noNode = ^uint32(0) // sentinel for "no node"

// MinHeap is a concrete-typed min-heap for the Dijkstra priority queue.
// Avoids interface boxing overhead of container/heap.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node uint32
	Dist float64
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node uint32, dist float64) {
	h.items = append(h.items, PQItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekDist() float64 {
	if len(h.items) == 0 {
		return math.Inf(1)
	}
	return h.items[0].Dist
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Dist >= h.items[parent].Dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Dist < h.items[smallest].Dist {
			smallest = left
		}
		if right < n && h.items[right].Dist < h.items[smallest].Dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// QueryState holds per-query Dijkstra state.
type QueryState struct {
	Dist    []float64
	Pred    []uint32 // predecessor on the shortest path (noNode = seed or unreached)
	Touched []uint32 // nodes touched during this query (for fast reset)
	PQ      MinHeap
}

// NewQueryState creates a new QueryState for a graph with n nodes.
func NewQueryState(n uint32) *QueryState {
	dist := make([]float64, n)
	pred := make([]uint32, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = noNode
	}
	return &QueryState{
		Dist:    dist,
		Pred:    pred,
		Touched: make([]uint32, 0, 1024),
		PQ:      MinHeap{items: make([]PQItem, 0, 256)},
	}
}

// Reset clears only the touched entries for fast reuse.
func (qs *QueryState) Reset() {
	for _, node := range qs.Touched {
		qs.Dist[node] = math.Inf(1)
		qs.Pred[node] = noNode
	}
	qs.Touched = qs.Touched[:0]
	qs.PQ.Reset()
}

// relax lowers the distance of node if d improves on it.
func (qs *QueryState) relax(node, pred uint32, d float64) bool {
	if d >= qs.Dist[node] {
		return false
	}
	if math.IsInf(qs.Dist[node], 1) {
		qs.Touched = append(qs.Touched, node)
	}
	qs.Dist[node] = d
	qs.Pred[node] = pred
	qs.PQ.Push(node, d)
	return true
}
