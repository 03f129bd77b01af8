package pathfind

// frontierItem is one pending visit: a node, the cumulative cost to reach
// it, and the sequence number of its insertion. The sequence breaks cost
// ties so equal-cost entries settle in discovery order.
type frontierItem struct {
	uid  string
	cost float64
	seq  uint64
}

// frontier is a min-heap over (cost, seq) for container/heap.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
