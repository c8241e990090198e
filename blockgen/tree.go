package blockgen

import (
	"container/heap"
	"fmt"
)

// treeNode is a transient construction-time node; only the per-symbol
// depths survive tree construction.
type treeNode struct {
	sym   int // minimum symbol in the subtree
	count uint64
	depth int // maximum leaf depth below this node
	left  *treeNode
	right *treeNode
}

// nodeQueue orders nodes by count, then by subtree depth to bias the tree
// shallow, then by descending symbol so that construction is deterministic
// across runs and platforms.
type nodeQueue []*treeNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.count != b.count {
		return a.count < b.count
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.sym > b.sym
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*treeNode)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// A TreeTooTallError is returned when the shallow-bias heuristic still
// produces a code longer than the alphabet's ceiling.
type TreeTooTallError struct {
	Depth int
	Limit int
}

func (e *TreeTooTallError) Error() string {
	return fmt.Sprintf("blockgen: code length %d exceeds the %d-bit limit", e.Depth, e.Limit)
}

// buildLengths returns per-symbol code lengths for the given frequencies.
// A symbol with zero frequency gets length zero; a single-symbol alphabet is
// wrapped in a unary parent so the symbol receives length one, since the
// format disallows zero-bit codes.
func buildLengths(freq []uint64, maxBits int) ([]int, error) {
	lengths := make([]int, len(freq))
	q := make(nodeQueue, 0, len(freq))
	for s, c := range freq {
		if c > 0 {
			q = append(q, &treeNode{sym: s, count: c})
		}
	}
	if len(q) == 0 {
		return lengths, nil
	}
	heap.Init(&q)
	for q.Len() >= 2 {
		a := heap.Pop(&q).(*treeNode)
		b := heap.Pop(&q).(*treeNode)
		p := &treeNode{sym: a.sym, count: a.count + b.count, depth: a.depth + 1, left: b, right: a}
		if b.sym < p.sym {
			p.sym = b.sym
		}
		if b.depth >= a.depth {
			p.depth = b.depth + 1
		}
		heap.Push(&q, p)
	}
	root := q[0]
	if root.left == nil && root.right == nil {
		root = &treeNode{sym: root.sym, count: root.count, depth: 1, left: root}
	}
	if err := walkDepths(root, 0, maxBits, lengths); err != nil {
		return nil, err
	}
	return lengths, nil
}

func walkDepths(n *treeNode, d, maxBits int, lengths []int) error {
	if n.left == nil && n.right == nil {
		if d > maxBits {
			return &TreeTooTallError{Depth: d, Limit: maxBits}
		}
		lengths[n.sym] = d
		return nil
	}
	if n.left != nil {
		if err := walkDepths(n.left, d+1, maxBits, lengths); err != nil {
			return err
		}
	}
	if n.right != nil {
		if err := walkDepths(n.right, d+1, maxBits, lengths); err != nil {
			return err
		}
	}
	return nil
}

// canonicalCodes assigns each coded symbol its canonical value per RFC 1951
// section 3.2.2. Codes are right-aligned integers whose high bit is emitted
// first.
func canonicalCodes(lengths []int) []uint32 {
	var count [maxLenBits + 1]int
	for _, l := range lengths {
		count[l]++
	}
	count[0] = 0
	var next [maxLenBits + 1]uint32
	code := uint32(0)
	for l := 1; l <= maxLenBits; l++ {
		code = (code + uint32(count[l-1])) << 1
		next[l] = code
	}
	codes := make([]uint32, len(lengths))
	for s, l := range lengths {
		if l != 0 {
			codes[s] = next[l]
			next[l]++
		}
	}
	return codes
}
