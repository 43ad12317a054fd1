package graph

import (
	"runtime"
	"sync"

	"github.com/emirpasic/gods/sets/treeset"
)

// MaxedFunc is the callback invoked with a traversal whose extension was
// truncated by the edge budget
type MaxedFunc func(Traversal)

// WalkVisitor receives a full bounded walk plus the index of the traversal the
// walk was enumerated around
type WalkVisitor func(center int, walk []Traversal)

// walkComparator orders walks lexicographically by their traversals, giving
// the walk sets of the enumerator a deterministic iteration order
func walkComparator(a, b interface{}) int {
	walkA, walkB := a.([]Traversal), b.([]Traversal)
	for i := 0; i < len(walkA) && i < len(walkB); i++ {
		if walkA[i].NodeID != walkB[i].NodeID {
			if walkA[i].NodeID < walkB[i].NodeID {
				return -1
			}
			return 1
		}
		if walkA[i].Backward != walkB[i].Backward {
			if walkB[i].Backward {
				return -1
			}
			return 1
		}
	}
	return len(walkA) - len(walkB)
}

// WalkLength returns the total sequence length of a walk in bp
func (graph *Graph) WalkLength(walk []Traversal) int {
	length := 0
	for _, trav := range walk {
		if node, err := graph.GetNode(trav.NodeID); err == nil {
			length += node.Len()
		}
	}
	return length
}

// WalkSequence returns the concatenated oriented sequence of a walk
func (graph *Graph) WalkSequence(walk []Traversal) []byte {
	var sequence []byte
	for _, trav := range walk {
		sequence = append(sequence, graph.TraversalSequence(trav)...)
	}
	return sequence
}

/*
	prevKPaths grows a walk leftward from the given traversal with a bounded
	depth-first search: the length budget is the bp still allowed beyond the
	traversal and the edge budget counts crossings. A predecessor whose whole
	sequence does not fit the remaining length is still taken whole, ending
	that branch, so walks may overrun the bound at their boundary node. When
	the edge budget is exhausted while predecessors remain, the truncated walk
	is still emitted and the maxed callback hears about the boundary traversal.
	Produced walks end with the given traversal.
*/
func (graph *Graph) prevKPaths(trav Traversal, length, edgeMax int, edgeBounding bool, postfix []Traversal, walks *treeset.Set, maxed MaxedFunc) {
	path := make([]Traversal, 0, len(postfix)+1)
	path = append(path, trav)
	path = append(path, postfix...)
	prev := graph.NodesPrev(trav)
	if length <= 0 || len(prev) == 0 {
		walks.Add(path)
		return
	}
	if edgeBounding && edgeMax <= 0 {
		if maxed != nil {
			maxed(trav)
		}
		walks.Add(path)
		return
	}
	for _, p := range prev {
		node, err := graph.GetNode(p.NodeID)
		if err != nil {
			continue
		}
		if node.Len() < length {
			graph.prevKPaths(p, length-node.Len(), edgeMax-1, edgeBounding, path, walks, maxed)
		} else {
			capped := make([]Traversal, 0, len(path)+1)
			capped = append(capped, p)
			capped = append(capped, path...)
			walks.Add(capped)
		}
	}
}

// nextKPaths is the rightward mirror of prevKPaths, producing walks that
// start with the given traversal
func (graph *Graph) nextKPaths(trav Traversal, length, edgeMax int, edgeBounding bool, prefix []Traversal, walks *treeset.Set, maxed MaxedFunc) {
	path := make([]Traversal, 0, len(prefix)+1)
	path = append(path, prefix...)
	path = append(path, trav)
	next := graph.NodesNext(trav)
	if length <= 0 || len(next) == 0 {
		walks.Add(path)
		return
	}
	if edgeBounding && edgeMax <= 0 {
		if maxed != nil {
			maxed(trav)
		}
		walks.Add(path)
		return
	}
	for _, n := range next {
		node, err := graph.GetNode(n.NodeID)
		if err != nil {
			continue
		}
		if node.Len() < length {
			graph.nextKPaths(n, length-node.Len(), edgeMax-1, edgeBounding, path, walks, maxed)
		} else {
			capped := make([]Traversal, 0, len(path)+1)
			capped = append(capped, path...)
			capped = append(capped, n)
			walks.Add(capped)
		}
	}
}

/*
	KPathsOfNode enumerates every bounded walk through the given node, read
	forward. Prefixes grow leftward under a budget of length minus the node's
	own bp and at most edgeMax crossings; suffixes grow rightward under the
	same budgets; the walks are the cartesian combination of the two,
	deduplicated and ordered deterministically. An edgeMax of zero disables
	edge bounding.
*/
func (graph *Graph) KPathsOfNode(node *Node, length, edgeMax int, prevMaxed, nextMaxed MaxedFunc) [][]Traversal {
	trav := Traversal{NodeID: node.ID}
	budget := length - node.Len()
	if budget < 0 {
		budget = 0
	}
	prefixes := treeset.NewWith(walkComparator)
	graph.prevKPaths(trav, budget, edgeMax, edgeMax > 0, nil, prefixes, prevMaxed)
	suffixes := treeset.NewWith(walkComparator)
	graph.nextKPaths(trav, budget, edgeMax, edgeMax > 0, nil, suffixes, nextMaxed)
	combined := treeset.NewWith(walkComparator)
	prefixes.Each(func(_ int, prefixValue interface{}) {
		prefix := prefixValue.([]Traversal)
		suffixes.Each(func(_ int, suffixValue interface{}) {
			suffix := suffixValue.([]Traversal)
			walk := make([]Traversal, 0, len(prefix)+len(suffix)-1)
			walk = append(walk, prefix...)
			walk = append(walk, suffix[1:]...)
			combined.Add(walk)
		})
	})
	walks := make([][]Traversal, 0, combined.Size())
	combined.Each(func(_ int, walkValue interface{}) {
		walks = append(walks, walkValue.([]Traversal))
	})
	return walks
}

// ForEachKPathOfNode calls the visitor with every bounded walk through the
// node, marking where the node sits in each walk
func (graph *Graph) ForEachKPathOfNode(node *Node, length, edgeMax int, prevMaxed, nextMaxed MaxedFunc, visit WalkVisitor) {
	center := Traversal{NodeID: node.ID}
	for _, walk := range graph.KPathsOfNode(node, length, edgeMax, prevMaxed, nextMaxed) {
		for i, trav := range walk {
			if trav == center {
				visit(i, walk)
				break
			}
		}
	}
}

// ForEachKPath enumerates the bounded walks around every node in arena order
func (graph *Graph) ForEachKPath(length, edgeMax int, prevMaxed, nextMaxed MaxedFunc, visit WalkVisitor) {
	for _, node := range graph.nodes {
		graph.ForEachKPathOfNode(node, length, edgeMax, prevMaxed, nextMaxed, visit)
	}
}

/*
	ForEachKPathParallel distributes nodes across one worker per CPU; each
	worker enumerates independently and calls the callbacks on its own
	goroutine. The callbacks are the caller's synchronization responsibility.
	No walk ordering is guaranteed, but each node's walks are visited exactly
	once.
*/
func (graph *Graph) ForEachKPathParallel(length, edgeMax int, prevMaxed, nextMaxed MaxedFunc, visit WalkVisitor) {
	var wg sync.WaitGroup
	jobs := make(chan *Node)
	for worker := 0; worker < runtime.NumCPU(); worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for node := range jobs {
				graph.ForEachKPathOfNode(node, length, edgeMax, prevMaxed, nextMaxed, visit)
			}
		}()
	}
	for _, node := range graph.nodes {
		jobs <- node
	}
	close(jobs)
	wg.Wait()
}
