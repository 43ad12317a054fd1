package graph

import (
	"sort"
	"sync"
)

/*
	PruneComplex removes every node at which the bounded walk enumeration ran
	out of edge budget: any such node would let a walk of at most pathLength bp
	cross more than edgeMax edges. The surviving neighbours of a removed node
	are reconnected to the supplied head marker (where the truncation was on
	the left) or tail marker (on the right) so the graph remains traversable.
*/
func (graph *Graph) PruneComplex(pathLength, edgeMax int, head, tail *Node) error {
	if !graph.HasNode(head.ID) || !graph.HasNode(tail.ID) {
		return ErrMissingNode
	}
	var mu sync.Mutex
	prevMaxed := make(map[Traversal]struct{})
	nextMaxed := make(map[Traversal]struct{})
	graph.ForEachKPath(pathLength, edgeMax,
		func(trav Traversal) {
			mu.Lock()
			prevMaxed[trav] = struct{}{}
			mu.Unlock()
		},
		func(trav Traversal) {
			mu.Lock()
			nextMaxed[trav] = struct{}{}
			mu.Unlock()
		},
		func(center int, walk []Traversal) {})
	doomed := make(map[int64]struct{})
	for trav := range prevMaxed {
		if trav.NodeID != head.ID && trav.NodeID != tail.ID {
			doomed[trav.NodeID] = struct{}{}
		}
	}
	for trav := range nextMaxed {
		if trav.NodeID != head.ID && trav.NodeID != tail.ID {
			doomed[trav.NodeID] = struct{}{}
		}
	}
	for trav := range prevMaxed {
		for _, next := range graph.NodesNext(trav) {
			if _, gone := doomed[next.NodeID]; gone {
				continue
			}
			graph.CreateEdge(Side{NodeID: head.ID, IsEnd: true}, next.LeftSide())
		}
	}
	for trav := range nextMaxed {
		for _, prev := range graph.NodesPrev(trav) {
			if _, gone := doomed[prev.NodeID]; gone {
				continue
			}
			graph.CreateEdge(prev.RightSide(), Side{NodeID: tail.ID, IsEnd: false})
		}
	}
	ids := make([]int64, 0, len(doomed))
	for id := range doomed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		graph.DestroyNode(id)
	}
	return nil
}

// PruneComplexWithHeadTail wraps the graph in temporary marker nodes, prunes
// against them, and removes them again; a utility for preparing a graph for
// k-mer indexing
func (graph *Graph) PruneComplexWithHeadTail(pathLength, edgeMax int) error {
	head, tail, err := graph.AddStartEndMarkers(1, '#', '$', 0, 0)
	if err != nil {
		return err
	}
	if err := graph.PruneComplex(pathLength, edgeMax, head, tail); err != nil {
		return err
	}
	graph.DestroyNode(head.ID)
	graph.DestroyNode(tail.ID)
	return nil
}

// PruneShortSubgraphs removes every connected component whose total sequence
// is shorter than the given size
func (graph *Graph) PruneShortSubgraphs(minSize int) int {
	pruned := 0
	for _, component := range graph.connectedComponents() {
		length := 0
		for _, id := range component {
			if node, err := graph.GetNode(id); err == nil {
				length += node.Len()
			}
		}
		if length >= minSize {
			continue
		}
		for _, id := range component {
			graph.DestroyNode(id)
		}
		pruned++
	}
	return pruned
}
