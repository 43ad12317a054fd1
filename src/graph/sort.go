package graph

import (
	"sort"

	"github.com/pangraph/pangraph/src/seqio"
)

/*
	TopologicalOrder emits one traversal per node such that, for an acyclic
	graph in some orientation, every edge points left to right in the emitted
	order. The search runs depth first from the head nodes in their forward
	orientation by ascending id (then from any unvisited node by ascending id)
	and emits reverse finish time. A cyclic graph still yields an order rather
	than an error; the members of a strongly connected component are not
	guaranteed to be contiguous in it. Children are expanded in descending
	order, so siblings come out by ascending node id; nodes first reached from
	a later seed come out before those of an earlier seed. The result is
	deterministic for a given graph.
*/
func (graph *Graph) TopologicalOrder() []Traversal {
	visited := make(map[int64]struct{}, len(graph.nodes))
	order := make([]Traversal, 0, len(graph.nodes))

	// children are expanded in descending order so that siblings come out
	// ascending in the reverse finish order
	var visit func(trav Traversal)
	visit = func(trav Traversal) {
		if _, ok := visited[trav.NodeID]; ok {
			return
		}
		visited[trav.NodeID] = struct{}{}
		next := graph.NodesNext(trav)
		for i := len(next) - 1; i >= 0; i-- {
			visit(next[i])
		}
		order = append(order, trav)
	}
	for _, head := range graph.HeadNodes() {
		visit(Traversal{NodeID: head.ID})
	}
	ids := make([]int64, 0, len(graph.nodes))
	for id := range graph.nodeByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		visit(Traversal{NodeID: id})
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Sort reorders the underlying node array to match the topological order and
// returns the order. The reorder is stable within the ordering.
func (graph *Graph) Sort() []Traversal {
	order := graph.TopologicalOrder()
	position := make(map[int64]int, len(order))
	for i, trav := range order {
		position[trav.NodeID] = i
	}
	sort.SliceStable(graph.nodes, func(i, j int) bool {
		return position[graph.nodes[i].ID] < position[graph.nodes[j].ID]
	})
	for i, node := range graph.nodes {
		graph.nodeIndex[node.ID] = i
	}
	return order
}

/*
	OrientNodesForward sorts the graph and then flips every node the sort
	emitted backward: its sequence is reverse complemented, the side flags of
	its incident edges are inverted so the physical edges now reference the
	forward node, and path visits of the node swap orientation (preserving
	every path's sequence). The ids of the flipped nodes are returned in
	ascending order. If a head or tail still comes out backward afterwards the
	graph contains an inversion that cannot be oriented away, and
	ErrInvalidOrientation is returned alongside the flips already applied.
*/
func (graph *Graph) OrientNodesForward() ([]int64, error) {
	order := graph.Sort()
	flippedSet := make(map[int64]struct{})
	for _, trav := range order {
		if trav.Backward {
			flippedSet[trav.NodeID] = struct{}{}
		}
	}
	for id := range flippedSet {
		node := graph.nodeByID[id]
		node.Sequence = seqio.RevComplement(node.Sequence)
	}
	for _, edge := range graph.edges {
		if _, ok := flippedSet[edge.From]; ok {
			edge.FromStart = !edge.FromStart
		}
		if _, ok := flippedSet[edge.To]; ok {
			edge.ToEnd = !edge.ToEnd
		}
	}
	graph.Paths.ForEachPath(func(path *Path) {
		for i, step := range path.Steps {
			if _, ok := flippedSet[step.NodeID]; ok {
				path.Steps[i].Backward = !step.Backward
			}
		}
	})
	graph.RebuildIndexes()
	flipped := make([]int64, 0, len(flippedSet))
	for id := range flippedSet {
		flipped = append(flipped, id)
	}
	sort.Slice(flipped, func(i, j int) bool { return flipped[i] < flipped[j] })
	for _, trav := range graph.TopologicalOrder() {
		if trav.Backward && (graph.IsHeadNode(trav.NodeID) || graph.IsTailNode(trav.NodeID)) {
			return flipped, ErrInvalidOrientation
		}
	}
	return flipped, nil
}
