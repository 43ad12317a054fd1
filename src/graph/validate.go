package graph

import (
	"log"
)

/*
	Validate checks every graph invariant: node id uniqueness and index
	coherence, edge endpoint existence, canonical index and adjacency list
	coherence, absence of duplicate edges, and path step validity. Complaints
	are written to the log; the return value reports overall validity.
*/
func (graph *Graph) Validate() bool {
	valid := true
	complain := func(format string, values ...interface{}) {
		log.Printf("graph validity: "+format, values...)
		valid = false
	}
	if len(graph.nodeByID) != len(graph.nodes) {
		complain("id index holds %d entries for %d nodes", len(graph.nodeByID), len(graph.nodes))
	}
	for position, node := range graph.nodes {
		if indexed, ok := graph.nodeByID[node.ID]; !ok || indexed != node {
			complain("node %d is not in the id index", node.ID)
		}
		if graph.nodeIndex[node.ID] != position {
			complain("node %d has a stale position index", node.ID)
		}
	}
	if len(graph.edgeBySides) != len(graph.edges) {
		complain("canonical index holds %d entries for %d edges", len(graph.edgeBySides), len(graph.edges))
	}
	for _, edge := range graph.edges {
		if !graph.HasNode(edge.From) || !graph.HasNode(edge.To) {
			complain("edge %d-%d references a missing node", edge.From, edge.To)
			continue
		}
		if indexed, ok := graph.edgeBySides[edge.SidePair()]; !ok || indexed != edge {
			complain("edge %d-%d is not canonically indexed", edge.From, edge.To)
		}
		if !graph.sideIndexed(edge.FromSide(), edge.ToSide()) {
			complain("edge %d-%d missing from the %d adjacency list", edge.From, edge.To, edge.From)
		}
		if edge.FromSide() != edge.ToSide() && !graph.sideIndexed(edge.ToSide(), edge.FromSide()) {
			complain("edge %d-%d missing from the %d adjacency list", edge.From, edge.To, edge.To)
		}
	}
	for id, entries := range graph.edgesOnStart {
		for _, entry := range entries {
			pair := MakeSidePair(Side{NodeID: id}, farSideOfStartEntry(entry))
			if _, ok := graph.edgeBySides[pair]; !ok {
				complain("start adjacency of %d references a missing edge to %d", id, entry.ID)
			}
		}
	}
	for id, entries := range graph.edgesOnEnd {
		for _, entry := range entries {
			pair := MakeSidePair(Side{NodeID: id, IsEnd: true}, farSideOfEndEntry(entry))
			if _, ok := graph.edgeBySides[pair]; !ok {
				complain("end adjacency of %d references a missing edge to %d", id, entry.ID)
			}
		}
	}
	graph.Paths.ForEachPath(func(path *Path) {
		for _, step := range path.Steps {
			if !graph.HasNode(step.NodeID) {
				complain("path %v visits missing node %d", path.Name, step.NodeID)
			}
		}
	})
	return valid
}

// sideIndexed reports whether the adjacency list of one edge endpoint holds
// the entry for the edge
func (graph *Graph) sideIndexed(side, far Side) bool {
	var want adjacency
	var list []adjacency
	if side.IsEnd {
		want = adjacency{ID: far.NodeID, Backward: far.IsEnd}
		list = graph.edgesOnEnd[side.NodeID]
	} else {
		want = adjacency{ID: far.NodeID, Backward: !far.IsEnd}
		list = graph.edgesOnStart[side.NodeID]
	}
	for _, entry := range list {
		if entry == want {
			return true
		}
	}
	return false
}
