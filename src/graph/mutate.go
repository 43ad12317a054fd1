package graph

import (
	"bytes"
	"fmt"
	"sort"
)

/*
	DivideNode splits a forward node at an offset strictly inside its sequence.
	Both halves are new nodes: edges on the original start side move to the
	left half's start, edges on the end side move to the right half's end, and
	a fresh edge joins left.end to right.start. Every path visit of the
	original is rewritten in place, forward visits becoming left-then-right and
	backward visits right-then-left. The original node is destroyed.
*/
func (graph *Graph) DivideNode(id int64, offset int) (*Node, *Node, error) {
	node, err := graph.GetNode(id)
	if err != nil {
		return nil, nil, err
	}
	if offset <= 0 || offset >= node.Len() {
		return nil, nil, fmt.Errorf("%w: %d not inside (0,%d)", ErrOffsetOutOfRange, offset, node.Len())
	}
	left := graph.CreateNode(node.Sequence[:offset])
	right := graph.CreateNode(node.Sequence[offset:])
	mapSide := func(side Side) Side {
		if side.NodeID != id {
			return side
		}
		if side.IsEnd {
			return Side{NodeID: right.ID, IsEnd: true}
		}
		return Side{NodeID: left.ID, IsEnd: false}
	}
	for _, edge := range graph.EdgesOfNode(id) {
		if _, err := graph.CreateEdge(mapSide(edge.FromSide()), mapSide(edge.ToSide())); err != nil {
			return nil, nil, err
		}
	}
	if _, err := graph.CreateEdge(Side{NodeID: left.ID, IsEnd: true}, Side{NodeID: right.ID, IsEnd: false}); err != nil {
		return nil, nil, err
	}
	graph.Paths.rewriteSteps(id, func(step Traversal) []Traversal {
		if step.Backward {
			return []Traversal{
				{NodeID: right.ID, Backward: true},
				{NodeID: left.ID, Backward: true},
			}
		}
		return []Traversal{
			{NodeID: left.ID, Backward: false},
			{NodeID: right.ID, Backward: false},
		}
	})
	if err := graph.DestroyNode(id); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

/*
	MergeNodes concatenates a simple linear chain of forward nodes into a
	single new node. Each internal link of the chain must be the only edge on
	the end of its left node and the only edge on the start of its right node,
	running end to start in the forward orientation. External edges of the
	chain are re-anchored to the new node and paths are rewritten so that a
	run of visits through the chain becomes a single visit.
*/
func (graph *Graph) MergeNodes(chain []int64) (*Node, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: empty chain", ErrNotSimple)
	}
	inChain := make(map[int64]int, len(chain))
	var concat []byte
	for position, id := range chain {
		node, err := graph.GetNode(id)
		if err != nil {
			return nil, err
		}
		if _, ok := inChain[id]; ok {
			return nil, fmt.Errorf("%w: node %d repeated in chain", ErrNotSimple, id)
		}
		inChain[id] = position
		concat = append(concat, node.Sequence...)
	}
	for i := 0; i < len(chain)-1; i++ {
		leftID, rightID := chain[i], chain[i+1]
		endEntries := graph.edgesOnEnd[leftID]
		if len(endEntries) != 1 || endEntries[0] != (adjacency{ID: rightID, Backward: false}) {
			return nil, fmt.Errorf("%w: %d does not link only to %d", ErrNotSimple, leftID, rightID)
		}
		if len(graph.edgesOnStart[rightID]) != 1 {
			return nil, fmt.Errorf("%w: %d has more than one predecessor", ErrNotSimple, rightID)
		}
	}
	merged := graph.CreateNode(concat)
	first, last := chain[0], chain[len(chain)-1]
	mapExternal := func(side Side) Side {
		if side.NodeID == first && !side.IsEnd {
			return Side{NodeID: merged.ID, IsEnd: false}
		}
		if side.NodeID == last && side.IsEnd {
			return Side{NodeID: merged.ID, IsEnd: true}
		}
		return side
	}
	for _, entry := range append([]adjacency(nil), graph.edgesOnStart[first]...) {
		if _, err := graph.CreateEdge(Side{NodeID: merged.ID, IsEnd: false}, mapExternal(farSideOfStartEntry(entry))); err != nil {
			return nil, err
		}
	}
	for _, entry := range append([]adjacency(nil), graph.edgesOnEnd[last]...) {
		if _, err := graph.CreateEdge(Side{NodeID: merged.ID, IsEnd: true}, mapExternal(farSideOfEndEntry(entry))); err != nil {
			return nil, err
		}
	}
	graph.rewriteChainVisits(inChain, merged.ID)
	for _, id := range chain {
		if err := graph.DestroyNode(id); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// rewriteChainVisits collapses each run of path visits through a merged chain
// into a single visit of the replacement node
func (graph *Graph) rewriteChainVisits(inChain map[int64]int, mergedID int64) {
	graph.Paths.ForEachPath(func(path *Path) {
		var rewritten []Traversal
		i := 0
		for i < len(path.Steps) {
			step := path.Steps[i]
			position, ok := inChain[step.NodeID]
			if !ok {
				rewritten = append(rewritten, step)
				i++
				continue
			}
			j := i + 1
			if !step.Backward {
				for j < len(path.Steps) && !path.Steps[j].Backward {
					next, ok := inChain[path.Steps[j].NodeID]
					if !ok || next != position+1 {
						break
					}
					position = next
					j++
				}
				rewritten = append(rewritten, Traversal{NodeID: mergedID, Backward: false})
			} else {
				for j < len(path.Steps) && path.Steps[j].Backward {
					next, ok := inChain[path.Steps[j].NodeID]
					if !ok || next != position-1 {
						break
					}
					position = next
					j++
				}
				rewritten = append(rewritten, Traversal{NodeID: mergedID, Backward: true})
			}
			i = j
		}
		path.Steps = rewritten
	})
}

// renumber applies a node id mapping to the arenas and paths, then rebuilds
// the indexes
func (graph *Graph) renumber(mapping func(int64) int64) {
	for _, node := range graph.nodes {
		node.ID = mapping(node.ID)
	}
	for _, edge := range graph.edges {
		edge.From = mapping(edge.From)
		edge.To = mapping(edge.To)
	}
	graph.Paths.renumber(mapping)
	graph.currentID = 0
	graph.RebuildIndexes()
}

// CompactIDs renumbers all nodes 1..N in current iteration order, rewriting
// every edge and path to match
func (graph *Graph) CompactIDs() {
	mapping := make(map[int64]int64, len(graph.nodes))
	for position, node := range graph.nodes {
		mapping[node.ID] = int64(position + 1)
	}
	graph.renumber(func(id int64) int64 { return mapping[id] })
}

// IncrementNodeIDs shifts every node id up by the given amount
func (graph *Graph) IncrementNodeIDs(increment int64) {
	graph.renumber(func(id int64) int64 { return id + increment })
}

// DecrementNodeIDs shifts every node id down by the given amount; the shift
// must not produce a zero or negative id
func (graph *Graph) DecrementNodeIDs(decrement int64) error {
	if min := graph.MinNodeID(); min != 0 && min <= decrement {
		return fmt.Errorf("decrement of %d would produce non-positive node id from %d", decrement, min)
	}
	graph.renumber(func(id int64) int64 { return id - decrement })
	return nil
}

// SwapNodeID changes a node's id to an unused one. Paths containing the node
// cannot be kept consistent and are removed; their names are returned.
func (graph *Graph) SwapNodeID(oldID, newID int64) ([]string, error) {
	if !graph.HasNode(oldID) {
		return nil, fmt.Errorf("%w: %d", ErrMissingNode, oldID)
	}
	if newID <= 0 {
		return nil, fmt.Errorf("new node id must be positive: %d", newID)
	}
	if graph.HasNode(newID) {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateID, newID)
	}
	invalidated := graph.Paths.PathsContaining(oldID)
	for _, name := range invalidated {
		graph.Paths.RemovePath(name)
	}
	graph.renumber(func(id int64) int64 {
		if id == oldID {
			return newID
		}
		return id
	})
	return invalidated, nil
}

/*
	RemoveNullNodesForwardingEdges destroys every node with an empty sequence
	after synthesizing the transitive closure across it: each side feeding the
	null node's start is connected to each side hanging off its end, preserving
	orientations. Chains of null nodes collapse one at a time.
*/
func (graph *Graph) RemoveNullNodesForwardingEdges() {
	var nulls []int64
	for _, node := range graph.nodes {
		if node.Null() {
			nulls = append(nulls, node.ID)
		}
	}
	sort.Slice(nulls, func(i, j int) bool { return nulls[i] < nulls[j] })
	for _, id := range nulls {
		if !graph.HasNode(id) {
			continue
		}
		starts := append([]adjacency(nil), graph.edgesOnStart[id]...)
		ends := append([]adjacency(nil), graph.edgesOnEnd[id]...)
		for _, prev := range starts {
			if prev.ID == id {
				continue
			}
			for _, next := range ends {
				if next.ID == id {
					continue
				}
				if _, err := graph.CreateEdge(farSideOfStartEntry(prev), farSideOfEndEntry(next)); err != nil {
					continue
				}
			}
		}
		graph.DestroyNode(id)
	}
}

// RemoveOrphanEdges drops edges for which an endpoint node is no longer present
func (graph *Graph) RemoveOrphanEdges() {
	orphans := []*Edge{}
	for _, edge := range graph.edges {
		if !graph.HasNode(edge.From) || !graph.HasNode(edge.To) {
			orphans = append(orphans, edge)
		}
	}
	for _, edge := range orphans {
		graph.unindexEdge(edge)
		graph.removeEdgeFromArena(edge)
	}
}

/*
	KeepPaths destroys everything not touched by the named paths: nodes with no
	visit from a kept path, and edges not crossed between consecutive kept path
	steps (including edges that merely connect two kept nodes). Paths not named
	are dropped. The names actually found are returned.
*/
func (graph *Graph) KeepPaths(names []string) []string {
	kept := make(map[string]struct{})
	keptNodes := make(map[int64]struct{})
	keptEdges := make(map[SidePair]struct{})
	for _, name := range names {
		path, err := graph.Paths.GetPath(name)
		if err != nil {
			continue
		}
		kept[name] = struct{}{}
		for i, step := range path.Steps {
			keptNodes[step.NodeID] = struct{}{}
			if i > 0 {
				keptEdges[MakeSidePair(path.Steps[i-1].RightSide(), step.LeftSide())] = struct{}{}
			}
		}
	}
	for _, name := range graph.Paths.PathNames() {
		if _, ok := kept[name]; !ok {
			graph.Paths.RemovePath(name)
		}
	}
	doomed := []int64{}
	for _, node := range graph.nodes {
		if _, ok := keptNodes[node.ID]; !ok {
			doomed = append(doomed, node.ID)
		}
	}
	for _, id := range doomed {
		graph.DestroyNode(id)
	}
	doomedEdges := []*Edge{}
	for _, edge := range graph.edges {
		if _, ok := keptEdges[edge.SidePair()]; !ok {
			doomedEdges = append(doomedEdges, edge)
		}
	}
	for _, edge := range doomedEdges {
		graph.unindexEdge(edge)
		graph.removeEdgeFromArena(edge)
	}
	keptNames := make([]string, 0, len(kept))
	for name := range kept {
		keptNames = append(keptNames, name)
	}
	sort.Strings(keptNames)
	return keptNames
}

// RemoveNonPath destroys every node and edge not used by any path
func (graph *Graph) RemoveNonPath() {
	graph.KeepPaths(graph.Paths.PathNames())
}

// DiceNodes divides every node longer than the cap into pieces no longer than it
func (graph *Graph) DiceNodes(maxNodeSize int) error {
	if maxNodeSize <= 0 {
		return fmt.Errorf("node size cap must be positive: %d", maxNodeSize)
	}
	oversize := []int64{}
	for _, node := range graph.nodes {
		if node.Len() > maxNodeSize {
			oversize = append(oversize, node.ID)
		}
	}
	for _, id := range oversize {
		currentID := id
		for {
			node, err := graph.GetNode(currentID)
			if err != nil {
				return err
			}
			if node.Len() <= maxNodeSize {
				break
			}
			_, right, err := graph.DivideNode(currentID, maxNodeSize)
			if err != nil {
				return err
			}
			currentID = right.ID
		}
	}
	return nil
}

// JoinHeads connects a node to every current head of the graph, leaving the
// node through its end (or its start when fromStart is set)
func (graph *Graph) JoinHeads(node *Node, fromStart bool) {
	side := Side{NodeID: node.ID, IsEnd: !fromStart}
	for _, head := range graph.HeadNodes() {
		if head.ID == node.ID {
			continue
		}
		graph.CreateEdge(side, Side{NodeID: head.ID, IsEnd: false})
	}
}

// JoinTails connects every current tail of the graph to a node, entering the
// node through its start (or its end when toEnd is set)
func (graph *Graph) JoinTails(node *Node, toEnd bool) {
	side := Side{NodeID: node.ID, IsEnd: toEnd}
	for _, tail := range graph.TailNodes() {
		if tail.ID == node.ID {
			continue
		}
		graph.CreateEdge(Side{NodeID: tail.ID, IsEnd: true}, side)
	}
}

// WrapWithNullNodes brackets the graph between two fresh empty nodes: one
// joined to every head and one joined from every tail
func (graph *Graph) WrapWithNullNodes() (*Node, *Node) {
	heads := graph.HeadNodes()
	tails := graph.TailNodes()
	head := graph.CreateNode(nil)
	for _, h := range heads {
		graph.CreateEdge(Side{NodeID: head.ID, IsEnd: true}, Side{NodeID: h.ID, IsEnd: false})
	}
	tail := graph.CreateNode(nil)
	for _, t := range tails {
		graph.CreateEdge(Side{NodeID: t.ID, IsEnd: true}, Side{NodeID: tail.ID, IsEnd: false})
	}
	return head, tail
}

/*
	AddStartEndMarkers creates a start node connected to every current head and
	an end node connected from every current tail, each carrying the marker
	character repeated to the requested length. Connected components with no
	head or no tail (cycles in particular) are bracketed through an arbitrary
	representative so that every component sits between the two markers.
	Explicit marker ids may be supplied; zero asks the graph to generate them.
*/
func (graph *Graph) AddStartEndMarkers(length int, startChar, endChar byte, startID, endID int64) (*Node, *Node, error) {
	heads := graph.HeadNodes()
	tails := graph.TailNodes()
	headSet := make(map[int64]struct{}, len(heads))
	for _, h := range heads {
		headSet[h.ID] = struct{}{}
	}
	tailSet := make(map[int64]struct{}, len(tails))
	for _, t := range tails {
		tailSet[t.ID] = struct{}{}
	}
	components := graph.connectedComponents()
	start, err := graph.AddNode(bytes.Repeat([]byte{startChar}, length), startID)
	if err != nil {
		return nil, nil, err
	}
	end, err := graph.AddNode(bytes.Repeat([]byte{endChar}, length), endID)
	if err != nil {
		return nil, nil, err
	}
	for _, h := range heads {
		if _, err := graph.CreateEdge(Side{NodeID: start.ID, IsEnd: true}, Side{NodeID: h.ID, IsEnd: false}); err != nil {
			return nil, nil, err
		}
	}
	for _, t := range tails {
		if _, err := graph.CreateEdge(Side{NodeID: t.ID, IsEnd: true}, Side{NodeID: end.ID, IsEnd: false}); err != nil {
			return nil, nil, err
		}
	}
	for _, component := range components {
		hasHead, hasTail := false, false
		for _, id := range component {
			if _, ok := headSet[id]; ok {
				hasHead = true
			}
			if _, ok := tailSet[id]; ok {
				hasTail = true
			}
		}
		representative := component[0]
		if !hasHead {
			if _, err := graph.CreateEdge(Side{NodeID: start.ID, IsEnd: true}, Side{NodeID: representative, IsEnd: false}); err != nil {
				return nil, nil, err
			}
		}
		if !hasTail {
			if _, err := graph.CreateEdge(Side{NodeID: representative, IsEnd: true}, Side{NodeID: end.ID, IsEnd: false}); err != nil {
				return nil, nil, err
			}
		}
	}
	return start, end, nil
}
