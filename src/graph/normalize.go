package graph

import (
	"fmt"
	"sort"
)

// cap on sibling simplification rounds; each round strictly shrinks the graph
// so this is only a backstop against pathological inputs
const maxSiblingRounds = 64

/*
	SimpleComponents returns the maximal linear chains of the graph: runs of
	nodes in which every internal link is the sole edge on the end of its left
	node and the sole edge on the start of its right node, in the forward
	orientation. Each chain could be merged into a single node without changing
	the path space of the graph.
*/
func (graph *Graph) SimpleComponents() [][]int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0, len(graph.nodes))
	for id := range graph.nodeByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var components [][]int64
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		member := map[int64]struct{}{id: {}}
		chain := []int64{id}
		for {
			prev, ok := graph.simplePrev(chain[0])
			if !ok {
				break
			}
			if _, cyclic := member[prev]; cyclic {
				break
			}
			member[prev] = struct{}{}
			chain = append([]int64{prev}, chain...)
		}
		for {
			next, ok := graph.simpleNext(chain[len(chain)-1])
			if !ok {
				break
			}
			if _, cyclic := member[next]; cyclic {
				break
			}
			member[next] = struct{}{}
			chain = append(chain, next)
		}
		for _, memberID := range chain {
			seen[memberID] = struct{}{}
		}
		components = append(components, chain)
	}
	return components
}

// simpleNext returns the sole forward successor of a node when the link out of
// its end side is unambiguous on both ends
func (graph *Graph) simpleNext(id int64) (int64, bool) {
	ends := graph.edgesOnEnd[id]
	if len(ends) != 1 || ends[0].Backward || ends[0].ID == id {
		return 0, false
	}
	next := ends[0].ID
	if len(graph.edgesOnStart[next]) != 1 {
		return 0, false
	}
	return next, true
}

// simplePrev returns the sole forward predecessor of a node when the link into
// its start side is unambiguous on both ends
func (graph *Graph) simplePrev(id int64) (int64, bool) {
	starts := graph.edgesOnStart[id]
	if len(starts) != 1 || starts[0].Backward || starts[0].ID == id {
		return 0, false
	}
	prev := starts[0].ID
	if len(graph.edgesOnEnd[prev]) != 1 {
		return 0, false
	}
	return prev, true
}

// Unchop collapses every simple component into a single node and returns the
// number of merges performed. Running it twice changes nothing.
func (graph *Graph) Unchop() int {
	merged := 0
	for _, component := range graph.SimpleComponents() {
		if len(component) < 2 {
			continue
		}
		if _, err := graph.MergeNodes(component); err == nil {
			merged++
		}
	}
	return merged
}

/*
	FullSiblingsTo returns the traversals (other than the given one) whose left
	sides are fed by exactly the same multiset of sides as the given
	traversal's left side. Full from-siblings are the symmetric notion on the
	right side.
*/
func (graph *Graph) FullSiblingsTo(trav Traversal) []Traversal {
	return graph.fullSiblings(trav, true)
}

// FullSiblingsFrom returns the traversals sharing the given traversal's exact
// downstream sides
func (graph *Graph) FullSiblingsFrom(trav Traversal) []Traversal {
	return graph.fullSiblings(trav, false)
}

func (graph *Graph) fullSiblings(trav Traversal, toSide bool) []Traversal {
	key := graph.siblingKey(trav, toSide)
	if key == "" {
		return nil
	}
	var siblings []Traversal
	for _, node := range graph.nodes {
		for _, backward := range []bool{false, true} {
			candidate := Traversal{NodeID: node.ID, Backward: backward}
			if candidate == trav {
				continue
			}
			if graph.siblingKey(candidate, toSide) == key {
				siblings = append(siblings, candidate)
			}
		}
	}
	sortTraversals(siblings)
	return siblings
}

// siblingKey encodes the multiset of sides feeding a traversal's left side (or
// hanging off its right side), empty when there are none
func (graph *Graph) siblingKey(trav Traversal, toSide bool) string {
	var sides []Side
	if toSide {
		sides = graph.SidesTo(trav.LeftSide())
	} else {
		sides = graph.SidesFrom(trav.RightSide())
	}
	if len(sides) == 0 {
		return ""
	}
	key := ""
	for _, side := range sides {
		key += fmt.Sprintf("%d.%v;", side.NodeID, side.IsEnd)
	}
	return key
}

/*
	SimplifySiblings removes easily resolvable redundancy: every maximal set of
	full to-siblings sharing a sequence prefix is split at the prefix boundary
	and the prefix nodes merged into one, and symmetrically for from-siblings
	sharing a suffix. The passes repeat until a fixpoint. Returns the number of
	sibling sets resolved.
*/
func (graph *Graph) SimplifySiblings() int {
	resolved := 0
	for round := 0; round < maxSiblingRounds; round++ {
		changed := graph.simplifySiblingPass(true)
		changed += graph.simplifySiblingPass(false)
		if changed == 0 {
			break
		}
		resolved += changed
	}
	return resolved
}

// simplifySiblingPass resolves every node-disjoint sibling group found in one
// sweep and reports how many were resolved
func (graph *Graph) simplifySiblingPass(toSide bool) int {
	groups := graph.siblingGroups(toSide)
	touched := make(map[int64]struct{})
	resolved := 0
	for _, group := range groups {
		overlap := false
		for _, trav := range group {
			if _, ok := touched[trav.NodeID]; ok {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		if graph.resolveSiblingGroup(group, toSide) {
			for _, trav := range group {
				touched[trav.NodeID] = struct{}{}
			}
			resolved++
		}
	}
	return resolved
}

// siblingGroups collects the maximal full sibling sets of size > 1 whose
// members sit on distinct nodes, in a deterministic order
func (graph *Graph) siblingGroups(toSide bool) [][]Traversal {
	byKey := make(map[string][]Traversal)
	var keys []string
	for _, node := range graph.nodes {
		for _, backward := range []bool{false, true} {
			trav := Traversal{NodeID: node.ID, Backward: backward}
			key := graph.siblingKey(trav, toSide)
			if key == "" {
				continue
			}
			if _, ok := byKey[key]; !ok {
				keys = append(keys, key)
			}
			byKey[key] = append(byKey[key], trav)
		}
	}
	sort.Strings(keys)
	var groups [][]Traversal
	for _, key := range keys {
		group := byKey[key]
		if len(group) < 2 {
			continue
		}
		nodesSeen := make(map[int64]struct{})
		distinct := true
		for _, trav := range group {
			if _, ok := nodesSeen[trav.NodeID]; ok {
				distinct = false
				break
			}
			nodesSeen[trav.NodeID] = struct{}{}
		}
		if !distinct {
			continue
		}
		sortTraversals(group)
		groups = append(groups, group)
	}
	return groups
}

/*
	resolveSiblingGroup splits each sibling at the shared prefix (to-siblings)
	or suffix (from-siblings) boundary and merges the shared pieces into one
	node. Siblings whose whole sequence is the shared piece are merged without
	splitting. Reports whether anything was done.
*/
func (graph *Graph) resolveSiblingGroup(group []Traversal, toSide bool) bool {
	shared := graph.sharedSequenceLength(group, toSide)
	if shared == 0 {
		return false
	}
	pieces := make([]Traversal, 0, len(group))
	for _, trav := range group {
		node, err := graph.GetNode(trav.NodeID)
		if err != nil {
			return false
		}
		if node.Len() == shared {
			pieces = append(pieces, trav)
			continue
		}
		var piece Traversal
		switch {
		case toSide && !trav.Backward:
			left, _, err := graph.DivideNode(trav.NodeID, shared)
			if err != nil {
				return false
			}
			piece = Traversal{NodeID: left.ID, Backward: false}
		case toSide && trav.Backward:
			_, right, err := graph.DivideNode(trav.NodeID, node.Len()-shared)
			if err != nil {
				return false
			}
			piece = Traversal{NodeID: right.ID, Backward: true}
		case !toSide && !trav.Backward:
			_, right, err := graph.DivideNode(trav.NodeID, node.Len()-shared)
			if err != nil {
				return false
			}
			piece = Traversal{NodeID: right.ID, Backward: false}
		default:
			left, _, err := graph.DivideNode(trav.NodeID, shared)
			if err != nil {
				return false
			}
			piece = Traversal{NodeID: left.ID, Backward: true}
		}
		pieces = append(pieces, piece)
	}
	representative := pieces[0]
	for _, other := range pieces[1:] {
		graph.foldTraversal(other, representative, toSide)
	}
	return true
}

// sharedSequenceLength returns the length of the common oriented prefix
// (to-siblings) or suffix (from-siblings) of a sibling group
func (graph *Graph) sharedSequenceLength(group []Traversal, prefix bool) int {
	sequences := make([][]byte, len(group))
	shortest := -1
	for i, trav := range group {
		sequences[i] = graph.TraversalSequence(trav)
		if shortest < 0 || len(sequences[i]) < shortest {
			shortest = len(sequences[i])
		}
	}
	shared := 0
	for shared < shortest {
		var expect byte
		match := true
		for i, sequence := range sequences {
			var base byte
			if prefix {
				base = sequence[shared]
			} else {
				base = sequence[len(sequence)-1-shared]
			}
			if i == 0 {
				expect = base
			} else if base != expect {
				match = false
				break
			}
		}
		if !match {
			break
		}
		shared++
	}
	return shared
}

/*
	foldTraversal merges one shared sibling piece into the representative: the
	edges on its open side (right for to-siblings, left for from-siblings) are
	re-anchored onto the representative's matching side, path visits follow,
	and the folded node is destroyed. The closed-side edges are identical to
	the representative's by the full-sibling property, so they simply vanish
	with the folded node.
*/
func (graph *Graph) foldTraversal(other, representative Traversal, toSide bool) {
	var openFar []Side
	var repSide Side
	if toSide {
		openFar = graph.SidesFrom(other.RightSide())
		repSide = representative.RightSide()
	} else {
		openFar = graph.SidesTo(other.LeftSide())
		repSide = representative.LeftSide()
	}
	for _, far := range openFar {
		if far.NodeID == other.NodeID {
			// a self edge follows the fold onto the representative
			if far == other.RightSide() {
				far = representative.RightSide()
			} else {
				far = representative.LeftSide()
			}
		}
		graph.CreateEdge(repSide, far)
	}
	graph.Paths.rewriteSteps(other.NodeID, func(step Traversal) []Traversal {
		backward := representative.Backward
		if step.Backward != other.Backward {
			backward = !backward
		}
		return []Traversal{{NodeID: representative.NodeID, Backward: backward}}
	})
	graph.DestroyNode(other.NodeID)
}

// Normalize simplifies the graph into a normalized form by unchopping,
// resolving sibling redundancy, and unchopping again
func (graph *Graph) Normalize() {
	graph.Unchop()
	graph.SimplifySiblings()
	graph.Unchop()
}
