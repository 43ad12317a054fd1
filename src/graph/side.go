package graph

// Side identifies one end of a node for the purposes of indexing edges.
// A node has a start side (IsEnd=false) and an end side (IsEnd=true).
type Side struct {
	NodeID int64
	IsEnd  bool
}

// Less imposes a total order on sides (node id first, start before end)
func (side Side) Less(other Side) bool {
	if side.NodeID != other.NodeID {
		return side.NodeID < other.NodeID
	}
	return !side.IsEnd && other.IsEnd
}

// Opposite returns the other side of the same node
func (side Side) Opposite() Side {
	return Side{NodeID: side.NodeID, IsEnd: !side.IsEnd}
}

// SidePair is the canonical (unordered) pair of sides an edge connects.
// All edge lookups go through this key, so callers may name the sides in either order.
type SidePair struct {
	A Side
	B Side
}

// MakeSidePair orders two sides into their canonical pair
func MakeSidePair(a, b Side) SidePair {
	if b.Less(a) {
		a, b = b, a
	}
	return SidePair{A: a, B: b}
}

/*
	Traversal represents a node read in a certain orientation. The default
	orientation enters at the start and leaves at the end; if Backward is set
	the node is read end to start (reverse complement). A traversal has a left
	and a right side, which are the start and end of the node if it is forward,
	or the end and start if it is backward.
*/
type Traversal struct {
	NodeID   int64
	Backward bool
}

// Less imposes a total order on traversals (node id first, forward before backward)
func (trav Traversal) Less(other Traversal) bool {
	if trav.NodeID != other.NodeID {
		return trav.NodeID < other.NodeID
	}
	return !trav.Backward && other.Backward
}

// LeftSide returns the side the traversal is entered through
func (trav Traversal) LeftSide() Side {
	return Side{NodeID: trav.NodeID, IsEnd: trav.Backward}
}

// RightSide returns the side the traversal is left through
func (trav Traversal) RightSide() Side {
	return Side{NodeID: trav.NodeID, IsEnd: !trav.Backward}
}

// Reverse returns the traversal read the other way around
func (trav Traversal) Reverse() Traversal {
	return Traversal{NodeID: trav.NodeID, Backward: !trav.Backward}
}

/*
	adjacency is one entry in a node side's edge list: the node on the far end
	of the edge plus a relative orientation flag. An entry (o, f) on the start
	of node n denotes the edge minmax(Side{n,start}, Side{o,!f}); an entry on
	the end of n denotes minmax(Side{n,end}, Side{o,f}). Storing the relative
	flag rather than the far side keeps the entries stable when the far node
	is renumbered in place.
*/
type adjacency struct {
	ID       int64
	Backward bool
}

// farSideOfStartEntry resolves an entry on a node's start side to the side it connects to
func farSideOfStartEntry(entry adjacency) Side {
	return Side{NodeID: entry.ID, IsEnd: !entry.Backward}
}

// farSideOfEndEntry resolves an entry on a node's end side to the side it connects to
func farSideOfEndEntry(entry adjacency) Side {
	return Side{NodeID: entry.ID, IsEnd: entry.Backward}
}
