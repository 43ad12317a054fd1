package graph

/*
	Edge connects two node sides. The from/to direction is nominal: the graph
	is bidirected and the identity of an edge is the canonical pair of the two
	sides it connects. FromStart and ToEnd select which side of each endpoint
	the edge attaches to; with both unset the edge runs end-of-from to
	start-of-to.
*/
type Edge struct {
	From      int64
	To        int64
	FromStart bool
	ToEnd     bool
}

// FromSide returns the side of the from node the edge attaches to
func (edge *Edge) FromSide() Side {
	return Side{NodeID: edge.From, IsEnd: !edge.FromStart}
}

// ToSide returns the side of the to node the edge attaches to
func (edge *Edge) ToSide() Side {
	return Side{NodeID: edge.To, IsEnd: edge.ToEnd}
}

// SidePair returns the canonical key for the edge
func (edge *Edge) SidePair() SidePair {
	return MakeSidePair(edge.FromSide(), edge.ToSide())
}
