package graph

// Node is a segment of the variation graph: an id plus a forward DNA sequence.
// Orientation is not a property of a node; a node is always stored forward and
// read backward through a Traversal when needed.
type Node struct {
	ID       int64
	Sequence []byte
}

// Len returns the sequence length of the node in bp
func (node *Node) Len() int {
	return len(node.Sequence)
}

// Null reports whether the node carries no sequence. Null nodes only exist as
// transients during construction and as head/tail wrappers.
func (node *Node) Null() bool {
	return len(node.Sequence) == 0
}
