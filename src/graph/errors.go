package graph

import "errors"

// the error kinds surfaced by graph mutations; callers can test for them with errors.Is
var (
	// ErrMissingNode is returned when an operation references a node that is not in the graph
	ErrMissingNode = errors.New("node not found in graph")

	// ErrMissingEdge is returned when an operation references an edge that is not in the graph
	ErrMissingEdge = errors.New("edge not found in graph")

	// ErrDuplicateID is returned when a node is created with an id already in use
	ErrDuplicateID = errors.New("node id already in use")

	// ErrOffsetOutOfRange is returned when a node division offset does not fall strictly inside the sequence
	ErrOffsetOutOfRange = errors.New("divide offset out of range")

	// ErrNotSimple is returned when a merge is requested on nodes that do not form a simple linear component
	ErrNotSimple = errors.New("nodes do not form a simple component")

	// ErrInvalidOrientation is returned when an operation requiring forward heads and tails finds a backward one
	ErrInvalidOrientation = errors.New("graph orientation invalid")

	// ErrInvariantBroken is returned when an internal consistency check fails; callers should treat it as fatal
	ErrInvariantBroken = errors.New("graph invariant broken")
)
