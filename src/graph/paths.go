package graph

import (
	"fmt"
	"sort"

	"github.com/pangraph/pangraph/src/seqio"
)

// Path is a named ordered sequence of oriented node visits. Paths are purely
// logical: a path may visit a node any number of times and in either orientation.
type Path struct {
	Name  string
	Steps []Traversal
}

/*
	PathStore manages the named paths of a graph. It is rewritten in place by
	the mutators: dividing a node replaces each visit with visits of the two
	halves, merging a chain collapses runs of visits into one, and renumbering
	follows the nodes to their new ids.
*/
type PathStore struct {
	paths map[string]*Path
}

// NewPathStore is the PathStore constructor
func NewPathStore() *PathStore {
	return &PathStore{paths: make(map[string]*Path)}
}

// AddPath records a named path; an existing path with the same name is replaced
func (store *PathStore) AddPath(name string, steps ...Traversal) *Path {
	stepsCopy := make([]Traversal, len(steps))
	copy(stepsCopy, steps)
	newPath := &Path{Name: name, Steps: stepsCopy}
	store.paths[name] = newPath
	return newPath
}

// AppendStep adds a visit to the end of a named path, creating the path if needed
func (store *PathStore) AppendStep(name string, step Traversal) {
	path, ok := store.paths[name]
	if !ok {
		path = store.AddPath(name)
	}
	path.Steps = append(path.Steps, step)
}

// HasPath reports whether a path with the given name is held
func (store *PathStore) HasPath(name string) bool {
	_, ok := store.paths[name]
	return ok
}

// GetPath returns the named path
func (store *PathStore) GetPath(name string) (*Path, error) {
	path, ok := store.paths[name]
	if !ok {
		return nil, fmt.Errorf("no path with name: %v", name)
	}
	return path, nil
}

// RemovePath drops the named path
func (store *PathStore) RemovePath(name string) {
	delete(store.paths, name)
}

// PathCount returns the number of paths held
func (store *PathStore) PathCount() int {
	return len(store.paths)
}

// PathNames returns the held path names in ascending order
func (store *PathStore) PathNames() []string {
	names := make([]string, 0, len(store.paths))
	for name := range store.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForEachPath visits every path in name order
func (store *PathStore) ForEachPath(visit func(*Path)) {
	for _, name := range store.PathNames() {
		visit(store.paths[name])
	}
}

// ForEachStep visits every step of the named path in order
func (store *PathStore) ForEachStep(name string, visit func(Traversal)) {
	if path, ok := store.paths[name]; ok {
		for _, step := range path.Steps {
			visit(step)
		}
	}
}

// PathsContaining returns the names of paths with a visit to the given node
func (store *PathStore) PathsContaining(id int64) []string {
	var names []string
	for _, name := range store.PathNames() {
		for _, step := range store.paths[name].Steps {
			if step.NodeID == id {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// removeNode drops every visit to the given node from every path
func (store *PathStore) removeNode(id int64) {
	for _, path := range store.paths {
		kept := path.Steps[:0]
		for _, step := range path.Steps {
			if step.NodeID != id {
				kept = append(kept, step)
			}
		}
		path.Steps = kept
	}
}

// rewriteSteps replaces every visit to the given node using the supplied
// expansion, which maps an old visit to its replacement visits
func (store *PathStore) rewriteSteps(id int64, expand func(Traversal) []Traversal) {
	for _, path := range store.paths {
		var rewritten []Traversal
		changed := false
		for _, step := range path.Steps {
			if step.NodeID == id {
				rewritten = append(rewritten, expand(step)...)
				changed = true
			} else {
				rewritten = append(rewritten, step)
			}
		}
		if changed {
			path.Steps = rewritten
		}
	}
}

// renumber follows a node id mapping through every path step
func (store *PathStore) renumber(mapping func(int64) int64) {
	for _, path := range store.paths {
		for i, step := range path.Steps {
			path.Steps[i].NodeID = mapping(step.NodeID)
			path.Steps[i].Backward = step.Backward
		}
	}
}

// PathSequence returns the concatenated oriented sequence of a named path
func (graph *Graph) PathSequence(name string) ([]byte, error) {
	path, err := graph.Paths.GetPath(name)
	if err != nil {
		return nil, err
	}
	var sequence []byte
	for _, step := range path.Steps {
		if !graph.HasNode(step.NodeID) {
			return nil, fmt.Errorf("%w: %d", ErrMissingNode, step.NodeID)
		}
		sequence = append(sequence, graph.TraversalSequence(step)...)
	}
	return sequence, nil
}

// TraversalSequence returns the sequence of a traversal in its reading
// orientation (the reverse complement for a backward traversal)
func (graph *Graph) TraversalSequence(trav Traversal) []byte {
	node, err := graph.GetNode(trav.NodeID)
	if err != nil {
		return nil
	}
	if trav.Backward {
		return seqio.RevComplement(node.Sequence)
	}
	return node.Sequence
}
