/*
	tests for the normalizer: sorting, orientation, unchopping and sibling
	simplification
*/
package graph

import (
	"bytes"
	"testing"
)

// buildChainGraph wires the linear chain 1(A) -> 2(C) -> 3(G) -> 4(T) with a path
func buildChainGraph(t *testing.T) *Graph {
	testGraph := NewGraph()
	for id, seq := range map[int64]string{1: "A", 2: "C", 3: "G", 4: "T"} {
		if _, err := testGraph.AddNode([]byte(seq), id); err != nil {
			t.Fatalf("could not add node: %v\n", err)
		}
	}
	for id := int64(1); id < 4; id++ {
		if _, err := testGraph.CreateEdge(Side{NodeID: id, IsEnd: true}, Side{NodeID: id + 1}); err != nil {
			t.Fatalf("could not create edge: %v\n", err)
		}
	}
	testGraph.Paths.AddPath("p",
		Traversal{NodeID: 1}, Traversal{NodeID: 2}, Traversal{NodeID: 3}, Traversal{NodeID: 4})
	return testGraph
}

// this test checks the topological order of a diamond is deterministic with
// ascending tie-breaks
func TestTopologicalOrder(t *testing.T) {
	testGraph := NewGraph()
	for id, seq := range map[int64]string{1: "A", 2: "C", 3: "G", 4: "T"} {
		testGraph.AddNode([]byte(seq), id)
	}
	testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 2})
	testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 3})
	testGraph.CreateEdge(Side{NodeID: 2, IsEnd: true}, Side{NodeID: 4})
	testGraph.CreateEdge(Side{NodeID: 3, IsEnd: true}, Side{NodeID: 4})
	order := testGraph.TopologicalOrder()
	expected := []Traversal{{NodeID: 1}, {NodeID: 2}, {NodeID: 3}, {NodeID: 4}}
	if len(order) != len(expected) {
		t.Fatalf("wrong order length: %v\n", order)
	}
	for i, trav := range expected {
		if order[i] != trav {
			t.Fatalf("topological order is incorrect: %v\n", order)
		}
	}
	testGraph.Sort()
	for i, node := range testGraph.Nodes() {
		if node.ID != expected[i].NodeID {
			t.Fatalf("node array was not reordered to the sort\n")
		}
	}
}

// this test covers orientation: a node attached end-to-end must be flipped
// forward and its edge rewritten
func TestOrientNodesForward(t *testing.T) {
	testGraph := NewGraph()
	testGraph.AddNode([]byte("AC"), 1)
	testGraph.AddNode([]byte("GT"), 2)
	testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 2, IsEnd: true})
	flipped, err := testGraph.OrientNodesForward()
	if err != nil {
		t.Fatalf("could not orient the graph: %v\n", err)
	}
	if len(flipped) != 1 || flipped[0] != 2 {
		t.Fatalf("node 2 should be the only flip, got %v\n", flipped)
	}
	node2, _ := testGraph.GetNode(2)
	if string(node2.Sequence) != "AC" {
		t.Fatalf("node 2 should hold its reverse complement, got %v\n", string(node2.Sequence))
	}
	if !testGraph.HasEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 2, IsEnd: false}) {
		t.Fatalf("edge should now run end to start\n")
	}
	if !testGraph.Validate() {
		t.Fatalf("oriented graph should be valid\n")
	}
}

// this test makes sure orientation does not depend on node insertion order
func TestOrientDeterminism(t *testing.T) {
	build := func(reverseInsert bool) *Graph {
		testGraph := NewGraph()
		ids := []int64{1, 2}
		if reverseInsert {
			ids = []int64{2, 1}
		}
		for _, id := range ids {
			seq := "AC"
			if id == 2 {
				seq = "GT"
			}
			testGraph.AddNode([]byte(seq), id)
		}
		testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 2, IsEnd: true})
		return testGraph
	}
	first := build(false)
	second := build(true)
	firstFlipped, _ := first.OrientNodesForward()
	secondFlipped, _ := second.OrientNodesForward()
	if len(firstFlipped) != len(secondFlipped) {
		t.Fatalf("orientation depended on insertion order\n")
	}
	for i := range firstFlipped {
		if firstFlipped[i] != secondFlipped[i] {
			t.Fatalf("orientation depended on insertion order\n")
		}
	}
}

// this test covers unchop on a linear chain: one node, no edges, and the path
// rewritten to a single visit
func TestUnchop(t *testing.T) {
	testGraph := buildChainGraph(t)
	seqBefore, _ := testGraph.PathSequence("p")
	merges := testGraph.Unchop()
	if merges != 1 {
		t.Fatalf("expected one merge, got %d\n", merges)
	}
	if testGraph.NodeCount() != 1 || testGraph.EdgeCount() != 0 {
		t.Fatalf("chain should collapse to a single unconnected node\n")
	}
	mergedNode := testGraph.Nodes()[0]
	if string(mergedNode.Sequence) != "ACGT" {
		t.Fatalf("merged sequence wrong: %v\n", string(mergedNode.Sequence))
	}
	path, _ := testGraph.Paths.GetPath("p")
	if len(path.Steps) != 1 || path.Steps[0].NodeID != mergedNode.ID {
		t.Fatalf("path should visit the merged node exactly once: %v\n", path.Steps)
	}
	seqAfter, _ := testGraph.PathSequence("p")
	if !bytes.Equal(seqBefore, seqAfter) {
		t.Fatalf("unchop changed the path sequence\n")
	}
	// idempotence
	if testGraph.Unchop() != 0 {
		t.Fatalf("a second unchop should be a no-op\n")
	}
}

// this test covers sibling simplification: two branches sharing the prefix CG
// must end up sharing one prefix node
func TestSimplifySiblings(t *testing.T) {
	testGraph := NewGraph()
	testGraph.AddNode([]byte("A"), 1)
	testGraph.AddNode([]byte("CGT"), 2)
	testGraph.AddNode([]byte("CGA"), 3)
	testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 2})
	testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 3})
	testGraph.Paths.AddPath("p1", Traversal{NodeID: 1}, Traversal{NodeID: 2})
	testGraph.Paths.AddPath("p2", Traversal{NodeID: 1}, Traversal{NodeID: 3})
	seq1Before, _ := testGraph.PathSequence("p1")
	seq2Before, _ := testGraph.PathSequence("p2")
	resolved := testGraph.SimplifySiblings()
	if resolved == 0 {
		t.Fatalf("the sibling pair should be resolved\n")
	}
	// the shared CG now sits in one node feeding the two remainders
	if testGraph.EndDegree(1) != 1 {
		t.Fatalf("node 1 should feed a single shared prefix node, got degree %d\n", testGraph.EndDegree(1))
	}
	seq1After, _ := testGraph.PathSequence("p1")
	seq2After, _ := testGraph.PathSequence("p2")
	if !bytes.Equal(seq1Before, seq1After) || !bytes.Equal(seq2Before, seq2After) {
		t.Fatalf("sibling simplification changed a path sequence\n")
	}
	if !testGraph.Validate() {
		t.Fatalf("graph should be valid after sibling simplification\n")
	}
}

// this test runs the full normal form and checks the path space is preserved
func TestNormalize(t *testing.T) {
	testGraph := NewGraph()
	testGraph.AddNode([]byte("A"), 1)
	testGraph.AddNode([]byte("CGT"), 2)
	testGraph.AddNode([]byte("CGA"), 3)
	testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 2})
	testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 3})
	testGraph.Paths.AddPath("p1", Traversal{NodeID: 1}, Traversal{NodeID: 2})
	testGraph.Paths.AddPath("p2", Traversal{NodeID: 1}, Traversal{NodeID: 3})
	seq1Before, _ := testGraph.PathSequence("p1")
	seq2Before, _ := testGraph.PathSequence("p2")
	testGraph.Normalize()
	// A + CG collapse into one prefix node with the two variant tails hanging off
	if testGraph.NodeCount() != 3 {
		t.Fatalf("normal form should have 3 nodes, got %d\n", testGraph.NodeCount())
	}
	if testGraph.TotalNodeLength() != 5 {
		t.Fatalf("normal form should hold 5bp, got %d\n", testGraph.TotalNodeLength())
	}
	seq1After, _ := testGraph.PathSequence("p1")
	seq2After, _ := testGraph.PathSequence("p2")
	if !bytes.Equal(seq1Before, seq1After) || !bytes.Equal(seq2Before, seq2After) {
		t.Fatalf("normalize changed a path sequence\n")
	}
	if !testGraph.Validate() {
		t.Fatalf("normalized graph should be valid\n")
	}
}

// this test makes sure SimpleComponents does not run through a branch point
func TestSimpleComponents(t *testing.T) {
	testGraph := NewGraph()
	for id, seq := range map[int64]string{1: "A", 2: "C", 3: "G", 4: "T"} {
		testGraph.AddNode([]byte(seq), id)
	}
	testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 2})
	testGraph.CreateEdge(Side{NodeID: 2, IsEnd: true}, Side{NodeID: 3})
	testGraph.CreateEdge(Side{NodeID: 2, IsEnd: true}, Side{NodeID: 4})
	for _, component := range testGraph.SimpleComponents() {
		if len(component) > 2 {
			t.Fatalf("no chain should cross the branch at node 2: %v\n", component)
		}
		if len(component) == 2 && !(component[0] == 1 && component[1] == 2) {
			t.Fatalf("only 1-2 is mergeable: %v\n", component)
		}
	}
}
