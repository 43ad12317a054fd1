/*
	tests for graph serialization: the chunked stream, GFA and the store
*/
package graph

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

// buildIOGraph wires a small graph with a reversing edge and a path
func buildIOGraph(t *testing.T) *Graph {
	testGraph := NewGraph()
	testGraph.Name = "test-graph"
	for id, seq := range map[int64]string{1: "AC", 2: "GT", 3: "TT", 4: "GG", 5: "CA"} {
		if _, err := testGraph.AddNode([]byte(seq), id); err != nil {
			t.Fatalf("could not add node: %v\n", err)
		}
	}
	testGraph.CreateEdge(Side{NodeID: 1, IsEnd: true}, Side{NodeID: 2})
	testGraph.CreateEdge(Side{NodeID: 2, IsEnd: true}, Side{NodeID: 3})
	testGraph.CreateEdge(Side{NodeID: 3, IsEnd: true}, Side{NodeID: 4, IsEnd: true})
	testGraph.CreateEdge(Side{NodeID: 4}, Side{NodeID: 5})
	testGraph.Paths.AddPath("hap1",
		Traversal{NodeID: 1}, Traversal{NodeID: 2}, Traversal{NodeID: 3}, Traversal{NodeID: 4, Backward: true})
	return testGraph
}

// isomorphicCheck compares two graphs node by node, edge by edge and path by path
func isomorphicCheck(t *testing.T, a, b *Graph) {
	if a.NodeCount() != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		t.Fatalf("graph shapes differ: %d/%d nodes, %d/%d edges\n",
			a.NodeCount(), b.NodeCount(), a.EdgeCount(), b.EdgeCount())
	}
	for _, node := range a.Nodes() {
		other, err := b.GetNode(node.ID)
		if err != nil {
			t.Fatalf("node %d missing after round trip\n", node.ID)
		}
		if !bytes.Equal(node.Sequence, other.Sequence) {
			t.Fatalf("node %d sequence changed\n", node.ID)
		}
	}
	for _, edge := range a.Edges() {
		if !b.HasEdge(edge.FromSide(), edge.ToSide()) {
			t.Fatalf("edge %d-%d missing after round trip\n", edge.From, edge.To)
		}
	}
	aNames, bNames := a.Paths.PathNames(), b.Paths.PathNames()
	if len(aNames) != len(bNames) {
		t.Fatalf("path sets differ\n")
	}
	for _, name := range aNames {
		aSeq, err := a.PathSequence(name)
		if err != nil {
			t.Fatalf("could not read path %v: %v\n", name, err)
		}
		bSeq, err := b.PathSequence(name)
		if err != nil {
			t.Fatalf("path %v missing after round trip: %v\n", name, err)
		}
		if !bytes.Equal(aSeq, bSeq) {
			t.Fatalf("path %v sequence changed\n", name)
		}
	}
}

// this test round-trips the chunked stream with a chunk size that forces
// several chunks
func TestStreamRoundTrip(t *testing.T) {
	testGraph := buildIOGraph(t)
	var buf bytes.Buffer
	if err := testGraph.SerializeToStream(&buf, 2); err != nil {
		t.Fatalf("could not serialize: %v\n", err)
	}
	loaded, err := DeserializeFromStream(&buf)
	if err != nil {
		t.Fatalf("could not deserialize: %v\n", err)
	}
	if loaded.Name != "test-graph" {
		t.Fatalf("graph name lost in the stream\n")
	}
	isomorphicCheck(t, testGraph, loaded)
	if !loaded.Validate() {
		t.Fatalf("round-tripped graph should be valid\n")
	}
}

// this test makes sure Extend drops duplicates rather than overwriting
func TestExtendDuplicates(t *testing.T) {
	testGraph := NewGraph()
	testGraph.AddNode([]byte("AC"), 1)
	chunk := &GraphChunk{
		Nodes: []Node{{ID: 1, Sequence: []byte("TTTT")}, {ID: 2, Sequence: []byte("GG")}},
		Edges: []Edge{{From: 1, To: 2}},
	}
	if err := testGraph.Extend(chunk, true); err != nil {
		t.Fatalf("could not extend: %v\n", err)
	}
	node1, _ := testGraph.GetNode(1)
	if string(node1.Sequence) != "AC" {
		t.Fatalf("duplicate node should be dropped, not overwrite\n")
	}
	if !testGraph.HasNode(2) || testGraph.EdgeCount() != 1 {
		t.Fatalf("novel entities should still be added\n")
	}
	// extending with the same chunk again changes nothing
	if err := testGraph.Extend(chunk, false); err != nil {
		t.Fatalf("could not re-extend: %v\n", err)
	}
	if testGraph.NodeCount() != 2 || testGraph.EdgeCount() != 1 {
		t.Fatalf("re-extending duplicated entities\n")
	}
}

// this test round-trips GFA through a file on disk
func TestGFARoundTrip(t *testing.T) {
	testGraph := buildIOGraph(t)
	tmpDir, err := ioutil.TempDir("", "pangraph-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)
	fileName := filepath.Join(tmpDir, "roundtrip.gfa")
	if err := testGraph.SaveGFA(fileName); err != nil {
		t.Fatalf("could not save GFA: %v\n", err)
	}
	gfaInstance, err := LoadGFA(fileName)
	if err != nil {
		t.Fatalf("could not load GFA: %v\n", err)
	}
	loaded, err := FromGFA(gfaInstance, "roundtrip")
	if err != nil {
		t.Fatalf("could not build graph from GFA: %v\n", err)
	}
	isomorphicCheck(t, testGraph, loaded)
	if !loaded.Validate() {
		t.Fatalf("round-tripped graph should be valid\n")
	}
}

// this test dumps and loads a store through gob
func TestStoreDumpLoad(t *testing.T) {
	testGraph := buildIOGraph(t)
	store := make(Store)
	store[testGraph.Name] = testGraph
	tmpDir, err := ioutil.TempDir("", "pangraph-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)
	dump := filepath.Join(tmpDir, "graphs.store")
	if err := store.Dump(dump); err != nil {
		t.Fatalf("could not dump the store: %v\n", err)
	}
	loadedStore := make(Store)
	if err := loadedStore.Load(dump); err != nil {
		t.Fatalf("could not load the store: %v\n", err)
	}
	loaded, ok := loadedStore["test-graph"]
	if !ok {
		t.Fatalf("graph missing from the loaded store\n")
	}
	isomorphicCheck(t, testGraph, loaded)
	refs, err := loadedStore.GetSAMRefs()
	if err != nil {
		t.Fatalf("could not build SAM references: %v\n", err)
	}
	if len(refs["test-graph"]) != 1 || refs["test-graph"][0].Name() != "hap1" {
		t.Fatalf("unexpected SAM references: %v\n", refs)
	}
	if refs["test-graph"][0].Len() != 8 {
		t.Fatalf("reference length should match the path, got %d\n", refs["test-graph"][0].Len())
	}
}
