/*
	tests for the k-mer producer
*/
package gcsa

import (
	"strings"
	"sync"
	"testing"

	"github.com/pangraph/pangraph/src/graph"
)

// collectKmers runs the merging producer and indexes the records by (kmer, pos)
func collectKmers(g *graph.Graph, kmerSize, edgeMax, stride int) map[string]*KmerPosition {
	records := make(map[string]*KmerPosition)
	ForEachKmer(g, kmerSize, edgeMax, stride, func(record *KmerPosition) {
		records[record.Kmer+"@"+record.Pos] = record
	})
	return records
}

// this test covers the single-node scenario: two windows with their prev/next
// context read off the node itself
func TestKmerSingleNode(t *testing.T) {
	testGraph := graph.NewGraph()
	testGraph.AddNode([]byte("AAGT"), 1)
	records := collectKmers(testGraph, 3, 2, 1)
	if len(records) != 2 {
		t.Fatalf("expected two records, got %d\n", len(records))
	}
	first, ok := records["AAG@1+:0"]
	if !ok {
		t.Fatalf("record AAG at 1+:0 missing\n")
	}
	if len(first.PrevChars) != 0 {
		t.Fatalf("AAG has no predecessor, got prev %v\n", first.PrevList())
	}
	if strings.Join(first.NextList(), "") != "T" {
		t.Fatalf("AAG should be followed by T, got %v\n", first.NextList())
	}
	if strings.Join(first.NextPositionList(), "") != "1+:3" {
		t.Fatalf("AAG next position should be 1+:3, got %v\n", first.NextPositionList())
	}
	second, ok := records["AGT@1+:1"]
	if !ok {
		t.Fatalf("record AGT at 1+:1 missing\n")
	}
	if strings.Join(second.PrevList(), "") != "A" {
		t.Fatalf("AGT should be preceded by A, got %v\n", second.PrevList())
	}
	if len(second.NextChars) != 0 || len(second.NextPositions) != 0 {
		t.Fatalf("AGT runs to the node end, got next %v / %v\n", second.NextList(), second.NextPositionList())
	}
}

// this test covers the branching scenario: the window at 1+:0 reads both
// branches and the downstream context differs per branch
func TestKmerBranching(t *testing.T) {
	testGraph := graph.NewGraph()
	testGraph.AddNode([]byte("AC"), 1)
	testGraph.AddNode([]byte("GT"), 2)
	testGraph.AddNode([]byte("TT"), 3)
	testGraph.CreateEdge(graph.Side{NodeID: 1, IsEnd: true}, graph.Side{NodeID: 2})
	testGraph.CreateEdge(graph.Side{NodeID: 1, IsEnd: true}, graph.Side{NodeID: 3})
	records := collectKmers(testGraph, 3, 2, 1)
	acg, ok := records["ACG@1+:0"]
	if !ok {
		t.Fatalf("kmer ACG at 1+:0 missing\n")
	}
	act, ok := records["ACT@1+:0"]
	if !ok {
		t.Fatalf("kmer ACT at 1+:0 missing\n")
	}
	if strings.Join(acg.NextPositionList(), ",") != "2+:1" {
		t.Fatalf("ACG next positions wrong: %v\n", acg.NextPositionList())
	}
	if strings.Join(act.NextPositionList(), ",") != "3+:1" {
		t.Fatalf("ACT next positions wrong: %v\n", act.NextPositionList())
	}
	// the window starting on the last base of node 1 reads one branch and is
	// preceded by the A of node 1
	cg, ok := records["CGT@1+:1"]
	if !ok {
		t.Fatalf("kmer CGT at 1+:1 missing\n")
	}
	if strings.Join(cg.PrevList(), "") != "A" {
		t.Fatalf("CGT prev chars wrong: %v\n", cg.PrevList())
	}
}

// this test checks a (kmer, pos) produced by several walks comes out once
// with its context sets unioned
func TestKmerMerging(t *testing.T) {
	// 1(ACG) fans out to 2(T) and 3(A): the window ACG at 1+:0 is produced by
	// two walks, each with a different following character and position
	testGraph := graph.NewGraph()
	testGraph.AddNode([]byte("ACG"), 1)
	testGraph.AddNode([]byte("T"), 2)
	testGraph.AddNode([]byte("A"), 3)
	testGraph.CreateEdge(graph.Side{NodeID: 1, IsEnd: true}, graph.Side{NodeID: 2})
	testGraph.CreateEdge(graph.Side{NodeID: 1, IsEnd: true}, graph.Side{NodeID: 3})
	seen := make(map[string]int)
	var merged *KmerPosition
	ForEachKmer(testGraph, 3, 2, 1, func(record *KmerPosition) {
		seen[record.Kmer+"@"+record.Pos]++
		if record.Kmer == "ACG" {
			merged = record
		}
	})
	for key, count := range seen {
		if count != 1 {
			t.Fatalf("record %v emitted %d times by the merging form\n", key, count)
		}
	}
	if merged == nil {
		t.Fatalf("kmer ACG missing\n")
	}
	if strings.Join(merged.NextList(), ",") != "A,T" {
		t.Fatalf("ACG next chars should union both branches, got %v\n", merged.NextList())
	}
	if strings.Join(merged.NextPositionList(), ",") != "2+:0,3+:0" {
		t.Fatalf("ACG next positions should union both branches, got %v\n", merged.NextPositionList())
	}
}

// this test checks the streaming form unions to the same records as the
// merging form
func TestStreamMatchesMerged(t *testing.T) {
	testGraph := graph.NewGraph()
	testGraph.AddNode([]byte("ACG"), 1)
	testGraph.AddNode([]byte("T"), 2)
	testGraph.AddNode([]byte("A"), 3)
	testGraph.CreateEdge(graph.Side{NodeID: 1, IsEnd: true}, graph.Side{NodeID: 2})
	testGraph.CreateEdge(graph.Side{NodeID: 1, IsEnd: true}, graph.Side{NodeID: 3})
	streamed := make(map[string]*KmerPosition)
	StreamKmers(testGraph, 3, 2, 1, func(record *KmerPosition) {
		key := record.Kmer + "@" + record.Pos
		held, ok := streamed[key]
		if !ok {
			held = newKmerPosition(record.Kmer, record.Pos)
			streamed[key] = held
		}
		held.Merge(record)
	})
	merged := collectKmers(testGraph, 3, 2, 1)
	if len(streamed) != len(merged) {
		t.Fatalf("streaming and merging forms disagree on the record set\n")
	}
	for key, record := range merged {
		other, ok := streamed[key]
		if !ok {
			t.Fatalf("record %v missing from the streamed set\n", key)
		}
		if strings.Join(record.NextPositionList(), ",") != strings.Join(other.NextPositionList(), ",") {
			t.Fatalf("record %v context differs between forms\n", key)
		}
		if strings.Join(record.PrevList(), ",") != strings.Join(other.PrevList(), ",") {
			t.Fatalf("record %v prev chars differ between forms\n", key)
		}
	}
}

// this test checks the stride skips windows
func TestKmerStride(t *testing.T) {
	testGraph := graph.NewGraph()
	testGraph.AddNode([]byte("AACGTT"), 1)
	records := collectKmers(testGraph, 3, 2, 2)
	if len(records) != 2 {
		t.Fatalf("stride 2 should emit offsets 0 and 2 only, got %d records\n", len(records))
	}
	if _, ok := records["AAC@1+:0"]; !ok {
		t.Fatalf("record at offset 0 missing\n")
	}
	if _, ok := records["CGT@1+:2"]; !ok {
		t.Fatalf("record at offset 2 missing\n")
	}
}

// this test covers the GCSA doubled emission with head/tail padding
func TestGCSAKmers(t *testing.T) {
	testGraph := graph.NewGraph()
	testGraph.AddNode([]byte("ACGT"), 1)
	var mu sync.Mutex
	records := make(map[string]*KmerPosition)
	headID, tailID, err := ForEachGCSAKmerPosition(testGraph, 3, 2, 1, 0, 0, func(record *KmerPosition) {
		mu.Lock()
		records[record.Kmer+"@"+record.Pos] = record
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("could not emit GCSA kmers: %v\n", err)
	}
	// the padding markers take the next free ids and come back doubled
	if headID != 4 || tailID != 6 {
		t.Fatalf("unexpected marker ids: %d %d\n", headID, tailID)
	}
	// the graph is restored afterwards
	if testGraph.NodeCount() != 1 || testGraph.EdgeCount() != 0 {
		t.Fatalf("padding markers should be removed after emission\n")
	}
	// node 1 forward reads as id 2: the first window sits at 2+:0
	forward, ok := records["ACG@2+:0"]
	if !ok {
		t.Fatalf("forward strand record missing\n")
	}
	// its predecessor is the # padding
	if strings.Join(forward.PrevList(), "") != "#" {
		t.Fatalf("forward record should be preceded by padding, got %v\n", forward.PrevList())
	}
	// node 1 reverse complement reads as id 3: ACGT is its own revcomp
	if _, ok := records["ACG@3+:0"]; !ok {
		t.Fatalf("reverse strand record missing\n")
	}
	// windows crossing into the tail padding exist
	if _, ok := records["GT$@2+:2"]; !ok {
		t.Fatalf("record crossing into tail padding missing\n")
	}
}
