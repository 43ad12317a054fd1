package gcsa

import (
	"runtime"
	"sync"

	"github.com/pangraph/pangraph/src/graph"
)

// the padding characters used for the head and tail marker nodes
const (
	HeadMarker = '#'
	TailMarker = '$'
)

/*
	ForEachGCSAKmerPosition emits the kmer records of the graph with both
	strands represented through id doubling: a forward occurrence of node id
	reads as 2*id and a reverse-complement occurrence as 2*id+1, so that the
	downstream builder never needs a reversing edge. Before enumeration the
	graph is wrapped in a '#' head node and a '$' tail node of kmer length, so
	windows that would run off the ends read padding instead; the wrappers are
	removed again before returning. Explicit marker ids may be passed (zero
	generates them); the doubled ids actually used come back to the caller.
*/
func ForEachGCSAKmerPosition(g *graph.Graph, kmerSize, edgeMax, stride int, headID, tailID int64, visit KmerVisitor) (int64, int64, error) {
	head, tail, err := g.AddStartEndMarkers(kmerSize, HeadMarker, TailMarker, headID, tailID)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		g.DestroyNode(head.ID)
		g.DestroyNode(tail.ID)
	}()
	nodes := make([]*graph.Node, len(g.Nodes()))
	copy(nodes, g.Nodes())
	for _, node := range nodes {
		flushRecords(gatherNodeKmers(g, node, kmerSize, edgeMax, stride, true), visit)
	}
	return head.ID * 2, tail.ID * 2, nil
}

// ForEachGCSAKmerPositionParallel is the worker-pool form of
// ForEachGCSAKmerPosition; the visitor must be safe for concurrent use
func ForEachGCSAKmerPositionParallel(g *graph.Graph, kmerSize, edgeMax, stride int, headID, tailID int64, visit KmerVisitor) (int64, int64, error) {
	head, tail, err := g.AddStartEndMarkers(kmerSize, HeadMarker, TailMarker, headID, tailID)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		g.DestroyNode(head.ID)
		g.DestroyNode(tail.ID)
	}()
	var wg sync.WaitGroup
	jobs := make(chan *graph.Node)
	for worker := 0; worker < runtime.NumCPU(); worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for node := range jobs {
				flushRecords(gatherNodeKmers(g, node, kmerSize, edgeMax, stride, true), visit)
			}
		}()
	}
	nodes := make([]*graph.Node, len(g.Nodes()))
	copy(nodes, g.Nodes())
	for _, node := range nodes {
		jobs <- node
	}
	close(jobs)
	wg.Wait()
	return head.ID * 2, tail.ID * 2, nil
}
