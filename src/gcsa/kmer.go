/*
	the gcsa package slides k-mer windows over the bounded walks of a variation
	graph and emits the (k-mer, position) records consumed by a downstream
	suffix-array index builder
*/
package gcsa

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"sort"
	"sync"

	"github.com/will-rowe/ntHash"

	"github.com/pangraph/pangraph/src/graph"
)

/*
	KmerPosition is one record destined for the external index builder: a
	k-mer, the position of its first base, and the merged context sets
	gathered from every walk that produced the same (k-mer, position).
*/
type KmerPosition struct {
	Kmer          string
	Pos           string
	PrevChars     map[byte]struct{}
	NextChars     map[byte]struct{}
	NextPositions map[string]struct{}
}

// KmerVisitor is the consumer callback for kmer records
type KmerVisitor func(*KmerPosition)

// newKmerPosition readies a record with empty context sets
func newKmerPosition(kmer, pos string) *KmerPosition {
	return &KmerPosition{
		Kmer:          kmer,
		Pos:           pos,
		PrevChars:     make(map[byte]struct{}),
		NextChars:     make(map[byte]struct{}),
		NextPositions: make(map[string]struct{}),
	}
}

// Merge unions the context sets of another record for the same (kmer, pos)
func (kmerPosition *KmerPosition) Merge(other *KmerPosition) {
	for char := range other.PrevChars {
		kmerPosition.PrevChars[char] = struct{}{}
	}
	for char := range other.NextChars {
		kmerPosition.NextChars[char] = struct{}{}
	}
	for pos := range other.NextPositions {
		kmerPosition.NextPositions[pos] = struct{}{}
	}
}

// PrevList returns the preceding characters in sorted order
func (kmerPosition *KmerPosition) PrevList() []string {
	return sortedChars(kmerPosition.PrevChars)
}

// NextList returns the following characters in sorted order
func (kmerPosition *KmerPosition) NextList() []string {
	return sortedChars(kmerPosition.NextChars)
}

// NextPositionList returns the following positions in sorted order
func (kmerPosition *KmerPosition) NextPositionList() []string {
	positions := make([]string, 0, len(kmerPosition.NextPositions))
	for pos := range kmerPosition.NextPositions {
		positions = append(positions, pos)
	}
	sort.Strings(positions)
	return positions
}

func sortedChars(set map[byte]struct{}) []string {
	chars := make([]string, 0, len(set))
	for char := range set {
		chars = append(chars, string(char))
	}
	sort.Strings(chars)
	return chars
}

// FormatPosition renders a traversal offset as "id[+/-]:offset", the position
// notation consumed by the index builder
func FormatPosition(trav graph.Traversal, offset int) string {
	sign := "+"
	if trav.Backward {
		sign = "-"
	}
	return fmt.Sprintf("%d%s:%d", trav.NodeID, sign, offset)
}

// formatPosition renders a position in plain or strand-doubled notation; with
// doubling, the orientation moves into the id (2*id forward, 2*id+1 reverse
// complement) and every position reads as forward
func formatPosition(trav graph.Traversal, offset int, doubled bool) string {
	if !doubled {
		return FormatPosition(trav, offset)
	}
	id := trav.NodeID * 2
	if trav.Backward {
		id++
	}
	return fmt.Sprintf("%d+:%d", id, offset)
}

/*
	kmerKey identifies a (kmer, position) record during merging. The kmer is
	keyed by its ntHash rather than the string itself; the position string
	disambiguates the record within the owning node.
*/
type kmerKey struct {
	hash uint64
	pos  string
}

// hashKmer returns the strand-specific ntHash of a kmer, falling back to FNV
// for windows the rolling hasher cannot digest
func hashKmer(kmer []byte) uint64 {
	hasher, err := ntHash.New(&kmer, uint(len(kmer)))
	if err == nil {
		for hv := range hasher.Hash(false) {
			return hv
		}
	}
	fallback := fnv.New64a()
	fallback.Write(kmer)
	return fallback.Sum64()
}

/*
	KmerContext computes the surroundings of a k-mer window within a walk: the
	index and right-counted offset of the traversal holding its final base, the
	characters that can precede it (for a window at offset zero these are the
	final characters of every predecessor traversal in the graph), the
	characters that can follow it, and the positions one base to its right.
	Reports false when the walk is too short to hold the window.
*/
func KmerContext(g *graph.Graph, walk []graph.Traversal, startIdx, startOffset, kmerSize int, doubled bool) (endIdx, endOffset int, prevChars, nextChars map[byte]struct{}, nextPositions map[string]struct{}, ok bool) {
	prevChars = make(map[byte]struct{})
	nextChars = make(map[byte]struct{})
	nextPositions = make(map[string]struct{})
	startSeq := g.TraversalSequence(walk[startIdx])
	if startOffset > 0 {
		prevChars[startSeq[startOffset-1]] = struct{}{}
	} else {
		for _, prev := range g.NodesPrev(walk[startIdx]) {
			prevSeq := g.TraversalSequence(prev)
			if len(prevSeq) > 0 {
				prevChars[prevSeq[len(prevSeq)-1]] = struct{}{}
			}
		}
	}
	remaining := kmerSize
	idx, offset := startIdx, startOffset
	for {
		seq := g.TraversalSequence(walk[idx])
		available := len(seq) - offset
		if remaining <= available {
			offset += remaining - 1
			break
		}
		remaining -= available
		idx++
		if idx >= len(walk) {
			return 0, 0, nil, nil, nil, false
		}
		offset = 0
	}
	endIdx = idx
	endSeq := g.TraversalSequence(walk[endIdx])
	if offset+1 < len(endSeq) {
		nextChars[endSeq[offset+1]] = struct{}{}
		nextPositions[formatPosition(walk[endIdx], offset+1, doubled)] = struct{}{}
	} else {
		for _, next := range g.NodesNext(walk[endIdx]) {
			nextSeq := g.TraversalSequence(next)
			if len(nextSeq) > 0 {
				nextChars[nextSeq[0]] = struct{}{}
			}
			nextPositions[formatPosition(next, 0, doubled)] = struct{}{}
		}
	}
	endOffset = len(endSeq) - 1 - offset
	return endIdx, endOffset, prevChars, nextChars, nextPositions, true
}

/*
	gatherWalkKmers slides the window over one walk at the given stride and
	merges each record owned by the centre traversal into the record map. A
	window is owned by the node its first base falls in, so every distinct
	(kmer, pos) has exactly one owner and per-node merging yields fully merged
	records.
*/
func gatherWalkKmers(g *graph.Graph, walk []graph.Traversal, center graph.Traversal, kmerSize, stride int, doubled bool, records map[kmerKey]*KmerPosition) {
	sequence := g.WalkSequence(walk)
	if len(sequence) < kmerSize {
		return
	}
	centerIdx := -1
	centerStart := 0
	for i, trav := range walk {
		if trav == center {
			centerIdx = i
			break
		}
		centerStart += len(g.TraversalSequence(trav))
	}
	if centerIdx < 0 {
		return
	}
	centerEnd := centerStart + len(g.TraversalSequence(center))
	for windowStart := 0; windowStart+kmerSize <= len(sequence); windowStart += stride {
		if windowStart < centerStart || windowStart >= centerEnd {
			continue
		}
		offset := windowStart - centerStart
		kmer := sequence[windowStart : windowStart+kmerSize]
		_, _, prevChars, nextChars, nextPositions, ok := KmerContext(g, walk, centerIdx, offset, kmerSize, doubled)
		if !ok {
			continue
		}
		pos := formatPosition(center, offset, doubled)
		key := kmerKey{hash: hashKmer(kmer), pos: pos}
		record, held := records[key]
		if !held {
			record = newKmerPosition(string(kmer), pos)
			records[key] = record
		}
		record.Merge(&KmerPosition{PrevChars: prevChars, NextChars: nextChars, NextPositions: nextPositions})
	}
}

// reverseWalk returns a walk read in the opposite direction, every traversal flipped
func reverseWalk(walk []graph.Traversal) []graph.Traversal {
	reversed := make([]graph.Traversal, len(walk))
	for i, trav := range walk {
		reversed[len(walk)-1-i] = trav.Reverse()
	}
	return reversed
}

// gatherNodeKmers collects the fully merged records owned by one node; with
// doubling enabled the reverse complement of every walk is processed too
func gatherNodeKmers(g *graph.Graph, node *graph.Node, kmerSize, edgeMax, stride int, doubled bool) map[kmerKey]*KmerPosition {
	records := make(map[kmerKey]*KmerPosition)
	if node.Len() == 0 || kmerSize <= 0 {
		return records
	}
	if stride <= 0 {
		stride = 1
	}
	walks := g.KPathsOfNode(node, node.Len()+kmerSize, edgeMax, nil, nil)
	for _, walk := range walks {
		gatherWalkKmers(g, walk, graph.Traversal{NodeID: node.ID}, kmerSize, stride, doubled, records)
		if doubled {
			gatherWalkKmers(g, reverseWalk(walk), graph.Traversal{NodeID: node.ID, Backward: true}, kmerSize, stride, doubled, records)
		}
	}
	return records
}

// flushRecords hands the records of one node to the visitor in a
// deterministic (kmer, pos) order
func flushRecords(records map[kmerKey]*KmerPosition, visit KmerVisitor) {
	flat := make([]*KmerPosition, 0, len(records))
	for _, record := range records {
		flat = append(flat, record)
	}
	sort.Slice(flat, func(i, j int) bool {
		if flat[i].Kmer != flat[j].Kmer {
			return flat[i].Kmer < flat[j].Kmer
		}
		return flat[i].Pos < flat[j].Pos
	})
	for _, record := range flat {
		visit(record)
	}
}

// ForEachKmerOfNode emits the merged kmer records owned by a single node
func ForEachKmerOfNode(g *graph.Graph, node *graph.Node, kmerSize, edgeMax, stride int, visit KmerVisitor) {
	flushRecords(gatherNodeKmers(g, node, kmerSize, edgeMax, stride, false), visit)
}

/*
	ForEachKmer emits every (kmer, position) of the graph exactly once, with
	its context sets fully merged across all walks that produce it. Records
	are gathered and flushed per node, which suffices for a full merge because
	a position is always owned by the node it falls in.
*/
func ForEachKmer(g *graph.Graph, kmerSize, edgeMax, stride int, visit KmerVisitor) {
	for _, node := range g.Nodes() {
		ForEachKmerOfNode(g, node, kmerSize, edgeMax, stride, visit)
	}
}

/*
	StreamKmers emits one record per walk window without merging; the same
	(kmer, position) may be seen several times with partial context sets, and
	the consumer is contracted to union them.
*/
func StreamKmers(g *graph.Graph, kmerSize, edgeMax, stride int, visit KmerVisitor) {
	if stride <= 0 {
		stride = 1
	}
	for _, node := range g.Nodes() {
		if node.Len() == 0 || kmerSize <= 0 {
			continue
		}
		for _, walk := range g.KPathsOfNode(node, node.Len()+kmerSize, edgeMax, nil, nil) {
			records := make(map[kmerKey]*KmerPosition)
			gatherWalkKmers(g, walk, graph.Traversal{NodeID: node.ID}, kmerSize, stride, false, records)
			flushRecords(records, visit)
		}
	}
}

// ForEachKmerParallel distributes nodes across one worker per CPU, each
// emitting its nodes' merged records; the visitor must be safe for concurrent use
func ForEachKmerParallel(g *graph.Graph, kmerSize, edgeMax, stride int, visit KmerVisitor) {
	var wg sync.WaitGroup
	jobs := make(chan *graph.Node)
	for worker := 0; worker < runtime.NumCPU(); worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for node := range jobs {
				ForEachKmerOfNode(g, node, kmerSize, edgeMax, stride, visit)
			}
		}()
	}
	for _, node := range g.Nodes() {
		jobs <- node
	}
	close(jobs)
	wg.Wait()
}
