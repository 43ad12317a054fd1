package graph

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/biogo/biogo/seq/multi"
	"github.com/biogo/hts/sam"
	"github.com/mholt/archiver"
	"github.com/pkg/errors"
	"github.com/will-rowe/gfa"
	"gopkg.in/vmihailenco/msgpack.v2"

	"github.com/pangraph/pangraph/src/seqio"
	"github.com/pangraph/pangraph/src/version"
)

// DefaultChunkSize is the number of nodes carried per chunk of a serialized
// graph stream
const DefaultChunkSize = 1000

// LoadGFA reads a GFA file into a GFA struct
func LoadGFA(fileName string) (*gfa.GFA, error) {
	fh, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "can't open gfa file")
	}
	defer fh.Close()
	reader, err := gfa.NewReader(fh)
	if err != nil {
		return nil, fmt.Errorf("can't read gfa file: %v", err)
	}
	// collect the GFA instance
	myGFA := reader.CollectGFA()
	// read the file
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line in gfa file: %v", err)
		}
		if err := line.Add(myGFA); err != nil {
			return nil, fmt.Errorf("error adding line to GFA instance: %v", err)
		}
	}
	return myGFA, nil
}

/*
	FromGFA builds a bidirected graph from a GFA instance. Segment names must
	be integers; link orientations select the sides an edge connects (a `+`
	from-orient leaves the end of the from segment, a `-` leaves its start, and
	symmetrically for the to-orient); paths become named traversal sequences.
*/
func FromGFA(gfaInstance *gfa.GFA, name string) (*Graph, error) {
	newGraph := NewGraph()
	newGraph.Name = name
	segments, err := gfaInstance.GetSegments()
	if err != nil {
		return nil, err
	}
	for _, segment := range segments {
		id, err := strconv.ParseInt(string(segment.Name), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not convert segment name from GFA into an int: %v", string(segment.Name))
		}
		// convert all bases to upperCase and check for non-ACTGN chars
		seq := seqio.Sequence{Seq: segment.Sequence}
		if err := seq.BaseCheck(); err != nil {
			return nil, err
		}
		if _, err := newGraph.AddNode(seq.Seq, id); err != nil {
			return nil, err
		}
	}
	links, err := gfaInstance.GetLinks()
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		fromID, err := strconv.ParseInt(string(link.From), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not convert segment name from GFA into an int: %v", string(link.From))
		}
		toID, err := strconv.ParseInt(string(link.To), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not convert segment name from GFA into an int: %v", string(link.To))
		}
		fromSide := Side{NodeID: fromID, IsEnd: !bytes.Equal(link.FromOrient, []byte("-"))}
		toSide := Side{NodeID: toID, IsEnd: bytes.Equal(link.ToOrient, []byte("-"))}
		if _, err := newGraph.CreateEdge(fromSide, toSide); err != nil {
			return nil, err
		}
	}
	paths, err := gfaInstance.GetPaths()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		steps := make([]Traversal, 0, len(path.SegNames))
		for _, seg := range path.SegNames {
			backward := bytes.HasSuffix(seg, []byte("-"))
			trimmed := bytes.TrimRight(seg, "+-")
			id, err := strconv.ParseInt(string(trimmed), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("could not convert segment name from GFA into an int: %v", string(trimmed))
			}
			steps = append(steps, Traversal{NodeID: id, Backward: backward})
		}
		newGraph.Paths.AddPath(string(path.PathName), steps...)
	}
	return newGraph, nil
}

// FromMSA converts a multiple sequence alignment to a variation graph by way
// of its GFA representation
func FromMSA(msa *multi.Multi, name string) (*Graph, error) {
	newGFA, err := gfa.MSA2GFA(msa)
	if err != nil {
		return nil, err
	}
	return FromGFA(newGFA, name)
}

// SaveGFA is a method to convert and save the graph in GFA format
func (graph *Graph) SaveGFA(fileName string) error {
	t := time.Now()
	stamp := fmt.Sprintf("variation graph created by pangraph (version %v) at: %v", version.GetVersion(), t.Format("Mon Jan _2 15:04:05 2006"))
	newGFA := gfa.NewGFA()
	_ = newGFA.AddVersion(1)
	newGFA.AddComment([]byte(stamp))
	for _, node := range graph.nodes {
		segID := []byte(strconv.FormatInt(node.ID, 10))
		seg, err := gfa.NewSegment(segID, node.Sequence)
		if err != nil {
			return err
		}
		seg.Add(newGFA)
	}
	for _, edge := range graph.edges {
		fromOrient, toOrient := []byte("+"), []byte("+")
		if edge.FromStart {
			fromOrient = []byte("-")
		}
		if edge.ToEnd {
			toOrient = []byte("-")
		}
		link, err := gfa.NewLink(
			[]byte(strconv.FormatInt(edge.From, 10)), fromOrient,
			[]byte(strconv.FormatInt(edge.To, 10)), toOrient,
			[]byte("0M"))
		if err != nil {
			return err
		}
		link.Add(newGFA)
	}
	var pathErr error
	graph.Paths.ForEachPath(func(path *Path) {
		segments, overlaps := [][]byte{}, [][]byte{}
		for _, step := range path.Steps {
			orient := "+"
			if step.Backward {
				orient = "-"
			}
			node, err := graph.GetNode(step.NodeID)
			if err != nil {
				pathErr = err
				return
			}
			segments = append(segments, []byte(strconv.FormatInt(step.NodeID, 10)+orient))
			overlaps = append(overlaps, []byte(strconv.Itoa(node.Len())+"M"))
		}
		gfaPath, err := gfa.NewPath([]byte(path.Name), segments, overlaps)
		if err != nil {
			pathErr = err
			return
		}
		gfaPath.Add(newGFA)
	})
	if pathErr != nil {
		return pathErr
	}
	outfile, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "can't create gfa file")
	}
	defer outfile.Close()
	writer, err := gfa.NewWriter(outfile, newGFA)
	if err != nil {
		return err
	}
	return newGFA.WriteGFAContent(writer)
}

/*
	GraphChunk is one slab of a serialized graph stream: the nodes dealt to it
	round-robin from the node array, the edges owned by those nodes (an edge belongs to the
	chunk of its later endpoint), and, on the final chunk, the paths.
*/
type GraphChunk struct {
	Name  string
	Nodes []Node
	Edges []Edge
	Paths []ChunkPath
}

// ChunkPath carries one named path inside a chunk
type ChunkPath struct {
	Name  string
	Steps []Traversal
}

/*
	SerializeToStream writes the graph as a stream of msgpack-encoded chunks of
	at most chunkSize nodes each, filled round-robin from the node array. A
	non-positive chunkSize selects the default. Paths travel on the final
	chunk so that a consumer extending chunk by chunk only sees path steps for
	nodes it already holds.
*/
func (graph *Graph) SerializeToStream(w io.Writer, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkCount := (len(graph.nodes) + chunkSize - 1) / chunkSize
	if chunkCount == 0 {
		chunkCount = 1
	}
	chunkOf := make(map[int64]int, len(graph.nodes))
	chunks := make([]GraphChunk, chunkCount)
	for position, node := range graph.nodes {
		chunkIndex := position % chunkCount
		chunkOf[node.ID] = chunkIndex
		chunks[chunkIndex].Nodes = append(chunks[chunkIndex].Nodes, *node)
	}
	// an edge rides with the later of its two endpoints so that a consumer
	// extending chunk by chunk always holds both before seeing the edge
	for _, edge := range graph.edges {
		owner := chunkOf[edge.From]
		if other := chunkOf[edge.To]; other > owner {
			owner = other
		}
		chunks[owner].Edges = append(chunks[owner].Edges, *edge)
	}
	graph.Paths.ForEachPath(func(path *Path) {
		steps := make([]Traversal, len(path.Steps))
		copy(steps, path.Steps)
		chunks[chunkCount-1].Paths = append(chunks[chunkCount-1].Paths, ChunkPath{Name: path.Name, Steps: steps})
	})
	chunks[0].Name = graph.Name
	encoder := msgpack.NewEncoder(w)
	for i := range chunks {
		if err := encoder.Encode(&chunks[i]); err != nil {
			return errors.Wrap(err, "could not encode graph chunk")
		}
	}
	return nil
}

// DeserializeFromStream reads a chunked graph stream back into a fresh graph,
// extending it chunk by chunk
func DeserializeFromStream(r io.Reader) (*Graph, error) {
	newGraph := NewGraph()
	decoder := msgpack.NewDecoder(r)
	for {
		var chunk GraphChunk
		if err := decoder.Decode(&chunk); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "could not decode graph chunk")
		}
		if chunk.Name != "" {
			newGraph.Name = chunk.Name
		}
		if err := newGraph.Extend(&chunk, false); err != nil {
			return nil, err
		}
	}
	return newGraph, nil
}

/*
	Extend adds the contents of a chunk to the graph, node by node and edge by
	edge. Entities already present (by id for nodes and paths, by canonical
	side pair for edges) are dropped; with warnOnDuplicates set each drop is
	reported on the log.
*/
func (graph *Graph) Extend(chunk *GraphChunk, warnOnDuplicates bool) error {
	for i := range chunk.Nodes {
		node := &chunk.Nodes[i]
		if graph.HasNode(node.ID) {
			if warnOnDuplicates {
				log.Printf("extend: dropped duplicate node %d", node.ID)
			}
			continue
		}
		if _, err := graph.AddNode(node.Sequence, node.ID); err != nil {
			return err
		}
	}
	for i := range chunk.Edges {
		edge := &chunk.Edges[i]
		if graph.HasEdge(edge.FromSide(), edge.ToSide()) {
			if warnOnDuplicates {
				log.Printf("extend: dropped duplicate edge %d-%d", edge.From, edge.To)
			}
			continue
		}
		if _, err := graph.CreateEdge(edge.FromSide(), edge.ToSide()); err != nil {
			return err
		}
	}
	for _, chunkPath := range chunk.Paths {
		if graph.Paths.HasPath(chunkPath.Name) {
			if warnOnDuplicates {
				log.Printf("extend: dropped duplicate path %v", chunkPath.Name)
			}
			continue
		}
		graph.Paths.AddPath(chunkPath.Name, chunkPath.Steps...)
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler using the chunked stream
func (graph *Graph) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.SerializeToStream(&buf, DefaultChunkSize); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using the chunked stream
func (graph *Graph) UnmarshalBinary(data []byte) error {
	loaded, err := DeserializeFromStream(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*graph = *loaded
	return nil
}

/*
	Store holds the graphs of a run, using the graph name as the lookup key
*/
type Store map[string]*Graph

// Dump is a method to save a Store to file
func (store *Store) Dump(path string) error {
	file, err := os.Create(path)
	if err == nil {
		encoder := gob.NewEncoder(file)
		err = encoder.Encode(store)
	}
	file.Close()
	return err
}

// Load is a method to load a Store from file
func (store *Store) Load(path string) error {
	file, err := os.Open(path)
	if err == nil {
		decoder := gob.NewDecoder(file)
		err = decoder.Decode(store)
	}
	file.Close()
	return err
}

// Bundle archives a dumped store (and any sidecar files) into a single tarball
func Bundle(sources []string, target string) error {
	return errors.Wrap(archiver.Archive(sources, target), "could not bundle graph store")
}

// Unbundle unpacks a bundled graph store into a directory
func Unbundle(source, directory string) error {
	return errors.Wrap(archiver.Unarchive(source, directory), "could not unpack graph store")
}

// GetSAMRefs is a method to convert all paths held in the store to
// sam.References, ready for use by an external aligner
func (store Store) GetSAMRefs() (map[string][]*sam.Reference, error) {
	references := make(map[string][]*sam.Reference)
	names := make([]string, 0, len(store))
	for name := range store {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		heldGraph := store[name]
		for _, pathName := range heldGraph.Paths.PathNames() {
			pathSeq, err := heldGraph.PathSequence(pathName)
			if err != nil {
				return nil, err
			}
			reference, err := sam.NewReference(pathName, "", "", len(pathSeq), nil, nil)
			if err != nil {
				return nil, err
			}
			references[name] = append(references[name], reference)
		}
	}
	return references, nil
}
