// Copyright © 2026 the pangraph authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pangraph/pangraph/src/graph"
)

// the command line arguments
var (
	proc      *int    // number of processors to use
	profiling *bool   // create profile for go pprof
	logFile   *string // the log file
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pangraph",
	Short: "build, normalize and index bidirected variation graphs",
	Long: `
#####################################################################################
		PANGRAPH: a bidirected variation graph engine
#####################################################################################

 Pangraph holds a pangenome as an in-memory, mutable, bidirected sequence graph:
 nodes carry DNA, edges join node sides, and named paths through the graph
 describe haplotypes.

 It can normalize a graph (topological orientation, unchopping, sibling
 simplification), prune its complex regions, and enumerate the bounded walks
 and GCSA k-mers that feed a downstream suffix-array index.`,
}

/*
  Execute runs the root command; the child commands add themselves to it in their init functions
*/
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

/*
  A function to initalise the command line arguments
*/
func init() {
	proc = RootCmd.PersistentFlags().IntP("processors", "p", 1, "number of processors to use")
	profiling = RootCmd.PersistentFlags().Bool("profiling", false, "create the files needed to profile pangraph using the go tool pprof")
	logFile = RootCmd.PersistentFlags().String("log", "pangraph.log", "filename for the log")
}

// loadInputGraph reads a graph from disk, picking the codec from the file
// extension (.gfa for GFA text, anything else for the chunked binary stream)
func loadInputGraph(fileName string) (*graph.Graph, error) {
	if strings.HasSuffix(fileName, ".gfa") {
		gfaInstance, err := graph.LoadGFA(fileName)
		if err != nil {
			return nil, err
		}
		return graph.FromGFA(gfaInstance, strings.TrimSuffix(fileName, ".gfa"))
	}
	fh, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return graph.DeserializeFromStream(fh)
}

// saveOutputGraph writes a graph to disk, picking the codec like loadInputGraph
func saveOutputGraph(inputGraph *graph.Graph, fileName string, chunkSize int) error {
	if strings.HasSuffix(fileName, ".gfa") {
		return inputGraph.SaveGFA(fileName)
	}
	fh, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer fh.Close()
	return inputGraph.SerializeToStream(fh, chunkSize)
}
