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
	"log"
	"runtime"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/pangraph/pangraph/src/misc"
	"github.com/pangraph/pangraph/src/version"
)

// the command line arguments
var (
	pruneInput   *string // the graph to prune
	pruneOutput  *string // where to write the pruned graph
	pruneLength  *int    // walk length for the complexity bound
	pruneEdgeMax *int    // edge crossings allowed within the walk length
	pruneMinSize *int    // prune subgraphs shorter than this many bp
)

// the prune command (used by cobra)
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune the complex regions and short subgraphs out of a graph",
	Long:  `Prune the complex regions and short subgraphs out of a graph, readying it for k-mer indexing`,
	Run: func(cmd *cobra.Command, args []string) {
		runPrune()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	pruneInput = pruneCmd.Flags().StringP("graph", "g", "", "the graph to prune - required")
	pruneOutput = pruneCmd.Flags().StringP("outFile", "o", "pruned.gfa", "file to write the pruned graph to")
	pruneLength = pruneCmd.Flags().IntP("walkLength", "l", 16, "walk length (bp) for the complexity bound")
	pruneEdgeMax = pruneCmd.Flags().IntP("edgeMax", "e", 4, "edge crossings allowed within the walk length")
	pruneMinSize = pruneCmd.Flags().Int("minSubgraph", 0, "remove connected components shorter than this many bp")
	pruneCmd.MarkFlagRequired("graph")
	RootCmd.AddCommand(pruneCmd)
}

/*
  The main function for the prune command
*/
func runPrune() {
	// set up profiling
	if *profiling == true {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	// start logging
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	log.SetOutput(logFH)
	log.Printf("this is pangraph (version %s)", version.GetVersion())
	log.Printf("starting the prune subcommand")
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	misc.ErrorCheck(misc.CheckFile(*pruneInput))
	inputGraph, err := loadInputGraph(*pruneInput)
	misc.ErrorCheck(err)
	log.Printf("\tnodes in: %d", inputGraph.NodeCount())
	misc.ErrorCheck(inputGraph.PruneComplexWithHeadTail(*pruneLength, *pruneEdgeMax))
	if *pruneMinSize > 0 {
		pruned := inputGraph.PruneShortSubgraphs(*pruneMinSize)
		log.Printf("\tshort subgraphs removed: %d", pruned)
	}
	log.Printf("\tnodes out: %d", inputGraph.NodeCount())
	misc.ErrorCheck(saveOutputGraph(inputGraph, *pruneOutput, 0))
	log.Printf("saved pruned graph to %v", *pruneOutput)
}
