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
	"log"
	"runtime"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/pangraph/pangraph/src/misc"
	"github.com/pangraph/pangraph/src/version"
)

// the command line arguments
var (
	normInput   *string // the graph to normalize
	normOutput  *string // where to write the normalized graph
	normOrient  *bool   // orient all nodes forward
	normCompact *bool   // compact the node ids afterwards
)

// the normalize command (used by cobra)
var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Sort, orient, unchop and simplify a graph into its normal form",
	Long:  `Sort, orient, unchop and simplify a graph into its normal form`,
	Run: func(cmd *cobra.Command, args []string) {
		runNormalize()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	normInput = normalizeCmd.Flags().StringP("graph", "g", "", "the graph to normalize - required")
	normOutput = normalizeCmd.Flags().StringP("outFile", "o", "normalized.gfa", "file to write the normalized graph to")
	normOrient = normalizeCmd.Flags().Bool("orient", true, "orient all nodes forward before normalizing")
	normCompact = normalizeCmd.Flags().Bool("compactIDs", false, "renumber the nodes 1..N after normalizing")
	normalizeCmd.MarkFlagRequired("graph")
	RootCmd.AddCommand(normalizeCmd)
}

/*
  The main function for the normalize command
*/
func runNormalize() {
	// set up profiling
	if *profiling == true {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	// start logging
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	log.SetOutput(logFH)
	log.Printf("this is pangraph (version %s)", version.GetVersion())
	log.Printf("starting the normalize subcommand")
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	misc.ErrorCheck(misc.CheckFile(*normInput))
	inputGraph, err := loadInputGraph(*normInput)
	misc.ErrorCheck(err)
	log.Printf("\tnodes in: %d", inputGraph.NodeCount())
	if *normOrient {
		flipped, err := inputGraph.OrientNodesForward()
		misc.ErrorCheck(err)
		log.Printf("\tnodes flipped forward: %d", len(flipped))
	} else {
		inputGraph.Sort()
	}
	merges := inputGraph.Unchop()
	log.Printf("\tsimple components merged: %d", merges)
	resolved := inputGraph.SimplifySiblings()
	log.Printf("\tsibling sets resolved: %d", resolved)
	merges = inputGraph.Unchop()
	log.Printf("\tsimple components merged after sibling pass: %d", merges)
	if *normCompact {
		inputGraph.CompactIDs()
	}
	if !inputGraph.Validate() {
		misc.ErrorCheck(fmt.Errorf("normalized graph failed validation"))
	}
	log.Printf("\tnodes out: %d", inputGraph.NodeCount())
	misc.ErrorCheck(saveOutputGraph(inputGraph, *normOutput, 0))
	log.Printf("saved normalized graph to %v", *normOutput)
}
