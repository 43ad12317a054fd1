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
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/will-rowe/gfa"

	"github.com/pangraph/pangraph/src/graph"
	"github.com/pangraph/pangraph/src/misc"
	"github.com/pangraph/pangraph/src/version"
)

// the command line arguments
var (
	convInput  *string // the input graph or MSA
	convOutput *string // the output graph
	convChunk  *int    // nodes per chunk when writing the binary stream
)

// the convert command (used by cobra)
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a graph between GFA, the chunked binary stream, and MSA input",
	Long:  `Convert a graph between GFA, the chunked binary stream, and MSA input (.msa files are built into variation graphs first)`,
	Run: func(cmd *cobra.Command, args []string) {
		runConvert()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	convInput = convertCmd.Flags().StringP("inFile", "i", "", "the graph (or MSA) to convert - required")
	convOutput = convertCmd.Flags().StringP("outFile", "o", "", "the file to convert into - required")
	convChunk = convertCmd.Flags().Int("chunkSize", graph.DefaultChunkSize, "nodes per chunk when writing the binary stream")
	convertCmd.MarkFlagRequired("inFile")
	convertCmd.MarkFlagRequired("outFile")
	RootCmd.AddCommand(convertCmd)
}

/*
  The main function for the convert command
*/
func runConvert() {
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	log.SetOutput(logFH)
	log.Printf("this is pangraph (version %s)", version.GetVersion())
	log.Printf("starting the convert subcommand")
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	misc.ErrorCheck(misc.CheckFile(*convInput))
	var inputGraph *graph.Graph
	var err error
	if strings.HasSuffix(*convInput, ".msa") {
		// build a variation graph from the multiple sequence alignment
		msa, msaErr := gfa.ReadMSA(*convInput)
		misc.ErrorCheck(msaErr)
		name := strings.TrimSuffix(filepath.Base(*convInput), ".msa")
		inputGraph, err = graph.FromMSA(msa, name)
	} else {
		inputGraph, err = loadInputGraph(*convInput)
	}
	misc.ErrorCheck(err)
	log.Printf("\tnodes: %d", inputGraph.NodeCount())
	log.Printf("\tedges: %d", inputGraph.EdgeCount())
	misc.ErrorCheck(saveOutputGraph(inputGraph, *convOutput, *convChunk))
	log.Printf("saved converted graph to %v", *convOutput)
}
