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

	"github.com/spf13/cobra"

	"github.com/pangraph/pangraph/src/misc"
	"github.com/pangraph/pangraph/src/version"
)

// the command line arguments
var (
	statsInput *string // the graph to inspect
)

// the stats command (used by cobra)
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report the size, boundary nodes and validity of a graph",
	Long:  `Report the size, boundary nodes and validity of a graph`,
	Run: func(cmd *cobra.Command, args []string) {
		runStats()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	statsInput = statsCmd.Flags().StringP("graph", "g", "", "the graph to inspect (.gfa or chunked stream) - required")
	statsCmd.MarkFlagRequired("graph")
	RootCmd.AddCommand(statsCmd)
}

/*
  The main function for the stats command
*/
func runStats() {
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	log.SetOutput(logFH)
	log.Printf("this is pangraph (version %s)", version.GetVersion())
	log.Printf("starting the stats subcommand")
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	misc.ErrorCheck(misc.CheckFile(*statsInput))
	inputGraph, err := loadInputGraph(*statsInput)
	misc.ErrorCheck(err)
	fmt.Printf("graph: %v\n", inputGraph.Name)
	fmt.Printf("nodes:\t%d\n", inputGraph.NodeCount())
	fmt.Printf("edges:\t%d\n", inputGraph.EdgeCount())
	fmt.Printf("length:\t%d bp\n", inputGraph.TotalNodeLength())
	fmt.Printf("paths:\t%d\n", inputGraph.Paths.PathCount())
	fmt.Printf("heads:\t%d\n", len(inputGraph.HeadNodes()))
	fmt.Printf("tails:\t%d\n", len(inputGraph.TailNodes()))
	fmt.Printf("valid:\t%v\n", inputGraph.Validate())
}
