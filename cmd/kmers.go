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
	"bufio"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/pangraph/pangraph/src/gcsa"
	"github.com/pangraph/pangraph/src/misc"
	"github.com/pangraph/pangraph/src/version"
)

// the command line arguments
var (
	kmersInput   *string // the graph to enumerate
	kmersOutput  *string // where to write the kmer records ("-" for stdout)
	kmerSize     *uint   // size of k-mer
	kmersEdgeMax *int    // edge crossings allowed per walk
	kmersStride  *int    // window stride
	kmersGCSA    *bool   // emit strand-doubled records with head/tail padding
)

// the kmers command (used by cobra)
var kmersCmd = &cobra.Command{
	Use:   "kmers",
	Short: "Emit the (k-mer, position) records of a graph for the index builder",
	Long:  `Emit the (k-mer, position) records of a graph for the index builder`,
	Run: func(cmd *cobra.Command, args []string) {
		runKmers()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	kmersInput = kmersCmd.Flags().StringP("graph", "g", "", "the graph to enumerate - required")
	kmersOutput = kmersCmd.Flags().StringP("outFile", "o", "-", "file to write the records to (- for stdout)")
	kmerSize = kmersCmd.Flags().UintP("kmerSize", "k", 11, "size of k-mer")
	kmersEdgeMax = kmersCmd.Flags().IntP("edgeMax", "e", 4, "edge crossings allowed per walk")
	kmersStride = kmersCmd.Flags().IntP("stride", "s", 1, "offset between successive windows")
	kmersGCSA = kmersCmd.Flags().Bool("gcsa", false, "emit strand-doubled records with head/tail padding")
	kmersCmd.MarkFlagRequired("graph")
	RootCmd.AddCommand(kmersCmd)
}

/*
  The main function for the kmers command
*/
func runKmers() {
	// set up profiling
	if *profiling == true {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	// start logging
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	log.SetOutput(logFH)
	log.Printf("this is pangraph (version %s)", version.GetVersion())
	log.Printf("starting the kmers subcommand")
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	misc.ErrorCheck(misc.CheckFile(*kmersInput))
	inputGraph, err := loadInputGraph(*kmersInput)
	misc.ErrorCheck(err)

	out := os.Stdout
	if *kmersOutput != "-" {
		out, err = os.Create(*kmersOutput)
		misc.ErrorCheck(err)
		defer out.Close()
	}
	writer := bufio.NewWriter(out)
	defer writer.Flush()
	var mu sync.Mutex
	records := 0
	emit := func(record *gcsa.KmerPosition) {
		mu.Lock()
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			record.Kmer,
			record.Pos,
			strings.Join(record.PrevList(), ","),
			strings.Join(record.NextList(), ","),
			strings.Join(record.NextPositionList(), ","))
		records++
		mu.Unlock()
	}
	if *kmersGCSA {
		headID, tailID, err := gcsa.ForEachGCSAKmerPositionParallel(inputGraph, int(*kmerSize), *kmersEdgeMax, *kmersStride, 0, 0, emit)
		misc.ErrorCheck(err)
		log.Printf("\thead marker id: %d", headID)
		log.Printf("\ttail marker id: %d", tailID)
	} else {
		gcsa.ForEachKmerParallel(inputGraph, int(*kmerSize), *kmersEdgeMax, *kmersStride, emit)
	}
	log.Printf("\tk-mer records written: %d", records)
}
