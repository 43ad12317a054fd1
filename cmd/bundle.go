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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pangraph/pangraph/src/graph"
	"github.com/pangraph/pangraph/src/misc"
	"github.com/pangraph/pangraph/src/version"
)

// the command line arguments
var (
	bundleInputs *[]string // graphs to collect into the store
	bundleOutput *string   // the bundle to create (or, with --unpack, the directory to unpack into)
	bundleUnpack *string   // unpack an existing bundle into this directory
)

// the bundle command (used by cobra)
var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Collect graphs into a store and archive it (or unpack one)",
	Long:  `Collect graphs into a store, dump it, and archive the dump into a single tarball; or unpack an existing bundle`,
	Run: func(cmd *cobra.Command, args []string) {
		runBundle()
	},
}

// a function to initialise the command line arguments
func init() {
	bundleInputs = bundleCmd.Flags().StringSliceP("graphs", "g", nil, "graphs to collect into the store")
	bundleOutput = bundleCmd.Flags().StringP("outFile", "o", "pangraph-store.tar.gz", "the bundle to create")
	bundleUnpack = bundleCmd.Flags().String("unpack", "", "unpack this bundle into the output directory instead")
	RootCmd.AddCommand(bundleCmd)
}

/*
  The main function for the bundle command
*/
func runBundle() {
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	log.SetOutput(logFH)
	log.Printf("this is pangraph (version %s)", version.GetVersion())
	log.Printf("starting the bundle subcommand")
	if *bundleUnpack != "" {
		misc.ErrorCheck(misc.CheckFile(*bundleUnpack))
		misc.ErrorCheck(graph.Unbundle(*bundleUnpack, *bundleOutput))
		log.Printf("unpacked %v into %v", *bundleUnpack, *bundleOutput)
		return
	}
	if len(*bundleInputs) == 0 {
		misc.ErrorCheck(fmt.Errorf("no graphs supplied to bundle - run `pangraph bundle --help`"))
	}
	store := make(graph.Store)
	for _, fileName := range *bundleInputs {
		misc.ErrorCheck(misc.CheckFile(fileName))
		loaded, err := loadInputGraph(fileName)
		misc.ErrorCheck(err)
		if loaded.Name == "" {
			loaded.Name = strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
		}
		store[loaded.Name] = loaded
	}
	dump := *bundleOutput + ".store"
	misc.ErrorCheck(store.Dump(dump))
	misc.ErrorCheck(graph.Bundle([]string{dump}, *bundleOutput))
	misc.ErrorCheck(os.Remove(dump))
	log.Printf("bundled %d graphs into %v", len(store), *bundleOutput)
}
