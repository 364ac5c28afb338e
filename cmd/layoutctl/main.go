// Copyright 2024 The Layout Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Command layoutctl exercises the layout algebra end to end: build a tree
// from a JSON-ish literal, slice it, validate it, and round-trip it
// through the Arrow interchange layer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "build file",
		Short: "Build a Content tree from a JSON literal and print it",
		Args:  cobra.ExactArgs(1),
		RunE:  runBuild,
	}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "slice file expr",
		Short: "Build a Content tree and apply a slice expression to it",
		Args:  cobra.ExactArgs(2),
		RunE:  runSlice,
	}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "validate file",
		Short: "Build a Content tree and report validityerror",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
	root.AddCommand(cmd)

	arrowCmd := &cobra.Command{
		Use:   "arrow",
		Short: "Round-trip a Content tree through the Arrow interchange format",
	}
	arrowCmd.AddCommand(&cobra.Command{
		Use:   "export file out.arrow",
		Short: "Build a Content tree and write it as a single-column Arrow IPC file",
		Args:  cobra.ExactArgs(2),
		RunE:  runArrowExport,
	})
	arrowCmd.AddCommand(&cobra.Command{
		Use:   "import in.arrow",
		Short: "Read an Arrow IPC file and print each column",
		Args:  cobra.ExactArgs(1),
		RunE:  runArrowImport,
	})
	root.AddCommand(arrowCmd)
}

func main() {
	root := &cobra.Command{Use: "layoutctl"}
	addCommands(root)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
