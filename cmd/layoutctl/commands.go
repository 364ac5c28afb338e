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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/gocolumnar/layout/layout"
	"github.com/gocolumnar/layout/arrowio"
)

func runBuild(cmd *cobra.Command, args []string) error {
	content, err := buildFromFile(args[0])
	if err != nil {
		return err
	}
	fmt.Println(layout.ToString(content, "  ", "", ""))
	return nil
}

func runSlice(cmd *cobra.Command, args []string) error {
	content, err := buildFromFile(args[0])
	if err != nil {
		return err
	}
	items, err := parseSliceExpr(args[1])
	if err != nil {
		return err
	}
	sliced, err := layout.GetItem(content, items)
	if err != nil {
		return errors.Wrap(err, "layoutctl slice")
	}
	fmt.Println(layout.ToString(sliced, "  ", "", ""))
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	content, err := buildFromFile(args[0])
	if err != nil {
		return err
	}
	if msg := layout.ValidityError(content, ""); msg != "" {
		fmt.Println(msg)
		return errors.Newf("layoutctl validate: %s", msg)
	}
	fmt.Println("valid")
	return nil
}

func runArrowExport(cmd *cobra.Command, args []string) error {
	content, err := buildFromFile(args[0])
	if err != nil {
		return err
	}
	out, err := os.Create(args[1])
	if err != nil {
		return errors.Wrap(err, "layoutctl arrow export")
	}
	defer out.Close()
	return arrowio.WriteFile(context.Background(), out, []layout.Content{content}, []string{"value"})
}

func runArrowImport(cmd *cobra.Command, args []string) error {
	contents, names, err := arrowio.ReadFile(context.Background(), args[0])
	if err != nil {
		return errors.Wrap(err, "layoutctl arrow import")
	}
	for i, name := range names {
		fmt.Printf("%s:\n%s\n", name, layout.ToString(contents[i], "  ", "", ""))
	}
	return nil
}

func buildFromFile(path string) (layout.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "layoutctl: read %s", path)
	}
	return buildFromJSON(data)
}
