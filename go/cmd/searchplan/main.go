/*
Copyright 2026 The Searchd Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// searchplan is a debug tool: it runs a serialized query through the
// full plan lifecycle against an in-memory corpus and prints the node
// tree, the optimized blueprint tree, and the matching documents.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/spf13/cobra"

	"searchd.io/searchd/go/sd/log"
	"searchd.io/searchd/go/sd/matchdata"
	"searchd.io/searchd/go/sd/memindex"
	"searchd.io/searchd/go/sd/planbuilder"
	"searchd.io/searchd/go/sd/queryeval"
	"searchd.io/searchd/go/sd/searchparser"
)

var (
	locationStr string
	corpusFile  string
	whiteList   []uint
	views       []string
)

// corpus is the JSON shape of the --corpus file: postings per view and
// term, and document positions per position view.
type corpus struct {
	Postings  map[string]map[string][]uint32 `json:"postings"`
	Positions map[string]map[string][2]int64 `json:"positions"`
}

func main() {
	cmd := &cobra.Command{
		Use:   "searchplan <hex-encoded query>",
		Short: "Explain how a serialized query is planned and executed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd, args[0])
		},
	}
	cmd.Flags().StringVarP(&locationStr, "location", "l", "", "location string of the request, like pos:200;100")
	cmd.Flags().StringVarP(&corpusFile, "corpus", "c", "", "JSON corpus file to search")
	cmd.Flags().UintSliceVar(&whiteList, "white-list", nil, "restrict results to these document ids")
	cmd.Flags().StringSliceVar(&views, "view", nil, "field to view mapping, like title=title_index (repeatable)")
	log.RegisterFlags(cmd.Flags())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, queryHex string) error {
	serialized, err := hex.DecodeString(strings.TrimSpace(queryHex))
	if err != nil {
		return fmt.Errorf("query must be hex encoded: %w", err)
	}

	index, err := loadCorpus(corpusFile)
	if err != nil {
		return err
	}

	resolver := &searchparser.ViewResolver{}
	for _, mapping := range views {
		field, view, found := strings.Cut(mapping, "=")
		if !found {
			return fmt.Errorf("bad --view mapping %q: want field=view", mapping)
		}
		resolver.Add(field, view)
	}

	query := &planbuilder.Query{}
	if len(whiteList) > 0 {
		bits := bitset.New(uint(index.DocIDLimit()))
		for _, docID := range whiteList {
			bits.Set(docID)
		}
		if err := query.SetWhiteList(queryeval.NewWhiteList(bits)); err != nil {
			return err
		}
	}

	if err := query.BuildTree(serialized, locationStr, resolver, planbuilder.BuildOptions{}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "query tree:\n%s\n", searchparser.ToTree(query.Tree()))

	var mdl matchdata.Layout
	if err := query.ReserveHandles(index, &mdl); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "blueprint:\n%s\n", queryeval.ToTree(query.Blueprint()))

	if err := query.Optimize(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "optimized blueprint:\n%s\n", queryeval.ToTree(query.Blueprint()))

	if err := query.FetchPostings(); err != nil {
		return err
	}
	if err := query.Freeze(); err != nil {
		return err
	}

	estimate, err := query.Estimate()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "estimated hits: %d (empty=%v)\n", estimate.Hits, estimate.Empty)

	it, err := query.CreateSearch(mdl.New())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "matching documents: %v\n", queryeval.Drain(it))
	return nil
}

func loadCorpus(path string) (*memindex.Index, error) {
	index := memindex.New()
	if path == "" {
		return index, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("bad corpus file %s: %w", path, err)
	}
	for view, terms := range c.Postings {
		for term, docIDs := range terms {
			index.Add(view, term, docIDs...)
		}
	}
	for view, docs := range c.Positions {
		for docStr, pos := range docs {
			docID, err := strconv.ParseUint(docStr, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("bad doc id %q in corpus positions: %w", docStr, err)
			}
			index.AddPosition(view, uint32(docID), pos[0], pos[1])
		}
	}
	return index, nil
}
