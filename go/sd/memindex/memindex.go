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

// Package memindex provides a small in-memory index implementing
// queryeval.SearchContext. It backs the package tests and the searchplan
// debug tool; a production index lives behind the same interface.
package memindex

import (
	"slices"

	"searchd.io/searchd/go/sd/queryeval"
)

type position struct {
	x, y int64
}

// Index is an in-memory inverted index plus per-document positions.
// Populate it fully before searching; it is safe for concurrent readers
// only once population is done.
type Index struct {
	docIDLimit uint32
	postings   map[string]map[string][]uint32
	positions  map[string]map[uint32]position
}

var _ queryeval.SearchContext = (*Index)(nil)

// New creates an empty index.
func New() *Index {
	return &Index{
		docIDLimit: 1,
		postings:   make(map[string]map[string][]uint32),
		positions:  make(map[string]map[uint32]position),
	}
}

// Add indexes documents for a term in a view.
func (ix *Index) Add(view, term string, docIDs ...uint32) {
	terms := ix.postings[view]
	if terms == nil {
		terms = make(map[string][]uint32)
		ix.postings[view] = terms
	}
	list := append(terms[term], docIDs...)
	slices.Sort(list)
	terms[term] = slices.Compact(list)
	for _, docID := range docIDs {
		ix.noteDocID(docID)
	}
}

// AddPosition indexes the position of a document in a position view.
func (ix *Index) AddPosition(view string, docID uint32, x, y int64) {
	docs := ix.positions[view]
	if docs == nil {
		docs = make(map[uint32]position)
		ix.positions[view] = docs
	}
	docs[docID] = position{x: x, y: y}
	ix.noteDocID(docID)
}

func (ix *Index) noteDocID(docID uint32) {
	if docID >= ix.docIDLimit {
		ix.docIDLimit = docID + 1
	}
}

// DocIDLimit implements queryeval.SearchContext.
func (ix *Index) DocIDLimit() uint32 {
	return ix.docIDLimit
}

// EstimateHits implements queryeval.SearchContext.
func (ix *Index) EstimateHits(view, term string) uint32 {
	return uint32(len(ix.postings[view][term]))
}

// Postings implements queryeval.SearchContext.
func (ix *Index) Postings(view, term string) []uint32 {
	return ix.postings[view][term]
}

// Position implements queryeval.SearchContext.
func (ix *Index) Position(view string, docID uint32) (x, y int64, ok bool) {
	pos, ok := ix.positions[view][docID]
	return pos.x, pos.y, ok
}
