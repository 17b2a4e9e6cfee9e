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

// Package matchdata manages the per-term match slots filled in by search
// iterators and read by ranking.
//
// A Layout is built once per query while visiting the query tree: every
// term reserves one handle. The layout then creates one MatchData per
// worker evaluating that query; slots are addressed by handle.
package matchdata

// Handle addresses one term slot inside a MatchData.
type Handle = int32

// Layout records how many term slots a query needs.
type Layout struct {
	numTerms int32
}

// AddTerm reserves a slot and returns its handle.
func (l *Layout) AddTerm() Handle {
	h := l.numTerms
	l.numTerms++
	return h
}

// New creates a MatchData with one zeroed slot per reserved handle.
func (l *Layout) New() *MatchData {
	return &MatchData{
		terms: make([]TermFieldMatch, l.numTerms),
	}
}

// TermFieldMatch is the match information of one term for the document
// an iterator last unpacked.
type TermFieldMatch struct {
	// DocID is the document the slot currently describes. A slot is
	// only meaningful for the document the iterator was unpacked at.
	DocID uint32
	// Weight is the matched term's weight.
	Weight int32
}

// MatchData holds the term slots of one query evaluation.
type MatchData struct {
	terms []TermFieldMatch
}

// Term returns the slot for a handle.
func (md *MatchData) Term(h Handle) *TermFieldMatch {
	return &md.terms[h]
}

// NumTerms returns the number of slots.
func (md *MatchData) NumTerms() int {
	return len(md.terms)
}
