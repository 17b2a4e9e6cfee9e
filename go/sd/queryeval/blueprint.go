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

// Package queryeval holds the executable side of a query: the blueprint
// tree with its cost estimates, the optimizer pass that reorders it, and
// the search iterators a frozen blueprint creates.
//
// A blueprint tree goes through a few phases while serving one query:
//  1. Built. The planbuilder turns the query node tree into blueprints,
//     one per node, each annotated with a hit estimate from the index.
//  2. Optimized. Optimize reorders and flattens the tree so the cheapest
//     children are evaluated first. If the optimized tree wants a global
//     filter, the caller attaches one and optimizes again.
//  3. Fetched and frozen. Postings are fetched, the tree becomes
//     immutable, and iterators can be created from it.
package queryeval

import (
	"math"

	"searchd.io/searchd/go/sd/matchdata"
)

// HitEstimate is an estimate of how many documents a blueprint matches.
// Empty marks estimates known to be exact zero, which the optimizer may
// exploit.
type HitEstimate struct {
	Hits  uint32
	Empty bool
}

// State is the aggregate planning state of a blueprint subtree.
type State struct {
	Estimate HitEstimate
	// WantGlobalFilter is set when any blueprint in the subtree needs a
	// global filter attached before it can plan accurately.
	WantGlobalFilter bool
}

// ExecuteInfo carries evaluation hints down the blueprint tree when
// postings are fetched.
type ExecuteInfo struct {
	// Strict requests eager, non-lazy posting fetches.
	Strict bool
	// NumWorkers is the number of workers that will consume the created
	// iterators. The matcher currently always uses one.
	NumWorkers int
}

// Blueprint is one node of the executable plan tree. Blueprints are
// exclusively owned by their parent; the root is owned by the query being
// served.
type Blueprint interface {
	// State returns the aggregate planning state of the subtree.
	State() State
	// Children returns the child blueprints. Leaves return nil.
	Children() []Blueprint
	// SetDocIDLimit propagates the exclusive upper bound of document ids
	// down the subtree.
	SetDocIDLimit(limit uint32)
	// DocIDLimit returns the current doc-id limit.
	DocIDLimit() uint32
	// SetGlobalFilter attaches an immutable global filter to the
	// subtree. Only blueprints that asked for one react; it is attached
	// at most once per query.
	SetGlobalFilter(filter *GlobalFilter)
	// FetchPostings makes the subtree resolve its posting resources.
	FetchPostings(execInfo ExecuteInfo) error
	// Freeze makes the subtree immutable. Only read operations and
	// CreateSearch are valid afterwards.
	Freeze()
	// Frozen reports whether Freeze has run.
	Frozen() bool
	// CreateSearch creates an iterator over the matching documents,
	// unpacking match information into md. The blueprint must be frozen.
	CreateSearch(md *matchdata.MatchData, strict bool) (SearchIterator, error)
	// ShortDescription renders the node for debug output.
	ShortDescription() string
}

// IntermediateBlueprint is a Blueprint with an ordered set of children
// that can be rearranged until the tree is frozen.
type IntermediateBlueprint interface {
	Blueprint
	// RemoveChild detaches and returns child i.
	RemoveChild(i int) Blueprint
	// InsertChild attaches a child at position i.
	InsertChild(i int, child Blueprint)
	// AddChild appends a child.
	AddChild(child Blueprint)
}

// sharedState is the part of a blueprint common to all variants.
type sharedState struct {
	docIDLimit uint32
	frozen     bool
}

func (s *sharedState) DocIDLimit() uint32 { return s.docIDLimit }
func (s *sharedState) Frozen() bool       { return s.frozen }

// noDocID is the sentinel returned by Seek when an iterator is exhausted.
const noDocID = uint32(math.MaxUint32)
