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

package queryeval

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"searchd.io/searchd/go/sd/geo"
	"searchd.io/searchd/go/sd/matchdata"
	"searchd.io/searchd/go/sd/sderrors"
	"searchd.io/searchd/go/sd/sdrpc"
)

// SearchContext is the boundary to the index: everything a leaf blueprint
// needs to estimate, fetch and evaluate itself. Implementations are
// read-only snapshots and safe for concurrent readers.
type SearchContext interface {
	// DocIDLimit returns the exclusive upper bound of document ids in
	// the indexed corpus.
	DocIDLimit() uint32
	// EstimateHits returns the posting count of a term in a view.
	EstimateHits(view, term string) uint32
	// Postings returns the ascending document ids matching a term in a
	// view. The returned slice is shared and must not be mutated.
	Postings(view, term string) []uint32
	// Position returns the indexed position of a document in a position
	// view.
	Position(view string, docID uint32) (x, y int64, ok bool)
}

// leafState is the part shared by all leaf blueprints.
type leafState struct {
	sharedState
}

func (s *leafState) Children() []Blueprint        { return nil }
func (s *leafState) SetDocIDLimit(limit uint32)   { s.docIDLimit = limit }
func (s *leafState) SetGlobalFilter(*GlobalFilter) {}
func (s *leafState) Freeze()                      { s.frozen = true }

func (s *leafState) requireFrozen() error {
	if !s.frozen {
		return sderrors.New(sdrpc.Code_FAILED_PRECONDITION, "blueprint must be frozen before iterators are created")
	}
	return nil
}

// TermBlueprint evaluates one term against one view using the posting
// list of the index.
type TermBlueprint struct {
	leafState
	ctx    SearchContext
	view   string
	term   string
	weight int32
	handle matchdata.Handle

	estimate HitEstimate
	postings []uint32
	fetched  bool
}

// NewTerm creates a term blueprint, pulling the hit estimate from the
// index. A handle of matchdata.Handle(-1) disables unpacking.
func NewTerm(ctx SearchContext, view, term string, weight int32, handle matchdata.Handle) *TermBlueprint {
	hits := ctx.EstimateHits(view, term)
	return &TermBlueprint{
		ctx:    ctx,
		view:   view,
		term:   term,
		weight: weight,
		handle: handle,
		estimate: HitEstimate{
			Hits:  hits,
			Empty: hits == 0,
		},
	}
}

func (b *TermBlueprint) State() State {
	return State{Estimate: b.estimate}
}

func (b *TermBlueprint) FetchPostings(ExecuteInfo) error {
	b.postings = b.ctx.Postings(b.view, b.term)
	b.fetched = true
	return nil
}

func (b *TermBlueprint) CreateSearch(md *matchdata.MatchData, strict bool) (SearchIterator, error) {
	if err := b.requireFrozen(); err != nil {
		return nil, err
	}
	if !b.fetched {
		return nil, sderrors.Errorf(sdrpc.Code_FAILED_PRECONDITION, "postings not fetched for term %q in view %q", b.term, b.view)
	}
	var slot *matchdata.TermFieldMatch
	if md != nil && b.handle >= 0 {
		slot = md.Term(b.handle)
	}
	return newPostingsIterator(b.postings, slot, b.weight), nil
}

func (b *TermBlueprint) ShortDescription() string {
	return fmt.Sprintf("TERM %s:%q ~%d", b.view, b.term, b.estimate.Hits)
}

// LocationBlueprint evaluates a geometric range against a position view.
// Position data is stored per document rather than per term, so the
// blueprint scans the doc-id space; it asks for a global filter to shrink
// the scan before committing to an evaluation order.
type LocationBlueprint struct {
	leafState
	ctx    SearchContext
	view   string
	spec   *geo.Spec
	filter *GlobalFilter
}

// NewLocation creates a location blueprint over a position view.
func NewLocation(ctx SearchContext, view string, spec *geo.Spec) *LocationBlueprint {
	b := &LocationBlueprint{
		ctx:  ctx,
		view: view,
		spec: spec,
	}
	b.docIDLimit = ctx.DocIDLimit()
	return b
}

func (b *LocationBlueprint) State() State {
	// Without a cutoff every positioned document matches; with one,
	// assume half. An attached global filter caps both.
	limit := b.docIDLimit
	hits := limit
	if b.spec.PruneOnDistance() {
		hits = limit / 2
	}
	if b.filter.Active() {
		hits = min(hits, b.filter.Count())
	}
	return State{
		Estimate:         HitEstimate{Hits: hits, Empty: limit <= 1},
		WantGlobalFilter: true,
	}
}

func (b *LocationBlueprint) SetGlobalFilter(filter *GlobalFilter) {
	b.filter = filter
}

func (b *LocationBlueprint) FetchPostings(ExecuteInfo) error {
	// Positions are resolved per document at evaluation time.
	return nil
}

func (b *LocationBlueprint) CreateSearch(md *matchdata.MatchData, strict bool) (SearchIterator, error) {
	if err := b.requireFrozen(); err != nil {
		return nil, err
	}
	return newLocationIterator(b.ctx, b.view, b.spec, b.filter, b.docIDLimit), nil
}

func (b *LocationBlueprint) ShortDescription() string {
	return fmt.Sprintf("LOCATION %s:%s", b.view, b.spec)
}

// WhiteListBlueprint restricts results to an externally supplied document
// set, typically the set of documents the issuing user may see. It can
// seed the global filter with its predicate.
type WhiteListBlueprint struct {
	leafState
	bits *bitset.BitSet
}

var _ WhiteListProvider = (*WhiteListBlueprint)(nil)

// NewWhiteList creates a white-list blueprint. The blueprint takes
// ownership of the document set.
func NewWhiteList(bits *bitset.BitSet) *WhiteListBlueprint {
	return &WhiteListBlueprint{bits: bits}
}

func (b *WhiteListBlueprint) State() State {
	count := uint32(b.bits.Count())
	return State{Estimate: HitEstimate{Hits: count, Empty: count == 0}}
}

func (b *WhiteListBlueprint) WhiteListFilter() *bitset.BitSet {
	return b.bits.Clone()
}

func (b *WhiteListBlueprint) FetchPostings(ExecuteInfo) error {
	return nil
}

func (b *WhiteListBlueprint) CreateSearch(md *matchdata.MatchData, strict bool) (SearchIterator, error) {
	if err := b.requireFrozen(); err != nil {
		return nil, err
	}
	return newBitsetIterator(b.bits, b.docIDLimit), nil
}

func (b *WhiteListBlueprint) ShortDescription() string {
	return fmt.Sprintf("WHITELIST ~%d", b.bits.Count())
}

// EmptyBlueprint never matches. Terms over unknown views build into it.
type EmptyBlueprint struct {
	leafState
}

// NewEmpty creates an EmptyBlueprint.
func NewEmpty() *EmptyBlueprint {
	return &EmptyBlueprint{}
}

func (b *EmptyBlueprint) State() State {
	return State{Estimate: HitEstimate{Empty: true}}
}

func (b *EmptyBlueprint) FetchPostings(ExecuteInfo) error {
	return nil
}

func (b *EmptyBlueprint) CreateSearch(md *matchdata.MatchData, strict bool) (SearchIterator, error) {
	if err := b.requireFrozen(); err != nil {
		return nil, err
	}
	return emptyIterator{}, nil
}

func (b *EmptyBlueprint) ShortDescription() string {
	return "EMPTY"
}
