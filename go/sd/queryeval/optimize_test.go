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
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchd.io/searchd/go/sd/geo"
)

// stubContext is a canned index: postings per view/term and positions
// per view/doc.
type stubContext struct {
	limit     uint32
	postings  map[string][]uint32
	positions map[uint32][2]int64
}

func (s *stubContext) DocIDLimit() uint32 {
	if s.limit == 0 {
		return 1000
	}
	return s.limit
}

func (s *stubContext) EstimateHits(view, term string) uint32 {
	return uint32(len(s.postings[view+":"+term]))
}

func (s *stubContext) Postings(view, term string) []uint32 {
	return s.postings[view+":"+term]
}

func (s *stubContext) Position(view string, docID uint32) (int64, int64, bool) {
	pos, ok := s.positions[docID]
	return pos[0], pos[1], ok
}

// rangeDocs returns n consecutive doc ids starting at 1.
func rangeDocs(n int) []uint32 {
	docs := make([]uint32, n)
	for i := range docs {
		docs[i] = uint32(i + 1)
	}
	return docs
}

func stubWithTerms(hits map[string]int) *stubContext {
	ctx := &stubContext{postings: map[string][]uint32{}}
	for term, n := range hits {
		ctx.postings["f:"+term] = rangeDocs(n)
	}
	return ctx
}

func estimates(children []Blueprint) []uint32 {
	var hits []uint32
	for _, child := range children {
		hits = append(hits, child.State().Estimate.Hits)
	}
	return hits
}

func TestOptimizeOrdersAndChildrenCheapestFirst(t *testing.T) {
	ctx := stubWithTerms(map[string]int{"a": 50, "b": 5, "c": 500})
	bp := Optimize(NewAnd(
		NewTerm(ctx, "f", "a", 100, -1),
		NewTerm(ctx, "f", "b", 100, -1),
		NewTerm(ctx, "f", "c", 100, -1),
	))
	and, ok := bp.(*AndBlueprint)
	require.True(t, ok)
	assert.Equal(t, []uint32{5, 50, 500}, estimates(and.Children()))
}

func TestOptimizeOrdersOrChildrenMostHitsFirst(t *testing.T) {
	ctx := stubWithTerms(map[string]int{"a": 50, "b": 5, "c": 500})
	bp := Optimize(NewOr(
		NewTerm(ctx, "f", "a", 100, -1),
		NewTerm(ctx, "f", "b", 100, -1),
		NewTerm(ctx, "f", "c", 100, -1),
	))
	or, ok := bp.(*OrBlueprint)
	require.True(t, ok)
	assert.Equal(t, []uint32{500, 50, 5}, estimates(or.Children()))
}

func TestOptimizeFlattensNestedAnd(t *testing.T) {
	ctx := stubWithTerms(map[string]int{"a": 1, "b": 2, "c": 3})
	bp := Optimize(NewAnd(
		NewTerm(ctx, "f", "a", 100, -1),
		NewAnd(
			NewTerm(ctx, "f", "b", 100, -1),
			NewTerm(ctx, "f", "c", 100, -1),
		),
	))
	and, ok := bp.(*AndBlueprint)
	require.True(t, ok)
	assert.Len(t, and.Children(), 3)
}

func TestOptimizeCollapsesEmptyAnd(t *testing.T) {
	ctx := stubWithTerms(map[string]int{"a": 50})
	bp := Optimize(NewAnd(
		NewTerm(ctx, "f", "a", 100, -1),
		NewTerm(ctx, "f", "missing", 100, -1),
	))
	assert.IsType(t, &EmptyBlueprint{}, bp)
	assert.True(t, bp.State().Estimate.Empty)
}

func TestOptimizeDropsEmptyOrChildren(t *testing.T) {
	ctx := stubWithTerms(map[string]int{"a": 50, "b": 5})
	bp := Optimize(NewOr(
		NewTerm(ctx, "f", "a", 100, -1),
		NewTerm(ctx, "f", "missing", 100, -1),
		NewTerm(ctx, "f", "b", 100, -1),
	))
	or, ok := bp.(*OrBlueprint)
	require.True(t, ok)
	assert.Equal(t, []uint32{50, 5}, estimates(or.Children()))

	// A single surviving child replaces the Or entirely.
	single := Optimize(NewOr(
		NewTerm(ctx, "f", "missing", 100, -1),
		NewTerm(ctx, "f", "b", 100, -1),
	))
	assert.IsType(t, &TermBlueprint{}, single)
}

func TestOptimizeKeepsAndNotFirstChildPinned(t *testing.T) {
	ctx := stubWithTerms(map[string]int{"pos": 5, "n1": 500, "n2": 50})
	bp := Optimize(NewAndNot(
		NewTerm(ctx, "f", "pos", 100, -1),
		NewTerm(ctx, "f", "n2", 100, -1),
		NewTerm(ctx, "f", "n1", 100, -1),
	))
	andNot, ok := bp.(*AndNotBlueprint)
	require.True(t, ok)
	// Positive child stays first even though it is the cheapest;
	// negatives are ordered most hits first.
	assert.Equal(t, []uint32{5, 500, 50}, estimates(andNot.Children()))
}

func TestOptimizeRankKeepsAuxOrder(t *testing.T) {
	ctx := stubWithTerms(map[string]int{"base": 5, "aux1": 10, "aux2": 600})
	bp := Optimize(NewRank(
		NewTerm(ctx, "f", "base", 100, -1),
		NewTerm(ctx, "f", "aux1", 100, -1),
		NewTerm(ctx, "f", "aux2", 100, -1),
	))
	rank, ok := bp.(*RankBlueprint)
	require.True(t, ok)
	assert.Equal(t, []uint32{5, 10, 600}, estimates(rank.Children()))
}

func TestOptimizeIdempotent(t *testing.T) {
	ctx := stubWithTerms(map[string]int{"a": 50, "b": 5, "c": 500})
	bp := Optimize(NewAnd(
		NewTerm(ctx, "f", "a", 100, -1),
		NewOr(
			NewTerm(ctx, "f", "b", 100, -1),
			NewTerm(ctx, "f", "c", 100, -1),
		),
	))
	once := ToTree(bp)
	bp = Optimize(bp)
	assert.Equal(t, once, ToTree(bp))
}

func TestAndStateAggregation(t *testing.T) {
	ctx := stubWithTerms(map[string]int{"a": 50, "b": 5})
	spec, err := geo.ParseSpec("0;0;10")
	require.NoError(t, err)

	and := NewAnd(
		NewTerm(ctx, "f", "a", 100, -1),
		NewTerm(ctx, "f", "b", 100, -1),
	)
	st := and.State()
	assert.Equal(t, uint32(5), st.Estimate.Hits)
	assert.False(t, st.WantGlobalFilter)

	and.AddChild(NewLocation(ctx, "pos_zcurve", spec))
	assert.True(t, and.State().WantGlobalFilter)
}

func TestGlobalFilterShrinksLocationEstimate(t *testing.T) {
	ctx := &stubContext{limit: 1000}
	spec, err := geo.ParseSpec("0;0;10")
	require.NoError(t, err)

	loc := NewLocation(ctx, "pos_zcurve", spec)
	before := loc.State().Estimate.Hits
	assert.Equal(t, uint32(500), before)

	seed := bitset.New(1000)
	for _, docID := range []uint{1, 2, 3} {
		seed.Set(docID)
	}
	loc.SetGlobalFilter(NewGlobalFilter(seed))
	assert.Equal(t, uint32(3), loc.State().Estimate.Hits)
}

func TestGlobalFilter(t *testing.T) {
	var inactive *GlobalFilter
	assert.False(t, inactive.Active())
	assert.True(t, inactive.Test(42))

	empty := NewGlobalFilter(nil)
	assert.False(t, empty.Active())
	assert.True(t, empty.Test(42))

	seed := bitset.New(100)
	seed.Set(7)
	filter := NewGlobalFilter(seed)
	assert.True(t, filter.Active())
	assert.True(t, filter.Test(7))
	assert.False(t, filter.Test(8))
	assert.Equal(t, uint32(1), filter.Count())
}
