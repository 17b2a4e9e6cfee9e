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

// Package planbuilder assembles the executable plan of one search
// request: it parses the serialized query, rewrites the node tree, builds
// the blueprint tree, splices in access control, and runs the optimizer
// before handing out document iterators.
package planbuilder

import (
	"github.com/bits-and-blooms/bitset"

	"searchd.io/searchd/go/sd/geo"
	"searchd.io/searchd/go/sd/log"
	"searchd.io/searchd/go/sd/matchdata"
	"searchd.io/searchd/go/sd/queryeval"
	"searchd.io/searchd/go/sd/sderrors"
	"searchd.io/searchd/go/sd/sdrpc"
	"searchd.io/searchd/go/sd/searchparser"
)

// lifecycle is the strictly ordered set of states a Query moves through.
// Every state is entered exactly once; there is no way back.
type lifecycle int

const (
	stateCreated lifecycle = iota
	stateBuilt
	stateReserved
	stateOptimized
	statePostingsFetched
	stateFrozen
)

var lifecycleName = []string{
	"Created",
	"Built",
	"Reserved",
	"Optimized",
	"PostingsFetched",
	"Frozen",
}

func (s lifecycle) String() string {
	return lifecycleName[s]
}

// optimizePass runs one optimizer pass. It is a variable so tests can
// observe the fixpoint protocol.
var optimizePass = queryeval.Optimize

// Query owns the node tree and the blueprint tree of one search request
// for its whole lifetime. One Query is driven by a single worker;
// separate Query instances are fully independent.
//
// The methods must be called in lifecycle order: BuildTree,
// ReserveHandles, Optimize, FetchPostings, Freeze. Calling one out of
// order is a bug in the caller and fails with FAILED_PRECONDITION.
type Query struct {
	state lifecycle

	tree     searchparser.Node
	location geo.Location

	whiteList         queryeval.Blueprint
	whiteListProvider queryeval.WhiteListProvider

	blueprint queryeval.Blueprint
}

// BuildOptions tunes the node-tree rewrites of BuildTree.
type BuildOptions struct {
	// SplitUnpacking splits expensive unpacking iterators. It is
	// suppressed when a white list is set; see OptimizeUnpacking.
	SplitUnpacking bool
	// DelayUnpacking delays position unpacking of rank-only subtrees.
	DelayUnpacking bool
}

// SetWhiteList hands the query the access-control blueprint to splice
// into the plan. It must be called before ReserveHandles; passing nil is
// a no-op. If the blueprint can provide its document set, the set seeds
// the global filter during Optimize.
func (q *Query) SetWhiteList(whiteList queryeval.Blueprint) error {
	if q.state >= stateReserved {
		return sderrors.Errorf(sdrpc.Code_FAILED_PRECONDITION,
			"white list must be set before handles are reserved, not in state %v", q.state)
	}
	q.whiteList = whiteList
	q.whiteListProvider, _ = whiteList.(queryeval.WhiteListProvider)
	return nil
}

// BuildTree parses the serialized query and runs the node-tree rewrites:
// same-element field prefixing, location injection, unpacking
// optimization and view resolution. A malformed serialized query fails
// the whole request; a malformed location string only degrades it.
func (q *Query) BuildTree(serialized []byte, locationStr string, resolver *searchparser.ViewResolver, opts BuildOptions) error {
	if err := q.advance(stateCreated, stateBuilt); err != nil {
		return err
	}
	tree, err := searchparser.Parse(serialized)
	if err != nil {
		return sderrors.Wrap(err, "failed to parse serialized query")
	}
	searchparser.PrefixSameElementFields(tree)
	tree = addLocationNode(locationStr, tree, &q.location)
	tree = searchparser.OptimizeUnpacking(tree, q.whiteList != nil, opts.SplitUnpacking, opts.DelayUnpacking)
	searchparser.ResolveViews(tree, resolver)
	q.tree = tree
	return nil
}

// ReserveHandles reserves one match-data slot per term, builds the
// blueprint tree from the node tree, and splices in the white list if
// one was set.
func (q *Query) ReserveHandles(ctx queryeval.SearchContext, mdl *matchdata.Layout) error {
	if err := q.advance(stateBuilt, stateReserved); err != nil {
		return err
	}
	searchparser.VisitTerms(q.tree, func(t searchparser.Term) {
		t.TermData().Handle = mdl.AddTerm()
	})
	blueprint, err := Build(ctx, q.tree)
	if err != nil {
		return err
	}
	q.blueprint = blueprint
	if log.V(1) {
		log.Infof("original blueprint:\n%s", queryeval.ToTree(q.blueprint))
	}
	if q.whiteList != nil {
		q.blueprint = spliceWhiteList(q.blueprint, q.whiteList)
		q.whiteList = nil
		q.blueprint.SetDocIDLimit(ctx.DocIDLimit())
		if log.V(1) {
			log.Infof("blueprint after white listing:\n%s", queryeval.ToTree(q.blueprint))
		}
	}
	return nil
}

// Optimize rewrites the blueprint tree into its cheapest equivalent
// form. If the optimized tree wants a global filter, one is created,
// seeded from the white list when possible, attached, and a single
// second optimizer pass accounts for it. The second pass is the fixpoint
// bound: a filter request surfacing only then stays unresolved, trading
// residual sub-optimality for bounded latency.
func (q *Query) Optimize() error {
	if err := q.advance(stateReserved, stateOptimized); err != nil {
		return err
	}
	q.blueprint = optimizePass(q.blueprint)
	if q.blueprint.State().WantGlobalFilter {
		globalFilter := queryeval.NewGlobalFilter(q.whiteListSeed())
		q.blueprint.SetGlobalFilter(globalFilter)
		// optimized order may change after accounting for the filter:
		q.blueprint = optimizePass(q.blueprint)
	}
	if log.V(1) {
		log.Infof("optimized blueprint:\n%s", queryeval.ToTree(q.blueprint))
	}
	return nil
}

// FetchPostings makes the blueprint tree resolve its posting resources,
// strictly and for a single worker.
func (q *Query) FetchPostings() error {
	if err := q.advance(stateOptimized, statePostingsFetched); err != nil {
		return err
	}
	return q.blueprint.FetchPostings(queryeval.ExecuteInfo{Strict: true, NumWorkers: 1})
}

// Freeze makes the blueprint tree immutable. Only read operations and
// CreateSearch are valid afterwards.
func (q *Query) Freeze() error {
	if err := q.advance(statePostingsFetched, stateFrozen); err != nil {
		return err
	}
	q.blueprint.Freeze()
	return nil
}

// Estimate returns the hit estimate of the plan root. It is available
// from Optimize onward.
func (q *Query) Estimate() (queryeval.HitEstimate, error) {
	if q.state < stateOptimized {
		return queryeval.HitEstimate{}, sderrors.Errorf(sdrpc.Code_FAILED_PRECONDITION,
			"estimate is unavailable before the plan is optimized, state is %v", q.state)
	}
	return q.blueprint.State().Estimate, nil
}

// CreateSearch creates the document iterator of the frozen plan.
func (q *Query) CreateSearch(md *matchdata.MatchData) (queryeval.SearchIterator, error) {
	if q.state != stateFrozen {
		return nil, sderrors.Errorf(sdrpc.Code_FAILED_PRECONDITION,
			"iterators can only be created from a frozen plan, state is %v", q.state)
	}
	return q.blueprint.CreateSearch(md, true)
}

// ExtractTerms returns the ranking metadata of all query terms.
func (q *Query) ExtractTerms() ([]*searchparser.TermData, error) {
	if q.state < stateBuilt {
		return nil, sderrors.New(sdrpc.Code_FAILED_PRECONDITION, "no query tree has been built")
	}
	return searchparser.ExtractTerms(q.tree), nil
}

// Tree exposes the query node tree for inspection and debug rendering.
// Callers must treat it as read only; the query keeps ownership.
func (q *Query) Tree() searchparser.Node {
	return q.tree
}

// Blueprint exposes the plan root for inspection and debug rendering.
// Callers must treat it as read only; the query keeps ownership.
func (q *Query) Blueprint() queryeval.Blueprint {
	return q.blueprint
}

// Locations returns the resolved location metadata for ranking. The
// single entry is invalid when the request carried no rank-on-distance
// location.
func (q *Query) Locations() []*geo.Location {
	return []*geo.Location{&q.location}
}

// whiteListSeed returns the white-list document set when the supplied
// white-list blueprint can provide one, so the global filter starts from
// the access-control predicate instead of matching everything.
func (q *Query) whiteListSeed() *bitset.BitSet {
	if q.whiteListProvider == nil {
		return nil
	}
	return q.whiteListProvider.WhiteListFilter()
}

func (q *Query) advance(from, to lifecycle) error {
	if q.state != from {
		return sderrors.Errorf(sdrpc.Code_FAILED_PRECONDITION,
			"lifecycle violation: cannot enter state %v from state %v", to, q.state)
	}
	q.state = to
	return nil
}
