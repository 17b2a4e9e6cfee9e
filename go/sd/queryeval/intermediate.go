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
	"math"
	"slices"

	"searchd.io/searchd/go/sd/matchdata"
)

// intermediateState implements the child list shared by all intermediate
// blueprints.
type intermediateState struct {
	sharedState
	children []Blueprint
}

func (s *intermediateState) Children() []Blueprint { return s.children }

func (s *intermediateState) RemoveChild(i int) Blueprint {
	child := s.children[i]
	s.children = slices.Delete(s.children, i, i+1)
	return child
}

func (s *intermediateState) InsertChild(i int, child Blueprint) {
	s.children = slices.Insert(s.children, i, child)
}

func (s *intermediateState) AddChild(child Blueprint) {
	s.children = append(s.children, child)
}

func (s *intermediateState) replaceChild(i int, child Blueprint) {
	s.children[i] = child
}

func (s *intermediateState) SetDocIDLimit(limit uint32) {
	s.docIDLimit = limit
	for _, child := range s.children {
		child.SetDocIDLimit(limit)
	}
}

func (s *intermediateState) SetGlobalFilter(filter *GlobalFilter) {
	for _, child := range s.children {
		child.SetGlobalFilter(filter)
	}
}

func (s *intermediateState) FetchPostings(execInfo ExecuteInfo) error {
	for _, child := range s.children {
		if err := child.FetchPostings(execInfo); err != nil {
			return err
		}
	}
	return nil
}

func (s *intermediateState) Freeze() {
	s.frozen = true
	for _, child := range s.children {
		child.Freeze()
	}
}

func (s *intermediateState) wantGlobalFilter() bool {
	for _, child := range s.children {
		if child.State().WantGlobalFilter {
			return true
		}
	}
	return false
}

func (s *intermediateState) createChildren(md *matchdata.MatchData, strict bool) ([]SearchIterator, error) {
	its := make([]SearchIterator, 0, len(s.children))
	for _, child := range s.children {
		it, err := child.CreateSearch(md, strict)
		if err != nil {
			return nil, err
		}
		its = append(its, it)
	}
	return its, nil
}

type (
	// AndBlueprint matches documents matched by all children.
	AndBlueprint struct {
		intermediateState
	}

	// OrBlueprint matches documents matched by any child.
	OrBlueprint struct {
		intermediateState
	}

	// AndNotBlueprint matches documents matched by the first child and
	// none of the later ones.
	AndNotBlueprint struct {
		intermediateState
	}

	// RankBlueprint matches exactly the documents matched by the first
	// child; later children only unpack match information for ranking.
	RankBlueprint struct {
		intermediateState
	}
)

// NewAnd returns an AndBlueprint over the given children.
func NewAnd(children ...Blueprint) *AndBlueprint {
	return &AndBlueprint{intermediateState{children: children}}
}

// NewOr returns an OrBlueprint over the given children.
func NewOr(children ...Blueprint) *OrBlueprint {
	return &OrBlueprint{intermediateState{children: children}}
}

// NewAndNot returns an AndNotBlueprint over the given children; the first
// is the positive child.
func NewAndNot(children ...Blueprint) *AndNotBlueprint {
	return &AndNotBlueprint{intermediateState{children: children}}
}

// NewRank returns a RankBlueprint over the given children; the first is
// the base child.
func NewRank(children ...Blueprint) *RankBlueprint {
	return &RankBlueprint{intermediateState{children: children}}
}

func (b *AndBlueprint) State() State {
	st := State{
		Estimate:         HitEstimate{Hits: b.docIDLimit},
		WantGlobalFilter: b.wantGlobalFilter(),
	}
	for i, child := range b.children {
		est := child.State().Estimate
		if i == 0 || est.Hits < st.Estimate.Hits {
			st.Estimate.Hits = est.Hits
		}
		st.Estimate.Empty = st.Estimate.Empty || est.Empty
	}
	return st
}

func (b *OrBlueprint) State() State {
	st := State{
		Estimate:         HitEstimate{Empty: true},
		WantGlobalFilter: b.wantGlobalFilter(),
	}
	var hits uint64
	for _, child := range b.children {
		est := child.State().Estimate
		hits += uint64(est.Hits)
		st.Estimate.Empty = st.Estimate.Empty && est.Empty
	}
	st.Estimate.Hits = uint32(min(hits, math.MaxUint32))
	return st
}

func (b *AndNotBlueprint) State() State {
	return firstChildState(&b.intermediateState)
}

func (b *RankBlueprint) State() State {
	return firstChildState(&b.intermediateState)
}

// firstChildState is shared by AndNot and Rank: their result can never
// contain more than the positive child matches.
func firstChildState(s *intermediateState) State {
	st := State{WantGlobalFilter: s.wantGlobalFilter()}
	if len(s.children) > 0 {
		st.Estimate = s.children[0].State().Estimate
	} else {
		st.Estimate.Empty = true
	}
	return st
}

func (b *AndBlueprint) CreateSearch(md *matchdata.MatchData, strict bool) (SearchIterator, error) {
	its, err := b.createChildren(md, strict)
	if err != nil {
		return nil, err
	}
	return newAndIterator(its), nil
}

func (b *OrBlueprint) CreateSearch(md *matchdata.MatchData, strict bool) (SearchIterator, error) {
	its, err := b.createChildren(md, strict)
	if err != nil {
		return nil, err
	}
	return newOrIterator(its), nil
}

func (b *AndNotBlueprint) CreateSearch(md *matchdata.MatchData, strict bool) (SearchIterator, error) {
	its, err := b.createChildren(md, strict)
	if err != nil {
		return nil, err
	}
	return newAndNotIterator(its[0], its[1:]), nil
}

func (b *RankBlueprint) CreateSearch(md *matchdata.MatchData, strict bool) (SearchIterator, error) {
	its, err := b.createChildren(md, strict)
	if err != nil {
		return nil, err
	}
	return newRankIterator(its[0], its[1:]), nil
}

func (b *AndBlueprint) ShortDescription() string {
	return fmt.Sprintf("AND ~%d", b.State().Estimate.Hits)
}

func (b *OrBlueprint) ShortDescription() string {
	return fmt.Sprintf("OR ~%d", b.State().Estimate.Hits)
}

func (b *AndNotBlueprint) ShortDescription() string {
	return fmt.Sprintf("ANDNOT ~%d", b.State().Estimate.Hits)
}

func (b *RankBlueprint) ShortDescription() string {
	return fmt.Sprintf("RANK ~%d", b.State().Estimate.Hits)
}
