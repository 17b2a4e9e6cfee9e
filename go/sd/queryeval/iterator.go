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
	"sort"

	"github.com/bits-and-blooms/bitset"

	"searchd.io/searchd/go/sd/geo"
	"searchd.io/searchd/go/sd/matchdata"
)

// SearchIterator enumerates the documents matching a frozen blueprint in
// ascending doc-id order.
type SearchIterator interface {
	// Seek returns the first matching document id at or after docID, or
	// NoDocID when the iterator is exhausted. Seek targets must be
	// non-decreasing across calls.
	Seek(docID uint32) uint32
	// Unpack fills the match-data slots for a document previously
	// returned by Seek.
	Unpack(docID uint32)
}

// NoDocID is returned by Seek when no matching document remains.
const NoDocID = noDocID

// Drain collects all matching document ids. It is meant for tests and
// debug tooling; serving code consumes iterators incrementally.
func Drain(it SearchIterator) []uint32 {
	var docs []uint32
	for docID := it.Seek(0); docID != NoDocID; docID = it.Seek(docID + 1) {
		docs = append(docs, docID)
	}
	return docs
}

type emptyIterator struct{}

func (emptyIterator) Seek(uint32) uint32 { return NoDocID }
func (emptyIterator) Unpack(uint32)      {}

// postingsIterator walks a sorted posting list, optionally unpacking into
// one match-data slot.
type postingsIterator struct {
	postings []uint32
	idx      int
	slot     *matchdata.TermFieldMatch
	weight   int32
}

func newPostingsIterator(postings []uint32, slot *matchdata.TermFieldMatch, weight int32) *postingsIterator {
	return &postingsIterator{
		postings: postings,
		slot:     slot,
		weight:   weight,
	}
}

func (it *postingsIterator) Seek(docID uint32) uint32 {
	// Galloping is not worth it at the posting sizes the in-memory
	// index serves; advance linearly and fall back to binary search for
	// long jumps.
	for it.idx < len(it.postings) && it.postings[it.idx] < docID {
		if it.idx+8 < len(it.postings) && it.postings[it.idx+8] < docID {
			rest := it.postings[it.idx:]
			it.idx += sort.Search(len(rest), func(i int) bool { return rest[i] >= docID })
			break
		}
		it.idx++
	}
	if it.idx >= len(it.postings) {
		return NoDocID
	}
	return it.postings[it.idx]
}

func (it *postingsIterator) Unpack(docID uint32) {
	if it.slot != nil {
		it.slot.DocID = docID
		it.slot.Weight = it.weight
	}
}

type bitsetIterator struct {
	bits  *bitset.BitSet
	limit uint32
}

func newBitsetIterator(bits *bitset.BitSet, limit uint32) *bitsetIterator {
	return &bitsetIterator{bits: bits, limit: limit}
}

func (it *bitsetIterator) Seek(docID uint32) uint32 {
	next, ok := it.bits.NextSet(uint(docID))
	if !ok || (it.limit > 0 && next >= uint(it.limit)) {
		return NoDocID
	}
	return uint32(next)
}

func (it *bitsetIterator) Unpack(uint32) {}

type locationIterator struct {
	ctx    SearchContext
	view   string
	spec   *geo.Spec
	filter *GlobalFilter
	limit  uint32
}

func newLocationIterator(ctx SearchContext, view string, spec *geo.Spec, filter *GlobalFilter, limit uint32) *locationIterator {
	return &locationIterator{
		ctx:    ctx,
		view:   view,
		spec:   spec,
		filter: filter,
		limit:  limit,
	}
}

func (it *locationIterator) Seek(docID uint32) uint32 {
	for ; docID < it.limit; docID++ {
		if !it.filter.Test(docID) {
			continue
		}
		x, y, ok := it.ctx.Position(it.view, docID)
		if ok && it.spec.Contains(x, y) {
			return docID
		}
	}
	return NoDocID
}

func (it *locationIterator) Unpack(uint32) {}

type andIterator struct {
	children []SearchIterator
}

func newAndIterator(children []SearchIterator) *andIterator {
	return &andIterator{children: children}
}

func (it *andIterator) Seek(docID uint32) uint32 {
	candidate := it.children[0].Seek(docID)
	for candidate != NoDocID {
		agreed := true
		for _, child := range it.children[1:] {
			hit := child.Seek(candidate)
			if hit != candidate {
				if hit == NoDocID {
					return NoDocID
				}
				candidate = it.children[0].Seek(hit)
				agreed = false
				break
			}
		}
		if agreed {
			return candidate
		}
	}
	return NoDocID
}

func (it *andIterator) Unpack(docID uint32) {
	for _, child := range it.children {
		child.Unpack(docID)
	}
}

type orIterator struct {
	children []SearchIterator
}

func newOrIterator(children []SearchIterator) *orIterator {
	return &orIterator{children: children}
}

func (it *orIterator) Seek(docID uint32) uint32 {
	best := uint32(NoDocID)
	for _, child := range it.children {
		if hit := child.Seek(docID); hit < best {
			best = hit
		}
	}
	return best
}

func (it *orIterator) Unpack(docID uint32) {
	for _, child := range it.children {
		// Only children matching at docID may unpack.
		if child.Seek(docID) == docID {
			child.Unpack(docID)
		}
	}
}

type andNotIterator struct {
	positive  SearchIterator
	negatives []SearchIterator
}

func newAndNotIterator(positive SearchIterator, negatives []SearchIterator) *andNotIterator {
	return &andNotIterator{positive: positive, negatives: negatives}
}

func (it *andNotIterator) Seek(docID uint32) uint32 {
	for {
		candidate := it.positive.Seek(docID)
		if candidate == NoDocID {
			return NoDocID
		}
		blocked := false
		for _, negative := range it.negatives {
			if negative.Seek(candidate) == candidate {
				blocked = true
				break
			}
		}
		if !blocked {
			return candidate
		}
		docID = candidate + 1
	}
}

func (it *andNotIterator) Unpack(docID uint32) {
	it.positive.Unpack(docID)
}

type rankIterator struct {
	base SearchIterator
	aux  []SearchIterator
}

func newRankIterator(base SearchIterator, aux []SearchIterator) *rankIterator {
	return &rankIterator{base: base, aux: aux}
}

func (it *rankIterator) Seek(docID uint32) uint32 {
	return it.base.Seek(docID)
}

func (it *rankIterator) Unpack(docID uint32) {
	it.base.Unpack(docID)
	for _, child := range it.aux {
		if child.Seek(docID) == docID {
			child.Unpack(docID)
		}
	}
}
