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

import "github.com/bits-and-blooms/bitset"

// GlobalFilter is a plan-wide document predicate. It is created at most
// once per query, when the optimized blueprint tree asks for one, and is
// immutable from then on; multiple blueprints may share it without
// copying.
//
// A filter created without a seed is inactive and lets every document
// through.
type GlobalFilter struct {
	bits *bitset.BitSet
}

// NewGlobalFilter creates a global filter from an optional seed predicate.
// The filter takes ownership of the seed; callers must not mutate it
// afterwards.
func NewGlobalFilter(seed *bitset.BitSet) *GlobalFilter {
	return &GlobalFilter{bits: seed}
}

// Active reports whether the filter constrains anything.
func (gf *GlobalFilter) Active() bool {
	return gf != nil && gf.bits != nil
}

// Test reports whether a document passes the filter.
func (gf *GlobalFilter) Test(docID uint32) bool {
	if !gf.Active() {
		return true
	}
	return gf.bits.Test(uint(docID))
}

// Count returns the number of documents passing an active filter.
func (gf *GlobalFilter) Count() uint32 {
	if !gf.Active() {
		return 0
	}
	return uint32(gf.bits.Count())
}

// WhiteListProvider is implemented by white-list blueprints that can hand
// out their predicate as a document set, used to seed the global filter.
type WhiteListProvider interface {
	// WhiteListFilter returns a copy of the white-list document set.
	WhiteListFilter() *bitset.BitSet
}
