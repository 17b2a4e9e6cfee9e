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

import "slices"

// Optimize rewrites a blueprint tree into an equivalent form that is
// cheaper to evaluate: nested And/Or nodes are flattened into their
// parent, And children are ordered cheapest first so the most selective
// term drives the intersection, Or children most expensive first, and
// subtrees that can never match collapse into EmptyBlueprint.
//
// Optimizing an already optimal tree is a no-op. The caller owns the
// returned root; the passed-in root must not be used afterwards.
func Optimize(bp Blueprint) Blueprint {
	switch b := bp.(type) {
	case *AndBlueprint:
		optimizeChildren(&b.intermediateState)
		flattenSameKind[*AndBlueprint](&b.intermediateState)
		for _, child := range b.children {
			if child.State().Estimate.Empty {
				return emptied(b)
			}
		}
		sortByEstimate(b.children, ascending)
		return b
	case *OrBlueprint:
		optimizeChildren(&b.intermediateState)
		flattenSameKind[*OrBlueprint](&b.intermediateState)
		b.children = slices.DeleteFunc(b.children, func(child Blueprint) bool {
			return child.State().Estimate.Empty
		})
		if len(b.children) == 0 {
			return emptied(b)
		}
		if len(b.children) == 1 {
			return b.children[0]
		}
		sortByEstimate(b.children, descending)
		return b
	case *AndNotBlueprint:
		optimizeChildren(&b.intermediateState)
		positive := b.children[0]
		if positive.State().Estimate.Empty {
			return emptied(b)
		}
		// Dead negatives constrain nothing.
		b.children = slices.DeleteFunc(b.children, func(child Blueprint) bool {
			return child != positive && child.State().Estimate.Empty
		})
		if len(b.children) == 1 {
			return b.children[0]
		}
		sortByEstimate(b.children[1:], descending)
		return b
	case *RankBlueprint:
		optimizeChildren(&b.intermediateState)
		if b.children[0].State().Estimate.Empty {
			return emptied(b)
		}
		// Auxiliary children stay in place: their order is part of the
		// ranking contract, not an evaluation cost choice.
		return b
	default:
		return bp
	}
}

func optimizeChildren(s *intermediateState) {
	for i, child := range s.children {
		s.replaceChild(i, Optimize(child))
	}
}

// flattenSameKind inlines children of the same kind as the parent, so
// And(a, And(b, c)) becomes And(a, b, c).
func flattenSameKind[T IntermediateBlueprint](s *intermediateState) {
	flattened := make([]Blueprint, 0, len(s.children))
	for _, child := range s.children {
		if same, ok := child.(T); ok {
			flattened = append(flattened, same.Children()...)
		} else {
			flattened = append(flattened, child)
		}
	}
	s.children = flattened
}

const (
	ascending  = false
	descending = true
)

func sortByEstimate(children []Blueprint, mostHitsFirst bool) {
	slices.SortStableFunc(children, func(a, b Blueprint) int {
		ah, bh := int64(a.State().Estimate.Hits), int64(b.State().Estimate.Hits)
		if mostHitsFirst {
			ah, bh = bh, ah
		}
		switch {
		case ah < bh:
			return -1
		case ah > bh:
			return 1
		default:
			return 0
		}
	})
}

// emptied replaces a subtree known to match nothing, keeping its doc-id
// limit.
func emptied(bp Blueprint) Blueprint {
	empty := NewEmpty()
	empty.SetDocIDLimit(bp.DocIDLimit())
	return empty
}
