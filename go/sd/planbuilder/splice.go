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

package planbuilder

import "searchd.io/searchd/go/sd/queryeval"

// asRankOrAndNot returns bp as an intermediate when it is a Rank or an
// AndNot, the two combinators whose first child carries the real result.
func asRankOrAndNot(bp queryeval.Blueprint) queryeval.IntermediateBlueprint {
	switch bp := bp.(type) {
	case *queryeval.RankBlueprint:
		return bp
	case *queryeval.AndNotBlueprint:
		return bp
	}
	return nil
}

// lastRankOrAndNot walks first children from the root as long as each
// node is a Rank or AndNot and returns the deepest one, or nil when the
// root itself is neither.
//
// The deepest node is the right splice point for the white list: splicing
// any higher would filter the positive path before inner Rank nodes have
// re-scored it, changing which documents get ranked instead of only which
// are returned.
func lastRankOrAndNot(bp queryeval.Blueprint) queryeval.IntermediateBlueprint {
	var prev queryeval.IntermediateBlueprint
	curr := asRankOrAndNot(bp)
	for curr != nil {
		prev = curr
		if len(curr.Children()) == 0 {
			break
		}
		curr = asRankOrAndNot(curr.Children()[0])
	}
	return prev
}

// spliceWhiteList forces the white-list filter onto the positive path of
// the plan and returns the new root. Inside a Rank/AndNot chain the
// deepest node's first child is wrapped together with the filter under a
// new And; the chain's later children keep their scoring and negation
// roles untouched. Without such a chain the whole plan is wrapped
// instead.
func spliceWhiteList(root, whiteList queryeval.Blueprint) queryeval.Blueprint {
	if chain := lastRankOrAndNot(root); chain != nil {
		and := queryeval.NewAnd(chain.RemoveChild(0), whiteList)
		chain.InsertChild(0, and)
		return root
	}
	return queryeval.NewAnd(root, whiteList)
}
