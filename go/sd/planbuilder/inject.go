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

import (
	"strings"

	"searchd.io/searchd/go/sd/geo"
	"searchd.io/searchd/go/sd/log"
	"searchd.io/searchd/go/sd/searchparser"
)

// inject adds a node to the query tree as a positive, always evaluated
// condition and returns the new root.
//
// An And root absorbs the node directly. For Rank and AndNot only the
// first child carries the positive result, so the node is injected
// recursively there; later children belong to scoring or negation and
// must not absorb an extra conjunct. Any other root is wrapped together
// with the new node under a fresh And.
func inject(tree, toInject searchparser.Node) searchparser.Node {
	switch root := tree.(type) {
	case *searchparser.And:
		root.Append(toInject)
	case *searchparser.Rank:
		root.SetChild(0, inject(root.Child(0), toInject))
	case *searchparser.AndNot:
		root.SetChild(0, inject(root.Child(0), toInject))
	default:
		return searchparser.NewAnd(tree, toInject)
	}
	return tree
}

// addLocationNode parses the location string of a request and injects the
// matching synthetic location term into the query tree. The string has
// the form "<field>:<range>"; the field names a position attribute and
// maps to its z-curve view.
//
// A malformed location string never fails the query: the problem is
// logged and the tree is returned unchanged. On success loc is populated
// when the range asks to rank on distance, so ranking can see the
// resolved attribute; a filter-only range injects the term without
// touching loc.
func addLocationNode(locationStr string, tree searchparser.Node, loc *geo.Location) searchparser.Node {
	if locationStr == "" {
		return tree
	}
	field, rangeSpec, found := strings.Cut(locationStr, ":")
	if !found {
		log.Warningf("location string lacks attribute vector specification. loc='%s'", locationStr)
		return tree
	}
	view := geo.PositionView(field)
	spec, err := geo.ParseSpec(rangeSpec)
	if err != nil {
		log.Warningf("location parse error (location: '%s'): %v", locationStr, err)
		return tree
	}
	switch {
	case spec.RankOnDistance():
		tree = inject(tree, searchparser.NewLocationTerm(view, spec.String()))
		loc.Set(view, spec)
	case spec.PruneOnDistance():
		tree = inject(tree, searchparser.NewLocationTerm(view, spec.String()))
	}
	return tree
}
