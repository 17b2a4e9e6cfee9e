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
	"searchd.io/searchd/go/sd/geo"
	"searchd.io/searchd/go/sd/matchdata"
	"searchd.io/searchd/go/sd/queryeval"
	"searchd.io/searchd/go/sd/sderrors"
	"searchd.io/searchd/go/sd/sdrpc"
	"searchd.io/searchd/go/sd/searchparser"
)

// Build turns a resolved query node tree into a blueprint tree annotated
// with hit estimates from the index. The node tree is only read; the
// returned blueprints are exclusively owned by the caller.
func Build(ctx queryeval.SearchContext, root searchparser.Node) (queryeval.Blueprint, error) {
	bp, err := build(ctx, root)
	if err != nil {
		return nil, err
	}
	bp.SetDocIDLimit(ctx.DocIDLimit())
	return bp, nil
}

func build(ctx queryeval.SearchContext, node searchparser.Node) (queryeval.Blueprint, error) {
	switch node := node.(type) {
	case *searchparser.And:
		return buildIntermediate(ctx, node, func(children []queryeval.Blueprint) queryeval.Blueprint {
			return queryeval.NewAnd(children...)
		})
	case *searchparser.Or:
		return buildIntermediate(ctx, node, func(children []queryeval.Blueprint) queryeval.Blueprint {
			return queryeval.NewOr(children...)
		})
	case *searchparser.AndNot:
		return buildIntermediate(ctx, node, func(children []queryeval.Blueprint) queryeval.Blueprint {
			return queryeval.NewAndNot(children...)
		})
	case *searchparser.Rank:
		return buildIntermediate(ctx, node, func(children []queryeval.Blueprint) queryeval.Blueprint {
			return queryeval.NewRank(children...)
		})
	case *searchparser.SameElement:
		// Element-scoped matching degrades to document-scoped And: a
		// strict superset of the matching documents. Ranking rechecks
		// element ids via the unpacked occurrences.
		return buildIntermediate(ctx, node, func(children []queryeval.Blueprint) queryeval.Blueprint {
			return queryeval.NewAnd(children...)
		})
	case *searchparser.StringTerm:
		return buildTerm(ctx, &node.Data, node.Term), nil
	case *searchparser.NumberTerm:
		return buildTerm(ctx, &node.Data, node.Spec), nil
	case *searchparser.LocationTerm:
		spec, err := geo.ParseSpec(node.Spec)
		if err != nil {
			return nil, sderrors.Wrap(err, "location term carries unparsable range")
		}
		return queryeval.NewLocation(ctx, node.Data.Views[0], spec), nil
	}
	return nil, sderrors.Errorf(sdrpc.Code_INTERNAL, "unknown query node type %T", node)
}

func buildIntermediate(ctx queryeval.SearchContext, node searchparser.Intermediate, combine func([]queryeval.Blueprint) queryeval.Blueprint) (queryeval.Blueprint, error) {
	children := make([]queryeval.Blueprint, 0, len(node.Children()))
	for _, child := range node.Children() {
		bp, err := build(ctx, child)
		if err != nil {
			return nil, err
		}
		children = append(children, bp)
	}
	return combine(children), nil
}

// buildTerm builds the blueprint of a single leaf term. A term searching
// several views becomes an Or over one blueprint per view; all share the
// term's match-data handle.
func buildTerm(ctx queryeval.SearchContext, data *searchparser.TermData, text string) queryeval.Blueprint {
	views := data.Views
	if len(views) == 0 {
		views = []string{data.Field}
	}
	handle := matchdata.Handle(data.Handle)
	if !data.Ranked {
		handle = matchdata.Handle(searchparser.NoHandle)
	}
	if len(views) == 1 {
		return queryeval.NewTerm(ctx, views[0], text, int32(data.Weight), handle)
	}
	children := make([]queryeval.Blueprint, 0, len(views))
	for _, view := range views {
		children = append(children, queryeval.NewTerm(ctx, view, text, int32(data.Weight), handle))
	}
	return queryeval.NewOr(children...)
}
