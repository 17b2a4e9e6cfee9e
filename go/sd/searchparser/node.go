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

// Package searchparser turns a serialized query expression into a query
// node tree and provides the tree rewrites that run before plan
// construction.
//
// The node tree is a closed set of variants: the intermediate combinators
// And, Or, AndNot, Rank and SameElement, and the leaf terms StringTerm,
// NumberTerm and LocationTerm. Code that walks the tree switches
// exhaustively over these types; there are no other implementations of
// Node.
package searchparser

type (
	// Node is a node in the query tree. It is implemented only by the
	// types in this package.
	Node interface {
		node()
	}

	// Intermediate is a Node holding an ordered sequence of children.
	// For AndNot and Rank the first child is semantically distinguished:
	// it alone carries the node's positive result.
	Intermediate interface {
		Node
		Children() []Node
		Child(i int) Node
		SetChild(i int, n Node)
		Append(n Node)
	}

	// Term is a leaf Node matching documents against a single field.
	Term interface {
		Node
		TermData() *TermData
	}
)

// Weight is the term weight in percent. The default weight is 100.
type Weight int32

// DefaultWeight is used for terms that carry no explicit weight, including
// the synthetic location term injected by the planbuilder.
const DefaultWeight = Weight(100)

// TermData is the per-term metadata shared by all leaf variants. It is
// consumed by the match-data reservation pass and extracted for ranking.
type TermData struct {
	// Field is the logical field name as written in the query.
	Field string
	// Views are the physical views the term searches, filled in by
	// ResolveViews. Empty until resolution has run.
	Views []string
	// ID is the position of the term in the serialized query, unique
	// within one tree. Synthetic terms use ID -1.
	ID int32
	// Weight is the term weight used by ranking.
	Weight Weight
	// Ranked is false for terms that never contribute rank features.
	Ranked bool
	// PositionData is false for terms whose occurrence positions will
	// never be unpacked.
	PositionData bool
	// Handle is the match-data slot reserved for the term, or
	// NoHandle before reservation.
	Handle int32
}

// NoHandle marks a term with no reserved match-data slot.
const NoHandle = int32(-1)

type children struct {
	nodes []Node
}

func (c *children) Children() []Node     { return c.nodes }
func (c *children) Child(i int) Node     { return c.nodes[i] }
func (c *children) SetChild(i int, n Node) { c.nodes[i] = n }
func (c *children) Append(n Node)        { c.nodes = append(c.nodes, n) }

type (
	// And matches documents matching all children.
	And struct {
		children
	}

	// Or matches documents matching at least one child.
	Or struct {
		children
	}

	// AndNot matches documents matching the first child but none of the
	// later ones.
	AndNot struct {
		children
	}

	// Rank matches exactly the documents matching the first child; later
	// children only contribute rank features.
	Rank struct {
		children
	}

	// SameElement matches documents where all children match within the
	// same element of the struct field named Field.
	SameElement struct {
		children
		Field string
	}

	// StringTerm matches documents containing Term in the target field.
	StringTerm struct {
		Data TermData
		Term string
	}

	// NumberTerm matches documents whose target field value equals or
	// falls inside Spec (a number or a range like "[10;20]").
	NumberTerm struct {
		Data TermData
		Spec string
	}

	// LocationTerm matches documents whose position attribute falls
	// inside the geometric range in Spec. It is synthesized by the
	// planbuilder from the location string of the request; it never
	// appears in a serialized query.
	LocationTerm struct {
		Data TermData
		Spec string
	}
)

func (*And) node()          {}
func (*Or) node()           {}
func (*AndNot) node()       {}
func (*Rank) node()         {}
func (*SameElement) node()  {}
func (*StringTerm) node()   {}
func (*NumberTerm) node()   {}
func (*LocationTerm) node() {}

func (t *StringTerm) TermData() *TermData   { return &t.Data }
func (t *NumberTerm) TermData() *TermData   { return &t.Data }
func (t *LocationTerm) TermData() *TermData { return &t.Data }

// NewAnd returns an And over the given children.
func NewAnd(nodes ...Node) *And {
	return &And{children: children{nodes: nodes}}
}

// NewOr returns an Or over the given children.
func NewOr(nodes ...Node) *Or {
	return &Or{children: children{nodes: nodes}}
}

// NewAndNot returns an AndNot with the given positive child and negative
// children.
func NewAndNot(positive Node, negative ...Node) *AndNot {
	return &AndNot{children: children{nodes: append([]Node{positive}, negative...)}}
}

// NewRank returns a Rank with the given base child and auxiliary children.
func NewRank(base Node, aux ...Node) *Rank {
	return &Rank{children: children{nodes: append([]Node{base}, aux...)}}
}

// NewSameElement returns a SameElement over the given struct field.
func NewSameElement(field string, nodes ...Node) *SameElement {
	return &SameElement{children: children{nodes: nodes}, Field: field}
}

// NewStringTerm returns a ranked StringTerm with a reset handle.
func NewStringTerm(field, term string, id int32, weight Weight) *StringTerm {
	return &StringTerm{
		Data: newTermData(field, id, weight),
		Term: term,
	}
}

// NewNumberTerm returns a ranked NumberTerm with a reset handle.
func NewNumberTerm(field, spec string, id int32, weight Weight) *NumberTerm {
	return &NumberTerm{
		Data: newTermData(field, id, weight),
		Spec: spec,
	}
}

// NewLocationTerm returns a LocationTerm on the given view. The view is
// already physical, so the term is created pre-resolved.
func NewLocationTerm(view, spec string) *LocationTerm {
	t := &LocationTerm{
		Data: newTermData(view, -1, DefaultWeight),
		Spec: spec,
	}
	t.Data.Views = []string{view}
	return t
}

func newTermData(field string, id int32, weight Weight) TermData {
	return TermData{
		Field:        field,
		ID:           id,
		Weight:       weight,
		Ranked:       true,
		PositionData: true,
		Handle:       NoHandle,
	}
}

// Visit walks the tree in depth-first pre-order. If visit returns false
// for a node, its children are skipped.
func Visit(root Node, visit func(Node) bool) {
	if !visit(root) {
		return
	}
	if inter, ok := root.(Intermediate); ok {
		for _, child := range inter.Children() {
			Visit(child, visit)
		}
	}
}

// VisitTerms walks the tree and calls visit for every leaf term.
func VisitTerms(root Node, visit func(Term)) {
	Visit(root, func(n Node) bool {
		if term, ok := n.(Term); ok {
			visit(term)
		}
		return true
	})
}

// ExtractTerms returns the metadata of all terms in the tree, in
// depth-first order. The slices alias the tree; the tree must not be
// mutated while the result is in use.
func ExtractTerms(root Node) []*TermData {
	var terms []*TermData
	VisitTerms(root, func(t Term) {
		terms = append(terms, t.TermData())
	})
	return terms
}
