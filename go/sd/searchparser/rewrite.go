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

package searchparser

// PrefixSameElementFields qualifies the field names of all terms below a
// SameElement node with the struct field the SameElement matches in.
// A term "make" under SameElement("car") searches "car.make". Nested
// SameElement nodes stack their prefixes.
func PrefixSameElementFields(root Node) {
	prefixFields(root, "")
}

func prefixFields(n Node, prefix string) {
	switch n := n.(type) {
	case *SameElement:
		inner := n.Field
		if prefix != "" {
			n.Field = prefix + n.Field
			inner = n.Field
		}
		for _, child := range n.Children() {
			prefixFields(child, inner+".")
		}
	case Intermediate:
		for _, child := range n.Children() {
			prefixFields(child, prefix)
		}
	case Term:
		if prefix != "" {
			n.TermData().Field = prefix + n.TermData().Field
		}
	}
}

// OptimizeUnpacking clears the unpack requirements of terms whose posting
// occurrences can never be observed: terms inside the negative children of
// an AndNot neither rank nor unpack, and with delay set, terms inside the
// auxiliary children of a Rank keep ranking but skip position unpacking.
// When a white list will be spliced into the plan and split is set, the
// rewrite is skipped: splitting assumes the tree shape seen here survives
// into the plan, and the splice changes it.
//
// The tree structure is never modified, only per-term flags.
func OptimizeUnpacking(root Node, hasWhiteList, split, delay bool) Node {
	if hasWhiteList && split {
		return root
	}
	markUnpacking(root, unpackState{ranked: true, positions: true, delay: delay})
	return root
}

type unpackState struct {
	ranked    bool
	positions bool
	delay     bool
}

func markUnpacking(n Node, st unpackState) {
	switch n := n.(type) {
	case *AndNot:
		markUnpacking(n.Child(0), st)
		negative := st
		negative.ranked = false
		negative.positions = false
		for _, child := range n.Children()[1:] {
			markUnpacking(child, negative)
		}
	case *Rank:
		markUnpacking(n.Child(0), st)
		aux := st
		if st.delay {
			aux.positions = false
		}
		for _, child := range n.Children()[1:] {
			markUnpacking(child, aux)
		}
	case Intermediate:
		for _, child := range n.Children() {
			markUnpacking(child, st)
		}
	case Term:
		data := n.TermData()
		data.Ranked = data.Ranked && st.ranked
		data.PositionData = data.PositionData && st.positions
	}
}
