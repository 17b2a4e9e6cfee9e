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

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// ToTree renders a node tree for debug output.
func ToTree(root Node) string {
	return asTree(root, nil).String()
}

func asTree(n Node, parent treeprint.Tree) treeprint.Tree {
	txt := describe(n)
	var branch treeprint.Tree
	if parent == nil {
		branch = treeprint.NewWithRoot(txt)
	} else {
		branch = parent.AddBranch(txt)
	}
	if inter, ok := n.(Intermediate); ok {
		for _, child := range inter.Children() {
			asTree(child, branch)
		}
	}
	return branch
}

func describe(n Node) string {
	switch n := n.(type) {
	case *And:
		return "AND"
	case *Or:
		return "OR"
	case *AndNot:
		return "ANDNOT"
	case *Rank:
		return "RANK"
	case *SameElement:
		return fmt.Sprintf("SAMEELEMENT %s", n.Field)
	case *StringTerm:
		return fmt.Sprintf("TERM %s:%q", n.Data.Field, n.Term)
	case *NumberTerm:
		return fmt.Sprintf("NUMBER %s:%s", n.Data.Field, n.Spec)
	case *LocationTerm:
		return fmt.Sprintf("LOCATION %s:%s", n.Data.Field, n.Spec)
	}
	return fmt.Sprintf("%T", n)
}
