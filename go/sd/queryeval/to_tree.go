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

import "github.com/xlab/treeprint"

// ToTree renders a blueprint tree for debug output.
func ToTree(bp Blueprint) string {
	return asTree(bp, nil).String()
}

func asTree(bp Blueprint, root treeprint.Tree) treeprint.Tree {
	txt := bp.ShortDescription()
	var branch treeprint.Tree
	if root == nil {
		branch = treeprint.NewWithRoot(txt)
	} else {
		branch = root.AddBranch(txt)
	}
	for _, child := range bp.Children() {
		asTree(child, branch)
	}
	return branch
}
