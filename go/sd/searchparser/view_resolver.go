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

// ViewResolver maps logical field names, as written in queries, to the
// physical views that back them. A field not present in the table resolves
// to itself. The zero value is a valid identity resolver.
type ViewResolver struct {
	views map[string][]string
}

// Add registers a physical view for a logical field. Repeated calls for
// the same field accumulate views in registration order.
func (vr *ViewResolver) Add(field, view string) {
	if vr.views == nil {
		vr.views = make(map[string][]string)
	}
	vr.views[field] = append(vr.views[field], view)
}

// Resolve returns the physical views for a logical field.
func (vr *ViewResolver) Resolve(field string) []string {
	if views, ok := vr.views[field]; ok {
		return views
	}
	return []string{field}
}

// ResolveViews fills in the physical views of every term in the tree.
// Terms created pre-resolved, like the synthetic location term, keep
// their views.
func ResolveViews(root Node, resolver *ViewResolver) {
	VisitTerms(root, func(t Term) {
		data := t.TermData()
		if len(data.Views) == 0 {
			data.Views = resolver.Resolve(data.Field)
		}
	})
}
