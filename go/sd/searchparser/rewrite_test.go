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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixSameElementFields(t *testing.T) {
	carMake := NewStringTerm("make", "ford", 0, 100)
	model := NewStringTerm("model", "focus", 1, 100)
	outside := NewStringTerm("title", "cars", 2, 100)
	tree := NewAnd(
		outside,
		NewSameElement("car", carMake, model),
	)

	PrefixSameElementFields(tree)

	assert.Equal(t, "car.make", carMake.Data.Field)
	assert.Equal(t, "car.model", model.Data.Field)
	assert.Equal(t, "title", outside.Data.Field)
}

func TestPrefixSameElementFieldsNested(t *testing.T) {
	leaf := NewStringTerm("street", "main", 0, 100)
	inner := NewSameElement("addr", leaf)
	tree := NewSameElement("person", inner)

	PrefixSameElementFields(tree)

	assert.Equal(t, "person.addr", inner.Field)
	assert.Equal(t, "person.addr.street", leaf.Data.Field)
}

func TestOptimizeUnpackingAndNotNegatives(t *testing.T) {
	positive := NewStringTerm("a", "x", 0, 100)
	negative := NewStringTerm("b", "y", 1, 100)
	tree := NewAndNot(positive, negative)

	OptimizeUnpacking(tree, false, false, false)

	assert.True(t, positive.Data.Ranked)
	assert.True(t, positive.Data.PositionData)
	assert.False(t, negative.Data.Ranked)
	assert.False(t, negative.Data.PositionData)
}

func TestOptimizeUnpackingRankAux(t *testing.T) {
	base := NewStringTerm("a", "x", 0, 100)
	aux := NewStringTerm("b", "y", 1, 100)

	// Without delay the auxiliary child unpacks as usual.
	OptimizeUnpacking(NewRank(base, aux), false, false, false)
	assert.True(t, aux.Data.Ranked)
	assert.True(t, aux.Data.PositionData)

	// With delay it still ranks but skips position unpacking.
	OptimizeUnpacking(NewRank(base, aux), false, false, true)
	assert.True(t, aux.Data.Ranked)
	assert.False(t, aux.Data.PositionData)
	assert.True(t, base.Data.PositionData)
}

func TestOptimizeUnpackingSkippedForWhiteListSplit(t *testing.T) {
	negative := NewStringTerm("b", "y", 1, 100)
	tree := NewAndNot(NewStringTerm("a", "x", 0, 100), negative)

	OptimizeUnpacking(tree, true, true, false)

	// The rewrite backed off completely; flags are untouched.
	assert.True(t, negative.Data.Ranked)
	assert.True(t, negative.Data.PositionData)
}

func TestResolveViews(t *testing.T) {
	resolver := &ViewResolver{}
	resolver.Add("title", "title_index")
	resolver.Add("title", "title_attr")

	mapped := NewStringTerm("title", "x", 0, 100)
	identity := NewStringTerm("body", "y", 1, 100)
	preResolved := NewLocationTerm("pos_zcurve", "0;0")
	tree := NewAnd(mapped, identity, preResolved)

	ResolveViews(tree, resolver)

	assert.Equal(t, []string{"title_index", "title_attr"}, mapped.Data.Views)
	assert.Equal(t, []string{"body"}, identity.Data.Views)
	assert.Equal(t, []string{"pos_zcurve"}, preResolved.Data.Views)
}
