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

package memindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSortsAndDeduplicates(t *testing.T) {
	ix := New()
	ix.Add("f", "a", 5, 1, 3, 1, 5)

	assert.Equal(t, []uint32{1, 3, 5}, ix.Postings("f", "a"))
	assert.Equal(t, uint32(3), ix.EstimateHits("f", "a"))
}

func TestAddAccumulates(t *testing.T) {
	ix := New()
	ix.Add("f", "a", 4)
	ix.Add("f", "a", 2)

	assert.Equal(t, []uint32{2, 4}, ix.Postings("f", "a"))
}

func TestUnknownTerm(t *testing.T) {
	ix := New()
	ix.Add("f", "a", 1)

	assert.Empty(t, ix.Postings("f", "b"))
	assert.Empty(t, ix.Postings("g", "a"))
	assert.Zero(t, ix.EstimateHits("f", "b"))
}

func TestDocIDLimit(t *testing.T) {
	ix := New()
	assert.Equal(t, uint32(1), ix.DocIDLimit())

	ix.Add("f", "a", 7)
	assert.Equal(t, uint32(8), ix.DocIDLimit())

	ix.AddPosition("pos_zcurve", 12, 1, 2)
	assert.Equal(t, uint32(13), ix.DocIDLimit())
}

func TestPosition(t *testing.T) {
	ix := New()
	ix.AddPosition("pos_zcurve", 3, 10, -20)

	x, y, ok := ix.Position("pos_zcurve", 3)
	assert.True(t, ok)
	assert.Equal(t, int64(10), x)
	assert.Equal(t, int64(-20), y)

	_, _, ok = ix.Position("pos_zcurve", 4)
	assert.False(t, ok)
	_, _, ok = ix.Position("other", 3)
	assert.False(t, ok)
}
