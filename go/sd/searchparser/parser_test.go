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
	"github.com/stretchr/testify/require"

	"searchd.io/searchd/go/sd/sderrors"
	"searchd.io/searchd/go/sd/sdrpc"
)

func TestParseRoundTrip(t *testing.T) {
	original := NewAndNot(
		NewRank(
			NewAnd(
				NewStringTerm("title", "hello", 0, 100),
				NewNumberTerm("year", "[2000;2026]", 1, 100),
			),
			NewStringTerm("body", "world", 2, 150),
		),
		NewOr(
			NewStringTerm("tags", "spam", 3, 100),
			NewSameElement("addr",
				NewStringTerm("city", "oslo", 4, 100),
				NewStringTerm("zip", "1234", 5, 100),
			),
		),
	)

	serialized, err := Serialize(original)
	require.NoError(t, err)

	parsed, err := Parse(serialized)
	require.NoError(t, err)
	assertSameShape(t, original, parsed)
}

// assertSameShape compares trees structurally, ignoring term ids: the
// parser assigns its own.
func assertSameShape(t *testing.T, want, got Node) {
	t.Helper()
	require.IsType(t, want, got)
	switch want := want.(type) {
	case *SameElement:
		assert.Equal(t, want.Field, got.(*SameElement).Field)
	case *StringTerm:
		gotTerm := got.(*StringTerm)
		assert.Equal(t, want.Data.Field, gotTerm.Data.Field)
		assert.Equal(t, want.Term, gotTerm.Term)
		assert.Equal(t, want.Data.Weight, gotTerm.Data.Weight)
	case *NumberTerm:
		gotTerm := got.(*NumberTerm)
		assert.Equal(t, want.Data.Field, gotTerm.Data.Field)
		assert.Equal(t, want.Spec, gotTerm.Spec)
	}
	wantInter, ok := want.(Intermediate)
	if !ok {
		return
	}
	gotInter := got.(Intermediate)
	require.Len(t, gotInter.Children(), len(wantInter.Children()))
	for i, child := range wantInter.Children() {
		assertSameShape(t, child, gotInter.Child(i))
	}
}

func TestParseAssignsTermIDs(t *testing.T) {
	serialized, err := Serialize(NewAnd(
		NewStringTerm("a", "x", 42, 100),
		NewStringTerm("b", "y", 42, 100),
		NewStringTerm("c", "z", 42, 100),
	))
	require.NoError(t, err)

	parsed, err := Parse(serialized)
	require.NoError(t, err)

	var ids []int32
	VisitTerms(parsed, func(term Term) {
		ids = append(ids, term.TermData().ID)
	})
	assert.Equal(t, []int32{0, 1, 2}, ids)
}

func TestParseErrors(t *testing.T) {
	valid, err := Serialize(NewStringTerm("f", "t", 0, 100))
	require.NoError(t, err)

	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"unknown opcode", []byte{0xee}},
		{"truncated term", valid[:len(valid)-1]},
		{"trailing garbage", append(append([]byte{}, valid...), 0x00)},
		{"zero arity", []byte{opAnd, 0}},
		{"truncated intermediate", []byte{opAnd, 2, opStringTerm}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.buf)
			require.Error(t, err)
			assert.Equal(t, sdrpc.Code_INVALID_ARGUMENT, sderrors.Code(err))
		})
	}
}

func TestParseRejectsZeroWeight(t *testing.T) {
	buf := []byte{opStringTerm, 1, 'f', 1, 't', 0}
	_, err := Parse(buf)
	require.Error(t, err)
	assert.Equal(t, sdrpc.Code_INVALID_ARGUMENT, sderrors.Code(err))
}

func TestSerializeRejectsLocationTerm(t *testing.T) {
	_, err := Serialize(NewLocationTerm("pos_zcurve", "200;100"))
	require.Error(t, err)
}

func TestExtractTerms(t *testing.T) {
	tree := NewRank(
		NewStringTerm("a", "x", 0, 100),
		NewAnd(
			NewStringTerm("b", "y", 1, 200),
			NewNumberTerm("c", "7", 2, 100),
		),
	)
	terms := ExtractTerms(tree)
	require.Len(t, terms, 3)
	assert.Equal(t, "a", terms[0].Field)
	assert.Equal(t, "b", terms[1].Field)
	assert.Equal(t, "c", terms[2].Field)
	assert.Equal(t, Weight(200), terms[1].Weight)
}
