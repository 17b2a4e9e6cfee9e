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

package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchd.io/searchd/go/test/utils"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		text      string
		wantX     int64
		wantY     int64
		wantRank  bool
		wantPrune bool
	}{
		{"200;100", 200, 100, true, false},
		{"-200;-100", -200, -100, true, false},
		{"200;100;50", 200, 100, true, true},
		{"!200;100;50", 200, 100, false, true},
		{"!200;100", 200, 100, false, false},
		{"200;100;50;12345", 200, 100, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			spec, err := ParseSpec(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantX, spec.X)
			assert.Equal(t, tt.wantY, spec.Y)
			assert.Equal(t, tt.wantRank, spec.RankOnDistance())
			assert.Equal(t, tt.wantPrune, spec.PruneOnDistance())
		})
	}
}

func TestParseSpecErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"200",
		"a;b",
		"200;100;x",
		"200;100;-5",
		"200;100;50;-1",
		"1;2;3;4;5",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseSpec(text)
			require.Error(t, err)
		})
	}
}

func TestSpecStringRoundTrip(t *testing.T) {
	for _, text := range []string{
		"200;100",
		"200;100;50",
		"!200;100;50",
		"200;100;50;12345",
	} {
		spec, err := ParseSpec(text)
		require.NoError(t, err)
		assert.Equal(t, text, spec.String())

		again, err := ParseSpec(spec.String())
		require.NoError(t, err)
		utils.MustMatch(t, spec, again)
	}
}

func TestSpecContains(t *testing.T) {
	spec, err := ParseSpec("100;100;10")
	require.NoError(t, err)

	assert.True(t, spec.Contains(100, 100))
	assert.True(t, spec.Contains(106, 108))
	assert.False(t, spec.Contains(100, 111))
	assert.False(t, spec.Contains(0, 0))

	// No cutoff contains everything.
	anywhere, err := ParseSpec("100;100")
	require.NoError(t, err)
	assert.True(t, anywhere.Contains(1<<40, -(1<<40)))
}

func TestPositionView(t *testing.T) {
	assert.Equal(t, "pos_zcurve", PositionView("pos"))
}

func TestLocationSet(t *testing.T) {
	spec, err := ParseSpec("200;100;50;7")
	require.NoError(t, err)

	var loc Location
	assert.False(t, loc.Valid)
	loc.Set("pos_zcurve", spec)
	assert.True(t, loc.Valid)
	assert.Equal(t, "pos_zcurve", loc.Attribute)
	assert.Equal(t, int64(200), loc.X)
	assert.Equal(t, int64(100), loc.Y)
	assert.Equal(t, uint32(7), loc.XAspect)
}
