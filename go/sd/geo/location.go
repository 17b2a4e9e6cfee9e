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

// Package geo parses the location part of a search request and carries the
// resolved location metadata handed back to ranking.
package geo

import (
	"fmt"
	"strconv"
	"strings"

	"searchd.io/searchd/go/sd/sderrors"
	"searchd.io/searchd/go/sd/sdrpc"
)

// PositionView returns the physical view holding the z-curve encoded
// positions of a position attribute.
func PositionView(field string) string {
	return field + "_zcurve"
}

// Spec is a parsed geometric range.
//
// The textual form is "x;y", optionally extended with a distance cutoff
// and an x-aspect as "x;y;radius" or "x;y;radius;aspect". A leading '!'
// requests pure filtering: matching documents are pruned by distance but
// distance contributes nothing to their rank.
type Spec struct {
	X, Y    int64
	Radius  int64
	XAspect uint32

	filterOnly bool
}

// noRadius marks a spec without a distance cutoff.
const noRadius = int64(-1)

// ParseSpec parses the textual form of a geometric range.
func ParseSpec(text string) (*Spec, error) {
	spec := &Spec{Radius: noRadius}
	if rest, ok := strings.CutPrefix(text, "!"); ok {
		spec.filterOnly = true
		text = rest
	}
	parts := strings.Split(text, ";")
	if len(parts) < 2 || len(parts) > 4 {
		return nil, sderrors.Errorf(sdrpc.Code_INVALID_ARGUMENT,
			"malformed location range %q: want x;y[;radius[;aspect]]", text)
	}
	var err error
	if spec.X, err = strconv.ParseInt(parts[0], 10, 64); err != nil {
		return nil, sderrors.Wrapf(err, "bad x coordinate in location range %q", text)
	}
	if spec.Y, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
		return nil, sderrors.Wrapf(err, "bad y coordinate in location range %q", text)
	}
	if len(parts) > 2 {
		if spec.Radius, err = strconv.ParseInt(parts[2], 10, 64); err != nil || spec.Radius < 0 {
			return nil, sderrors.Errorf(sdrpc.Code_INVALID_ARGUMENT,
				"bad radius %q in location range %q", parts[2], text)
		}
	}
	if len(parts) > 3 {
		aspect, err := strconv.ParseUint(parts[3], 10, 32)
		if err != nil {
			return nil, sderrors.Wrapf(err, "bad x-aspect in location range %q", text)
		}
		spec.XAspect = uint32(aspect)
	}
	return spec, nil
}

// RankOnDistance reports whether distance to the spec point should
// contribute to ranking.
func (s *Spec) RankOnDistance() bool {
	return !s.filterOnly
}

// PruneOnDistance reports whether documents outside the distance cutoff
// should be dropped.
func (s *Spec) PruneOnDistance() bool {
	return s.Radius != noRadius
}

// Contains reports whether a point falls inside the distance cutoff. A
// spec without a cutoff contains every point. The x axis is compressed by
// the x-aspect before the distance comparison, mirroring how latitude
// shrinks longitude degrees.
func (s *Spec) Contains(x, y int64) bool {
	if !s.PruneOnDistance() {
		return true
	}
	dx := x - s.X
	if s.XAspect != 0 {
		dx = (dx * int64(s.XAspect)) >> 32
	}
	dy := y - s.Y
	return dx*dx+dy*dy <= s.Radius*s.Radius
}

// String renders the spec back into its textual form.
func (s *Spec) String() string {
	var b strings.Builder
	if s.filterOnly {
		b.WriteByte('!')
	}
	fmt.Fprintf(&b, "%d;%d", s.X, s.Y)
	if s.Radius != noRadius {
		fmt.Fprintf(&b, ";%d", s.Radius)
		if s.XAspect != 0 {
			fmt.Fprintf(&b, ";%d", s.XAspect)
		}
	}
	return b.String()
}

// Location is the resolved location metadata exposed to ranking. It is
// populated only when the request asked to rank on distance; a zero
// Location (Valid false) means ranking sees no location.
type Location struct {
	Attribute string
	X, Y      int64
	XAspect   uint32
	Valid     bool
}

// Set populates the record from a parsed spec.
func (l *Location) Set(attribute string, spec *Spec) {
	l.Attribute = attribute
	l.X = spec.X
	l.Y = spec.Y
	l.XAspect = spec.XAspect
	l.Valid = true
}
