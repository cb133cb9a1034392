// Package segments validates candidate highlight windows against duration,
// ordering, and non-overlap rules.
package segments

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/forPelevin/hlgen/internal/types"
)

// Mode selects how the duration bounds of a highlight are derived.
type Mode string

const (
	// ModeVariable accepts any duration inside [Min, Max]. Used for "many
	// short highlights" runs.
	ModeVariable Mode = "variable"
	// ModeFixed accepts only durations within Tolerance of Target. Used for
	// fixed-length clip runs.
	ModeFixed Mode = "fixed"
)

// Policy is the duration policy applied to every candidate segment.
type Policy struct {
	Mode      Mode
	Min       float64
	Max       float64
	Target    float64
	Tolerance float64
}

// Variable returns a policy accepting durations in [min, max] seconds.
func Variable(min, max float64) Policy {
	return Policy{Mode: ModeVariable, Min: min, Max: max}
}

// Fixed returns a policy accepting durations of target±tolerance seconds.
func Fixed(target, tolerance float64) Policy {
	return Policy{Mode: ModeFixed, Target: target, Tolerance: tolerance}
}

// Default is the policy observed to work well for short social clips:
// nominally 30-60s with one second of slack on either side.
func Default() Policy { return Variable(29, 61) }

// Bounds returns the inclusive [min, max] duration window for the policy.
func (p Policy) Bounds() (min, max float64) {
	if p.Mode == ModeFixed {
		return p.Target - p.Tolerance, p.Target + p.Tolerance
	}
	return p.Min, p.Max
}

// Seconds coerces a loosely-typed timestamp value (the generative service
// returns numbers and numeric strings interchangeably) to float64 seconds.
func Seconds(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ValidateOne reports whether a single candidate satisfies ordering and the
// policy's duration bounds. Missing keys, non-numeric values, and conversion
// failures all count as validation failure, never as an error.
func ValidateOne(seg types.RawSegment, p Policy) bool {
	start, ok := Seconds(seg.Start)
	if !ok {
		logrus.WithField("start", seg.Start).Debug("segment rejected: start not numeric")
		return false
	}
	end, ok := Seconds(seg.End)
	if !ok {
		logrus.WithField("end", seg.End).Debug("segment rejected: end not numeric")
		return false
	}
	if start < 0 || start >= end {
		logrus.WithFields(logrus.Fields{"start": start, "end": end}).Debug("segment rejected: bad ordering")
		return false
	}
	min, max := p.Bounds()
	if d := end - start; d < min || d > max {
		logrus.WithFields(logrus.Fields{"duration": d, "min": min, "max": max}).Debug("segment rejected: duration out of bounds")
		return false
	}
	return true
}

// ValidateSet reports whether a full candidate set is usable: non-empty,
// every member individually valid, and no overlap between members once
// sorted by start time.
func ValidateSet(segs []types.RawSegment, p Policy) bool {
	if len(segs) == 0 {
		logrus.Debug("segment set rejected: empty")
		return false
	}
	windows := make([]types.Segment, 0, len(segs))
	for _, s := range segs {
		if !ValidateOne(s, p) {
			return false
		}
		start, _ := Seconds(s.Start)
		end, _ := Seconds(s.End)
		windows = append(windows, types.Segment{Start: start, End: end})
	}
	SortByStart(windows)
	if HasOverlap(windows) {
		logrus.Debug("segment set rejected: overlap")
		return false
	}
	return true
}

// SortByStart orders windows ascending by start time, in place.
func SortByStart(segs []types.Segment) {
	sort.Slice(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
}

// HasOverlap reports whether any adjacent pair in a start-sorted slice
// overlaps. Touching endpoints (end_i == start_{i+1}) are not an overlap.
func HasOverlap(sorted []types.Segment) bool {
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].End > sorted[i+1].Start {
			return true
		}
	}
	return false
}
