// Package highlight drives the bounded retry loop that turns a transcript
// into a validated, non-overlapping set of highlight windows.
package highlight

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/forPelevin/hlgen/internal/domain/reply"
	"github.com/forPelevin/hlgen/internal/domain/segments"
	"github.com/forPelevin/hlgen/internal/ports"
	"github.com/forPelevin/hlgen/internal/types"
)

const DefaultMaxAttempts = 3

type Extractor struct {
	gen         ports.Generator
	policy      segments.Policy
	maxAttempts int
	log         logrus.FieldLogger
}

func NewExtractor(gen ports.Generator, policy segments.Policy, maxAttempts int, log logrus.FieldLogger) *Extractor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Extractor{gen: gen, policy: policy, maxAttempts: maxAttempts, log: log}
}

// Extract asks the generative service for highlight windows and keeps asking,
// up to the attempt bound, until one reply survives validation: a non-empty
// segment list whose individually-valid members do not overlap once sorted by
// start time. Exhausting attempts returns (nil, nil); the service is
// non-deterministic and finding nothing is a normal outcome, not an error.
// The only returned error is context cancellation.
func (e *Extractor) Extract(ctx context.Context, transcript string) ([]types.Segment, error) {
	instruction := extractInstruction(e.policy)

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log := e.log.WithField("attempt", attempt)

		raw, err := e.gen.Complete(ctx, instruction, "Transcription:\n"+transcript)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).Warn("extraction call failed")
			continue
		}

		r := reply.Parse(raw)
		if r.Kind != reply.SegmentList {
			log.Warn("reply is not a segment list")
			continue
		}

		valid := make([]types.Segment, 0, len(r.Segments))
		for _, s := range r.Segments {
			if !segments.ValidateOne(s, e.policy) {
				continue
			}
			start, _ := segments.Seconds(s.Start)
			end, _ := segments.Seconds(s.End)
			valid = append(valid, types.Segment{Start: start, End: end})
		}
		if len(valid) == 0 {
			log.WithField("returned", len(r.Segments)).Warn("no segment passed validation")
			continue
		}

		segments.SortByStart(valid)
		if segments.HasOverlap(valid) {
			log.WithField("valid", len(valid)).Warn("overlapping segments")
			continue
		}

		log.WithField("segments", len(valid)).Info("highlight segments accepted")
		return valid, nil
	}

	e.log.WithField("attempts", e.maxAttempts).Warn("extraction attempts exhausted")
	return nil, nil
}

func extractInstruction(p segments.Policy) string {
	min, max := p.Bounds()
	wantMin, wantMax := 10, 20
	if p.Mode == segments.ModeFixed {
		wantMin, wantMax = 1, 5
	}
	return fmt.Sprintf(`Act as a social media content creator. Extract non-overlapping segments from the provided transcript that would work as short standalone video clips.
Return ONLY a JSON array of objects with keys "start" and "end" carrying the exact timestamps of the segment boundaries. No explanations, no text or formatting outside the JSON.

Rules:
- Each segment duration (end - start) must be between %.1f and %.1f seconds, inclusive.
- Segments must not overlap.
- Return between %d and %d segments.
- Use only timestamps that appear in the transcript; never invent or alter them.
- Prefer complete thoughts: key points, explanations, questions, conclusions.

Example output:
[{"start": "8.96", "end": "42.20"}, {"start": "115.08", "end": "156.12"}]`,
		min, max, wantMin, wantMax)
}
