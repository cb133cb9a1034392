// Package caption generates a short description plus hashtags for a
// highlight's spoken text.
package caption

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/forPelevin/hlgen/internal/domain/reply"
	"github.com/forPelevin/hlgen/internal/ports"
)

const DefaultMaxAttempts = 3

type Enricher struct {
	gen         ports.Generator
	maxAttempts int
	log         logrus.FieldLogger
}

func NewEnricher(gen ports.Generator, maxAttempts int, log logrus.FieldLogger) *Enricher {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Enricher{gen: gen, maxAttempts: maxAttempts, log: log}
}

// Enrich returns a caption with hashtags for segmentText, or "" when no
// caption could be produced. Empty input short-circuits without a service
// call: a segment with no words cannot be captioned, and that is the caller's
// cue to drop it. Exhausting attempts also returns "" rather than an error;
// the only returned error is context cancellation.
func (e *Enricher) Enrich(ctx context.Context, segmentText string) (string, error) {
	if strings.TrimSpace(segmentText) == "" {
		return "", nil
	}

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		log := e.log.WithField("attempt", attempt)

		raw, err := e.gen.Complete(ctx, captionInstruction, "Segment Text:\n"+segmentText)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			log.WithError(err).Warn("caption call failed")
			continue
		}

		r := reply.Parse(raw)
		if r.Kind != reply.CaptionObject {
			log.Warn("reply is not a caption object")
			continue
		}
		return r.Caption, nil
	}

	e.log.WithField("attempts", e.maxAttempts).Warn("caption attempts exhausted")
	return "", nil
}

const captionInstruction = `You are given the spoken text of a short video clip (30-60 seconds).
Produce a single string containing a concise, engaging description (1-2 sentences) followed by 3-5 relevant hashtags. Hashtags are lowercase, start with #, and contain no spaces.

Return ONLY a JSON object in this exact shape, with no markdown or text outside it:
{"` + reply.CaptionField + `": "Your description here. #tag1 #tag2 #tag3"}`
