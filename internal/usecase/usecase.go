package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/forPelevin/hlgen/internal/caption"
	"github.com/forPelevin/hlgen/internal/domain/segments"
	"github.com/forPelevin/hlgen/internal/domain/transcript"
	"github.com/forPelevin/hlgen/internal/highlight"
	"github.com/forPelevin/hlgen/internal/ports"
	"github.com/forPelevin/hlgen/internal/types"
)

type Deps struct {
	Gen ports.Generator
	Log logrus.FieldLogger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	return Usecase{d: d}
}

type Input struct {
	Transcript  string
	Policy      segments.Policy
	MaxAttempts int
	// Concurrency bounds the per-segment enrichment fan-out. <=0 means
	// sequential.
	Concurrency int
}

// Run turns a timestamped transcript into enriched highlights: extraction
// first, then per-segment text recovery and caption enrichment. Segments
// enrich independently of each other, so they fan out across a bounded set
// of workers; the result is re-sorted by start time before returning.
// Content problems of any kind yield an empty list, never an error -- the
// only error Run returns is context cancellation.
func (u Usecase) Run(ctx context.Context, in Input) ([]types.EnrichedHighlight, error) {
	if strings.TrimSpace(in.Transcript) == "" {
		u.d.Log.Warn("empty transcript")
		return nil, nil
	}

	ex := highlight.NewExtractor(u.d.Gen, in.Policy, in.MaxAttempts, u.d.Log)
	segs, err := ex.Extract(ctx, in.Transcript)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, nil
	}

	lines := transcript.Parse(in.Transcript)
	en := caption.NewEnricher(u.d.Gen, in.MaxAttempts, u.d.Log)

	workers := in.Concurrency
	if workers <= 0 {
		workers = 1
	}
	if workers > len(segs) {
		workers = len(segs)
	}

	jobs := make(chan types.Segment, len(segs))
	for _, s := range segs {
		jobs <- s
	}
	close(jobs)

	results := make(chan types.EnrichedHighlight, len(segs))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seg := range jobs {
				if h, ok := u.enrichOne(ctx, en, lines, seg); ok {
					results <- h
				}
			}
		}()
	}
	wg.Wait()
	close(results)

	out := make([]types.EnrichedHighlight, 0, len(segs))
	for h := range results {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// enrichOne processes a single validated segment. Every failure here is
// isolated: the segment is dropped and the rest of the run continues.
func (u Usecase) enrichOne(
	ctx context.Context,
	en *caption.Enricher,
	lines []types.TranscriptLine,
	seg types.Segment,
) (types.EnrichedHighlight, bool) {
	log := u.d.Log.WithFields(logrus.Fields{"start": seg.Start, "end": seg.End})

	text := transcript.RecoverText(lines, seg.Start, seg.End)
	if strings.TrimSpace(text) == "" {
		log.Warn("no spoken text inside segment, skipping")
		return types.EnrichedHighlight{}, false
	}

	capText, err := en.Enrich(ctx, text)
	if err != nil {
		log.WithError(err).Warn("enrichment aborted")
		return types.EnrichedHighlight{}, false
	}
	if capText == "" {
		log.Warn("no caption produced, skipping")
		return types.EnrichedHighlight{}, false
	}

	return types.EnrichedHighlight{
		Start:       seg.Start,
		End:         seg.End,
		SegmentText: text,
		Caption:     capText,
	}, true
}
