package ports

import (
	"context"

	"github.com/forPelevin/hlgen/internal/types"
)

// Generator is the generative content service consumed by highlight
// extraction and caption enrichment. One call is one blocking
// request/response; callers own retries.
type Generator interface {
	Complete(ctx context.Context, instruction, input string) (string, error)
}

// ASR produces timestamped utterances for a mono 16k WAV file.
type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) ([]types.Utterance, error)
}

// VideoTool covers the media plumbing around the core: audio extraction for
// transcription and cutting the accepted highlight windows.
type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inMP4, outWav string) error
	CutClip(ctx context.Context, inMP4 string, startSec, endSec float64, outMP4 string) error
	ProbeDuration(ctx context.Context, inMP4 string) (float64, error)
}

// Store caches transcriptions and records accepted highlights so repeated
// runs on the same input skip the expensive ASR pass.
type Store interface {
	CachedUtterances(ctx context.Context, videoPath string) ([]types.Utterance, error)
	SaveUtterances(ctx context.Context, videoPath string, utts []types.Utterance) error
	SaveHighlight(ctx context.Context, videoPath string, h types.EnrichedHighlight, clipFile string) error
	Close() error
}
