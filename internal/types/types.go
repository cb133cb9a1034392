package types

// Utterance is one spoken span as reported by the ASR backend.
type Utterance struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptLine is one parsed line of the timestamped transcript text.
type TranscriptLine struct {
	Timestamp float64
	Text      string
}

// RawSegment is a candidate highlight as returned by the generative service,
// before any validation. Start/End may be numbers, numeric strings, or
// garbage; validation decides what survives.
type RawSegment struct {
	Start   any    `json:"start"`
	End     any    `json:"end"`
	Content string `json:"content,omitempty"`
}

// Segment is a validated highlight window in seconds.
type Segment struct {
	Start float64
	End   float64
}

// EnrichedHighlight is the final unit of work product: a validated window,
// the spoken text inside it, and a generated caption with hashtags.
type EnrichedHighlight struct {
	Start       float64
	End         float64
	SegmentText string
	Caption     string
}

type Manifest struct {
	Input      string              `json:"input"`
	Highlights []ManifestHighlight `json:"highlights"`
}

type ManifestHighlight struct {
	ID       string  `json:"id"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Text     string  `json:"text"`
	Caption  string  `json:"caption"`
	File     string  `json:"file"`
}
