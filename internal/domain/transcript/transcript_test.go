package transcript

import (
	"reflect"
	"strings"
	"testing"

	"github.com/forPelevin/hlgen/internal/types"
)

const sampleTranscript = `
[0.0] Speaker 1: Welcome to our discussion about artificial intelligence. [15.0]
[15.5] Speaker 1: Today we'll explore the fascinating world of machine learning. [29.8]
[30.2] Speaker 2: One of the most exciting applications is in video processing. [45.0]
garbage line without a timestamp
[45.8] Let's look at how AI can automatically generate video highlights.
[60.0] Speaker 2: This technology is revolutionizing content creation. [74.9]
`

func TestParse_SkipsMalformedAndStripsSpeaker(t *testing.T) {
	t.Parallel()

	lines := Parse(sampleTranscript)
	if len(lines) != 5 {
		t.Fatalf("expected 5 parsed lines, got %d: %v", len(lines), lines)
	}
	if lines[0].Timestamp != 0.0 {
		t.Fatalf("unexpected first timestamp: %v", lines[0].Timestamp)
	}
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l.Text), "speaker") {
			t.Fatalf("speaker prefix not stripped: %q", l.Text)
		}
		if strings.Contains(l.Text, "[") {
			t.Fatalf("trailing timestamp not stripped: %q", l.Text)
		}
	}
	if lines[3].Text != "Let's look at how AI can automatically generate video highlights." {
		t.Fatalf("unexpected text for speakerless line: %q", lines[3].Text)
	}
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	first := Parse(sampleTranscript)
	second := Parse(sampleTranscript)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output on re-parse")
	}
}

func TestParse_EmptyAndGarbageOnly(t *testing.T) {
	t.Parallel()

	if got := Parse(""); len(got) != 0 {
		t.Fatalf("expected no lines for empty input, got %v", got)
	}
	if got := Parse("no timestamps here\nstill none"); len(got) != 0 {
		t.Fatalf("expected no lines for garbage input, got %v", got)
	}
}

func TestRecoverText_WindowBoundaries(t *testing.T) {
	t.Parallel()

	lines := []types.TranscriptLine{
		{Timestamp: 0.0, Text: "zero"},
		{Timestamp: 15.5, Text: "fifteen"},
		{Timestamp: 30.2, Text: "thirty"},
		{Timestamp: 45.8, Text: "forty-five"},
		{Timestamp: 60.0, Text: "sixty"},
	}

	// Start inclusive, end exclusive: 15.5 in, 60.0 out, 0.0 out.
	got := RecoverText(lines, 15.5, 60.0)
	want := "fifteen\nthirty\nforty-five"
	if got != want {
		t.Fatalf("RecoverText = %q, want %q", got, want)
	}

	if got := RecoverText(lines, 200, 260); got != "" {
		t.Fatalf("expected empty text outside range, got %q", got)
	}
}

func TestFormatUtterances_RoundTripsThroughParse(t *testing.T) {
	t.Parallel()

	utts := []types.Utterance{
		{Text: " hello there ", Start: 0, End: 4.5},
		{Text: "", Start: 4.5, End: 5},
		{Text: "second line", Start: 5.25, End: 9},
	}

	raw := FormatUtterances(utts)
	lines := Parse(raw)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after round trip, got %d: %v", len(lines), lines)
	}
	if lines[0].Text != "hello there" || lines[0].Timestamp != 0 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].Text != "second line" || lines[1].Timestamp != 5.25 {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
}
