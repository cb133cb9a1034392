// Package transcript parses line-oriented, timestamp-annotated transcripts
// and recovers the spoken text inside a time window.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/forPelevin/hlgen/internal/types"
)

var (
	// Matches lines like:
	//   [8.96] Speaker: some words [12.32]
	//   [12.32] some words
	// The first bracketed numeric token is the line timestamp; a trailing
	// bracketed timestamp is tolerated and dropped.
	lineRE = regexp.MustCompile(`^\s*\[\s*(\d+(?:\.\d+)?)\s*\]\s*(.*?)(?:\s*\[\s*\d+(?:\.\d+)?\s*\])?\s*$`)

	speakerRE = regexp.MustCompile(`(?i)^speaker\s*\d*\s*:\s*`)
)

// Parse extracts (timestamp, text) records from a raw transcript. Lines that
// do not match the expected shape are skipped: real transcripts carry stray
// formatting and that must not break a run. Output preserves input line
// order; timestamps are not re-sorted or verified monotonic.
func Parse(raw string) []types.TranscriptLine {
	var out []types.TranscriptLine
	for _, line := range strings.Split(raw, "\n") {
		m := lineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ts, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		text := strings.TrimSpace(speakerRE.ReplaceAllString(strings.TrimSpace(m[2]), ""))
		if text == "" {
			continue
		}
		out = append(out, types.TranscriptLine{Timestamp: ts, Text: text})
	}
	return out
}

// RecoverText joins, in transcript order, the text of every line whose
// timestamp falls in [start, end). Returns "" when no line is in range;
// callers treat that as "skip this segment", not as an error.
func RecoverText(lines []types.TranscriptLine, start, end float64) string {
	var parts []string
	for _, l := range lines {
		if l.Timestamp >= start && l.Timestamp < end {
			parts = append(parts, l.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// FormatUtterances renders ASR output triples into the line format Parse
// consumes. This is the only bridge between the speech-to-text backend and
// the text-based extraction pipeline.
func FormatUtterances(utts []types.Utterance) string {
	var b strings.Builder
	for _, u := range utts {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "[%.2f] Speaker: %s [%.2f]\n", u.Start, text, u.End)
	}
	return b.String()
}
