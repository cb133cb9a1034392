// Package reply decodes free-form generative service output into a tagged
// result. It never returns an error past its boundary: anything that does not
// decode is Malformed, and the caller's retry loop deals with it.
package reply

import (
	"encoding/json"
	"strings"

	"github.com/forPelevin/hlgen/internal/types"
)

// CaptionField is the single field the caption reply object must carry.
const CaptionField = "caption_with_hashtags"

type Kind int

const (
	Malformed Kind = iota
	SegmentList
	CaptionObject
)

type Reply struct {
	Kind     Kind
	Segments []types.RawSegment
	Caption  string
}

// Parse classifies and decodes one service reply. Code fences, prose around
// the JSON, and outright garbage are all tolerated; garbage comes back as
// Malformed.
func Parse(raw string) Reply {
	t := Unfence(raw)
	if t == "" {
		return Reply{Kind: Malformed}
	}

	if body, ok := outermost(t, '[', ']'); ok {
		var segs []types.RawSegment
		if err := json.Unmarshal([]byte(body), &segs); err == nil {
			return Reply{Kind: SegmentList, Segments: segs}
		}
	}

	if body, ok := outermost(t, '{', '}'); ok {
		var obj map[string]any
		if err := json.Unmarshal([]byte(body), &obj); err == nil {
			if c, ok := obj[CaptionField].(string); ok && strings.TrimSpace(c) != "" {
				return Reply{Kind: CaptionObject, Caption: strings.TrimSpace(c)}
			}
		}
	}

	return Reply{Kind: Malformed}
}

// Unfence removes an optional markdown code fence (with optional language
// tag) around s. Text without a fence is returned trimmed.
func Unfence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	// Drop the opening fence line, including any language tag after it.
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	} else {
		t = strings.TrimPrefix(t, "```")
	}
	if j := strings.LastIndex(t, "```"); j >= 0 {
		t = t[:j]
	}
	return strings.TrimSpace(t)
}

// outermost slices the widest open..close span in t, tolerating prose on
// either side of the JSON payload.
func outermost(t string, open, close byte) (string, bool) {
	start := strings.IndexByte(t, open)
	end := strings.LastIndexByte(t, close)
	if start < 0 || end <= start {
		return "", false
	}
	return t[start : end+1], true
}
