package reply

import (
	"testing"
)

func TestUnfence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `[{"start":1}]`, `[{"start":1}]`},
		{"fence with lang tag", "```json\n[1,2]\n```", "[1,2]"},
		{"fence without lang tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without newline", "```[1]```", "[1]"},
		{"leading whitespace", "  \n```json\n[]\n```  ", "[]"},
		{"unterminated fence", "```json\n[1,2]", "[1,2]"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Unfence(tt.in); got != tt.want {
				t.Fatalf("Unfence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse_SegmentList(t *testing.T) {
	t.Parallel()

	r := Parse("```json\n[{\"start\":\"8.96\",\"end\":\"42.20\"},{\"start\":115.08,\"end\":156.12}]\n```")
	if r.Kind != SegmentList {
		t.Fatalf("expected SegmentList, got kind %d", r.Kind)
	}
	if len(r.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(r.Segments))
	}
	if r.Segments[0].Start != "8.96" {
		t.Fatalf("unexpected first start: %v", r.Segments[0].Start)
	}
}

func TestParse_SegmentListWithSurroundingProse(t *testing.T) {
	t.Parallel()

	r := Parse(`Sure! Here are the segments: [{"start":10,"end":50}] hope that helps`)
	if r.Kind != SegmentList || len(r.Segments) != 1 {
		t.Fatalf("expected 1-element SegmentList, got %+v", r)
	}
}

func TestParse_CaptionObject(t *testing.T) {
	t.Parallel()

	r := Parse(`{"caption_with_hashtags": " Great clip! #ai #video #ml "}`)
	if r.Kind != CaptionObject {
		t.Fatalf("expected CaptionObject, got kind %d", r.Kind)
	}
	if r.Caption != "Great clip! #ai #video #ml" {
		t.Fatalf("expected trimmed caption, got %q", r.Caption)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "   \n "},
		{"plain prose", "I could not find any segments."},
		{"broken json", `[{"start": 10,`},
		{"object missing field", `{"caption": "nope"}`},
		{"wrong field type", `{"caption_with_hashtags": 42}`},
		{"empty caption", `{"caption_with_hashtags": "  "}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if r := Parse(tt.in); r.Kind != Malformed {
				t.Fatalf("expected Malformed for %q, got %+v", tt.in, r)
			}
		})
	}
}
