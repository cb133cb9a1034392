package caption

import (
	"context"
	"errors"
	"testing"
)

type scriptedGen struct {
	replies []string
	calls   int
}

func (g *scriptedGen) Complete(_ context.Context, _, _ string) (string, error) {
	i := g.calls
	g.calls++
	if i < len(g.replies) {
		return g.replies[i], nil
	}
	return "", errors.New("scripted generator exhausted")
}

func TestEnrich_EmptyTextSkipsServiceCall(t *testing.T) {
	t.Parallel()

	gen := &scriptedGen{}
	en := NewEnricher(gen, 3, nil)

	for _, in := range []string{"", "   ", "\n\t"} {
		got, err := en.Enrich(context.Background(), in)
		if err != nil {
			t.Fatalf("enrich(%q): %v", in, err)
		}
		if got != "" {
			t.Fatalf("expected empty caption for %q, got %q", in, got)
		}
	}
	if gen.calls != 0 {
		t.Fatalf("expected zero service calls, got %d", gen.calls)
	}
}

func TestEnrich_ReturnsTrimmedCaption(t *testing.T) {
	t.Parallel()

	gen := &scriptedGen{replies: []string{
		"```json\n{\"caption_with_hashtags\": \" AI builds the clips for you. #ai #video #shorts \"}\n```",
	}}
	en := NewEnricher(gen, 3, nil)

	got, err := en.Enrich(context.Background(), "some spoken words")
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got != "AI builds the clips for you. #ai #video #shorts" {
		t.Fatalf("unexpected caption: %q", got)
	}
	if gen.calls != 1 {
		t.Fatalf("expected success to stop the loop, got %d calls", gen.calls)
	}
}

func TestEnrich_RetriesOnMalformedReply(t *testing.T) {
	t.Parallel()

	gen := &scriptedGen{replies: []string{
		"here's your caption: nice clip!",      // not JSON
		`{"caption": "wrong field"}`,           // missing expected field
		`{"caption_with_hashtags": "ok #a #b"}`,
	}}
	en := NewEnricher(gen, 3, nil)

	got, err := en.Enrich(context.Background(), "words")
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got != "ok #a #b" {
		t.Fatalf("unexpected caption: %q", got)
	}
	if gen.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", gen.calls)
	}
}

func TestEnrich_ExhaustionReturnsEmptyNotError(t *testing.T) {
	t.Parallel()

	gen := &scriptedGen{replies: []string{"junk", "junk", "junk"}}
	en := NewEnricher(gen, 3, nil)

	got, err := en.Enrich(context.Background(), "words")
	if err != nil {
		t.Fatalf("exhaustion must not be an error, got: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty caption, got %q", got)
	}
	if gen.calls != 3 {
		t.Fatalf("expected all 3 attempts, got %d", gen.calls)
	}
}

func TestEnrich_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGen{}
	en := NewEnricher(gen, 3, nil)

	if _, err := en.Enrich(ctx, "words"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected no calls after cancellation, got %d", gen.calls)
	}
}
