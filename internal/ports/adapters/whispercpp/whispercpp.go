// Package whispercpp shells out to a whisper.cpp binary for speech-to-text.
package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forPelevin/hlgen/internal/types"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

// Transcribe runs whisper.cpp over a mono 16k WAV and returns the spoken
// utterances as (text, start, end) triples.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) ([]types.Utterance, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, err
	}

	var doc struct {
		Segments []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
		} `json:"segments"`
	}
	if err := json.Unmarshal(jb, &doc); err != nil {
		return nil, err
	}

	utts := make([]types.Utterance, 0, len(doc.Segments))
	for _, s := range doc.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		utts = append(utts, types.Utterance{Text: text, Start: s.Start, End: s.End})
	}
	return utts, nil
}
