package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuildRunOutDir(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildRunOutDir("out", "/tmp/My Cool.Video.mp4", now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if !strings.HasPrefix(base, "my-cool-video-20260212-103045Z-") {
		t.Fatalf("unexpected run dir format: %s", base)
	}
	if len(base) != len("my-cool-video-20260212-103045Z-")+6 {
		t.Fatalf("unexpected run dir suffix length: %s", base)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tmp := t.TempDir()
	input := filepath.Join(tmp, "in.mp4")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	valid := Config{
		InputMP4:          input,
		Mode:              "variable",
		MinSec:            29,
		MaxSec:            61,
		MaxAttempts:       3,
		WhisperBin:        "whisper.cpp",
		WhisperModel:      "model.bin",
		OpenRouterAPIKey:  "k",
		OpenRouterBaseURL: "https://openrouter.ai",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing input", func(c *Config) { c.InputMP4 = "" }},
		{"input does not exist", func(c *Config) { c.InputMP4 = filepath.Join(tmp, "nope.mp4") }},
		{"bad mode", func(c *Config) { c.Mode = "sometimes" }},
		{"zero min", func(c *Config) { c.MinSec = 0 }},
		{"max below min", func(c *Config) { c.MaxSec = 10 }},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }},
		{"missing whisper model", func(c *Config) { c.WhisperModel = "" }},
		{"missing api key", func(c *Config) { c.OpenRouterAPIKey = "" }},
		{"disallowed base url", func(c *Config) { c.OpenRouterBaseURL = "https://evil.example" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	fixed := valid
	fixed.Mode = "fixed"
	fixed.TargetSec = 60
	fixed.ToleranceSec = 0.1
	if err := fixed.Validate(); err != nil {
		t.Fatalf("expected valid fixed-mode config, got: %v", err)
	}
	fixed.TargetSec = 0
	if err := fixed.Validate(); err == nil {
		t.Fatalf("expected error for zero target in fixed mode")
	}
}
