package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hlgen/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	outDir, _ := cmd.Flags().GetString("out")
	mode, _ := cmd.Flags().GetString("mode")
	attempts, _ := cmd.Flags().GetInt("attempts")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	minSec, _ := cmd.Flags().GetFloat64("min")
	maxSec, _ := cmd.Flags().GetFloat64("max")
	targetSec, _ := cmd.Flags().GetFloat64("target")
	toleranceSec, _ := cmd.Flags().GetFloat64("tolerance")
	dbPath, _ := cmd.Flags().GetString("db")
	logJSON, _ := cmd.Flags().GetBool("log-json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	log := setupLogger(logJSON, verbose)

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return errors.New("OPENROUTER_API_KEY is required (set it in .env)")
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		InputMP4: absIn,
		OutDir:   outDir,

		Mode:         mode,
		MinSec:       minSec,
		MaxSec:       maxSec,
		TargetSec:    targetSec,
		ToleranceSec: toleranceSec,

		MaxAttempts: attempts,
		Concurrency: concurrency,

		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",

		WhisperBin:   ".cache/bin/whisper.cpp",
		WhisperModel: ".cache/models/ggml-base.bin",

		OpenRouterAPIKey:       apiKey,
		OpenRouterModel:        getenvDefault("OPENROUTER_MODEL", "google/gemini-2.0-flash-001"),
		OpenRouterBaseURL:      getenvDefault("OPENROUTER_BASE_URL", "https://openrouter.ai"),
		OpenRouterAllowedHosts: splitHosts(os.Getenv("OPENROUTER_ALLOWED_HOSTS")),

		DBPath: dbPath,
		Log:    log,
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

// splitHosts parses a comma-separated host list. An empty value yields nil,
// which keeps the adapter's default allowlist in effect.
func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
