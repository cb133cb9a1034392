// Package pipeline wires the adapters together for one end-to-end run:
// input video -> audio -> transcription -> highlight extraction ->
// caption enrichment -> cut clips + manifest.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/forPelevin/hlgen/internal/domain/segments"
	"github.com/forPelevin/hlgen/internal/domain/transcript"
	"github.com/forPelevin/hlgen/internal/ports"
	"github.com/forPelevin/hlgen/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/hlgen/internal/ports/adapters/openrouter"
	"github.com/forPelevin/hlgen/internal/ports/adapters/sqlitestore"
	"github.com/forPelevin/hlgen/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/hlgen/internal/types"
	"github.com/forPelevin/hlgen/internal/usecase"
)

type Config struct {
	InputMP4 string `validate:"required"`
	OutDir   string
	// CacheDir is the base directory for local artifacts (audio, transcripts,
	// the sqlite cache). If empty, defaults to ".cache".
	CacheDir string

	// Duration policy. Mode "variable" uses MinSec/MaxSec; "fixed" uses
	// TargetSec/ToleranceSec.
	Mode         string `validate:"oneof=variable fixed"`
	MinSec       float64
	MaxSec       float64
	TargetSec    float64
	ToleranceSec float64

	MaxAttempts int `validate:"gte=1"`
	Concurrency int `validate:"gte=0"`
	CallTimeout time.Duration

	FFmpegPath  string
	FFprobePath string

	WhisperBin   string `validate:"required"`
	WhisperModel string `validate:"required"`

	OpenRouterAPIKey       string `validate:"required"`
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string

	// DBPath overrides the sqlite cache location. If empty, defaults to
	// <CacheDir>/hlgen.db.
	DBPath string

	Log logrus.FieldLogger
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := os.Stat(c.InputMP4); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	switch c.Mode {
	case "variable":
		if c.MinSec <= 0 {
			return errors.New("min duration must be > 0")
		}
		if c.MaxSec < c.MinSec {
			return errors.New("max duration must be >= min duration")
		}
	case "fixed":
		if c.TargetSec <= 0 {
			return errors.New("target duration must be > 0")
		}
		if c.ToleranceSec < 0 {
			return errors.New("tolerance must be >= 0")
		}
	}
	return openrouter.ValidateBaseURL(c.OpenRouterBaseURL, c.OpenRouterAllowedHosts)
}

func (c Config) policy() segments.Policy {
	if c.Mode == "fixed" {
		return segments.Fixed(c.TargetSec, c.ToleranceSec)
	}
	return segments.Variable(c.MinSec, c.MaxSec)
}

func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	// adapters
	video := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	asr := whispercpp.New(cfg.WhisperBin, cfg.WhisperModel)
	gen := openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL, cfg.CallTimeout)

	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", hash(cfg.InputMP4))
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	log.WithField("dir", cacheDir).Info("workspace ready")

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(baseCache, "hlgen.db")
	}
	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	utts, err := store.CachedUtterances(ctx, cfg.InputMP4)
	if err != nil {
		return err
	}
	if len(utts) > 0 {
		log.WithField("utterances", len(utts)).Info("using cached transcription")
	} else {
		wav := filepath.Join(cacheDir, "audio.wav")
		log.Info("extracting audio")
		if err := video.ExtractAudioMono16k(ctx, cfg.InputMP4, wav); err != nil {
			return err
		}
		log.Info("transcribing audio")
		utts, err = asr.Transcribe(ctx, wav, cacheDir)
		if err != nil {
			return err
		}
		if err := store.SaveUtterances(ctx, cfg.InputMP4, utts); err != nil {
			// The cache is an optimization; a failed write must not kill the run.
			log.WithError(err).Warn("could not cache transcription")
		}
	}

	uc := usecase.New(usecase.Deps{Gen: gen, Log: log})
	highlights, err := uc.Run(ctx, usecase.Input{
		Transcript:  transcript.FormatUtterances(utts),
		Policy:      cfg.policy(),
		MaxAttempts: cfg.MaxAttempts,
		Concurrency: cfg.Concurrency,
	})
	if err != nil {
		return err
	}
	if len(highlights) == 0 {
		log.Warn("no highlights found")
	}

	outRoot := cfg.OutDir
	if outRoot == "" {
		outRoot = "out"
	}
	runOutDir := buildRunOutDir(outRoot, cfg.InputMP4, time.Now().UTC())
	clipsDir := filepath.Join(runOutDir, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return err
	}

	m := types.Manifest{Input: cfg.InputMP4}
	for i, h := range highlights {
		id := fmt.Sprintf("%03d", i+1)
		clipPath := filepath.Join(clipsDir, id+".mp4")
		log.WithFields(logrus.Fields{"id": id, "start": h.Start, "end": h.End}).Info("cutting clip")
		if err := video.CutClip(ctx, cfg.InputMP4, h.Start, h.End, clipPath); err != nil {
			return err
		}
		if err := store.SaveHighlight(ctx, cfg.InputMP4, h, clipPath); err != nil {
			log.WithError(err).Warn("could not record highlight")
		}
		m.Highlights = append(m.Highlights, types.ManifestHighlight{
			ID:       id,
			StartSec: h.Start,
			EndSec:   h.End,
			Text:     h.SegmentText,
			Caption:  h.Caption,
			File:     filepath.ToSlash(filepath.Join("clips", id+".mp4")),
		})
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"highlights": len(m.Highlights), "path": manifestPath}).Info("manifest written")
	return nil
}

func buildRunOutDir(outRoot, inputMP4 string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(inputMP4), filepath.Ext(inputMP4))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", inputMP4, now.UTC().UnixNano())
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, hash(runSeed)[:6]))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var (
	_ ports.VideoTool = (*ffmpeg.Adapter)(nil)
	_ ports.ASR       = (*whispercpp.Adapter)(nil)
	_ ports.Generator = (*openrouter.Adapter)(nil)
	_ ports.Store     = (*sqlitestore.Store)(nil)
)
