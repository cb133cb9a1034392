// Package sqlitestore caches transcriptions and records accepted highlights
// in a local SQLite database, so repeated runs on the same input skip the
// expensive transcription pass.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/forPelevin/hlgen/internal/types"
)

type Video struct {
	ID        string `gorm:"primaryKey"`
	Path      string `gorm:"uniqueIndex"`
	CreatedAt time.Time
}

type Utterance struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	VideoID  string `gorm:"index"`
	Seq      int
	Text     string
	StartSec float64
	EndSec   float64
}

type Highlight struct {
	ID          string `gorm:"primaryKey"`
	VideoID     string `gorm:"index"`
	StartSec    float64
	EndSec      float64
	Caption     string
	SegmentText string
	ClipPath    string
	CreatedAt   time.Time
}

type Store struct{ db *gorm.DB }

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.AutoMigrate(&Video{}, &Utterance{}, &Highlight{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CachedUtterances returns the stored transcription for videoPath, or nil
// when none exists.
func (s *Store) CachedUtterances(ctx context.Context, videoPath string) ([]types.Utterance, error) {
	var v Video
	err := s.db.WithContext(ctx).Where("path = ?", videoPath).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []Utterance
	if err := s.db.WithContext(ctx).Where("video_id = ?", v.ID).Order("seq").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	utts := make([]types.Utterance, 0, len(rows))
	for _, r := range rows {
		utts = append(utts, types.Utterance{Text: r.Text, Start: r.StartSec, End: r.EndSec})
	}
	return utts, nil
}

func (s *Store) SaveUtterances(ctx context.Context, videoPath string, utts []types.Utterance) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := firstOrCreateVideo(tx, videoPath)
		if err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", v.ID).Delete(&Utterance{}).Error; err != nil {
			return err
		}
		rows := make([]Utterance, 0, len(utts))
		for i, u := range utts {
			rows = append(rows, Utterance{
				VideoID:  v.ID,
				Seq:      i,
				Text:     u.Text,
				StartSec: u.Start,
				EndSec:   u.End,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (s *Store) SaveHighlight(ctx context.Context, videoPath string, h types.EnrichedHighlight, clipFile string) error {
	v, err := firstOrCreateVideo(s.db.WithContext(ctx), videoPath)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&Highlight{
		ID:          uuid.NewString(),
		VideoID:     v.ID,
		StartSec:    h.Start,
		EndSec:      h.End,
		Caption:     h.Caption,
		SegmentText: h.SegmentText,
		ClipPath:    clipFile,
	}).Error
}

func firstOrCreateVideo(tx *gorm.DB, path string) (Video, error) {
	var v Video
	err := tx.Where(Video{Path: path}).
		Attrs(Video{ID: uuid.NewString()}).
		FirstOrCreate(&v).Error
	return v, err
}
