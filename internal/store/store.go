// Package store persists jury scores. One table holds every
// competition/division, keyed by (competition, division, team, round); a
// resubmission for the same key overwrites the previous value in place.
package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ScoreRecord is one team's score for one round.
type ScoreRecord struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Competition string    `gorm:"size:32;uniqueIndex:idx_score_key" json:"competition"`
	Division    string    `gorm:"size:32;uniqueIndex:idx_score_key" json:"division"`
	TeamID      int       `gorm:"uniqueIndex:idx_score_key" json:"team_id"`
	Round       int       `gorm:"uniqueIndex:idx_score_key" json:"round"`
	Value       float64   `json:"value"`
	WrittenAt   time.Time `json:"written_at"`
}

type Store struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the score table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// New wraps an already-open gorm handle (tests pass sqlite here).
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&ScoreRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Upsert writes one score. The OnConflict clause makes concurrent
// submissions for the same (team, round) land as a single row whose value is
// one of the submitted values, never a merge of both.
func (s *Store) Upsert(ctx context.Context, rec ScoreRecord) error {
	// Competition/division are stored lower-cased so the unique index and
	// reads never split on caller casing.
	rec.Competition = strings.ToLower(rec.Competition)
	rec.Division = strings.ToLower(rec.Division)
	rec.WrittenAt = time.Now().UTC()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "competition"}, {Name: "division"},
			{Name: "team_id"}, {Name: "round"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value", "written_at"}),
	}).Create(&rec).Error
}

// ScoresFor returns every record for one competition/division. The read is
// scoped to this call; the pooled connection is released on return.
func (s *Store) ScoresFor(ctx context.Context, competition, division string) ([]ScoreRecord, error) {
	var recs []ScoreRecord
	err := s.db.WithContext(ctx).
		Where("competition = ? AND division = ?",
			strings.ToLower(competition), strings.ToLower(division)).
		Order("team_id, round").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
