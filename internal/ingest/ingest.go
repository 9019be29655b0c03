// Package ingest accepts jury score submissions: validate, find which
// scoreboard the team belongs to, upsert, then push the fresh ranking to
// that scoreboard's subscribers.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ranking"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/roster"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/store"
)

var ErrInvalidRound = errors.New("round number must be between 1 and 5")
var ErrInvalidValue = errors.New("score value must be non-negative")
var ErrTeamNotFound = errors.New("team not found in any roster")
var ErrStoreUnavailable = errors.New("score store unavailable")

// Resolver finds the pair a team belongs to; the roster provider implements it.
type Resolver interface {
	Resolve(teamID int) (roster.Pair, roster.Team, error)
}

// Writer is the slice of the score store the service needs.
type Writer interface {
	Upsert(ctx context.Context, rec store.ScoreRecord) error
}

// Broadcaster pushes the affected pair's ranking after a successful write;
// the scheduler implements it.
type Broadcaster interface {
	PushRanking(ctx context.Context, competition, division string)
}

type Service struct {
	rosters   Resolver
	scores    Writer
	broadcast Broadcaster
	logger    *zap.Logger
}

func NewService(rosters Resolver, scores Writer, broadcast Broadcaster, logger *zap.Logger) *Service {
	return &Service{rosters: rosters, scores: scores, broadcast: broadcast, logger: logger}
}

// Record validates and writes one score, then triggers the push-on-write
// broadcast for the team's competition/division. Validation and unknown-team
// failures leave the store untouched.
func (s *Service) Record(ctx context.Context, teamID, round int, value float64) (roster.Pair, error) {
	if round < 1 || round > ranking.Rounds {
		return roster.Pair{}, ErrInvalidRound
	}
	if value < 0 {
		return roster.Pair{}, ErrInvalidValue
	}

	pair, team, err := s.rosters.Resolve(teamID)
	if err != nil {
		return roster.Pair{}, ErrTeamNotFound
	}

	rec := store.ScoreRecord{
		Competition: pair.Competition,
		Division:    pair.Division,
		TeamID:      teamID,
		Round:       round,
		Value:       value,
	}
	if err := s.scores.Upsert(ctx, rec); err != nil {
		s.logger.Error("score upsert failed",
			zap.Int("team_id", teamID), zap.Int("round", round), zap.Error(err))
		return pair, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("score recorded",
		zap.String("competition", pair.Competition),
		zap.String("division", pair.Division),
		zap.Int("team_id", teamID),
		zap.String("team", team.Name),
		zap.Int("round", round),
		zap.Float64("value", value))

	s.broadcast.PushRanking(ctx, pair.Competition, pair.Division)
	return pair, nil
}
