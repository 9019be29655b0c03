// Package ranking turns rosters and stored scores into ordered standings.
// Nothing here is cached: every call recomputes from the roster and the
// score table, so two calls over the same data always agree.
package ranking

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/roster"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/store"
)

// Rounds is the fixed number of scoring rounds per competition.
const Rounds = 5

// Entry is one team's row in a ranking table.
type Entry struct {
	TeamID   int             `json:"team_id"`
	TeamName string          `json:"team_name"`
	Rounds   map[int]float64 `json:"tour_scores"`
	Total    float64         `json:"total_score"`
	Rank     int             `json:"rank"`
}

// Dashboard maps "{competition}_{division}" keys to their standings.
type Dashboard map[string][]Entry

// RosterSource is the slice of the roster provider the engine needs.
type RosterSource interface {
	Teams(competition, division string) []roster.Team
}

// ScoreSource is the slice of the score store the engine needs.
type ScoreSource interface {
	ScoresFor(ctx context.Context, competition, division string) ([]store.ScoreRecord, error)
}

type Engine struct {
	rosters RosterSource
	scores  ScoreSource
	logger  *zap.Logger
}

func NewEngine(rosters RosterSource, scores ScoreSource, logger *zap.Logger) *Engine {
	return &Engine{rosters: rosters, scores: scores, logger: logger}
}

// Ranking computes the standings for one competition/division. An unknown or
// empty roster yields an empty table; a store failure is logged and also
// yields an empty table, so a viewer sees "no data" instead of an error.
//
// Totals are the sum of the five round values, rounded to one decimal for
// display only. Ties keep roster order: the sort is stable and teams enter
// in roster order, so equal totals rank in the order the roster lists them.
func (e *Engine) Ranking(ctx context.Context, competition, division string) []Entry {
	teams := e.rosters.Teams(competition, division)
	if len(teams) == 0 {
		return []Entry{}
	}

	recs, err := e.scores.ScoresFor(ctx, competition, division)
	if err != nil {
		e.logger.Warn("score lookup failed, rendering empty ranking",
			zap.String("competition", competition),
			zap.String("division", division),
			zap.Error(err))
		return []Entry{}
	}

	byTeam := make(map[int]map[int]float64, len(teams))
	for _, rec := range recs {
		if rec.Round < 1 || rec.Round > Rounds {
			continue
		}
		if byTeam[rec.TeamID] == nil {
			byTeam[rec.TeamID] = make(map[int]float64, Rounds)
		}
		byTeam[rec.TeamID][rec.Round] = rec.Value
	}

	entries := make([]Entry, 0, len(teams))
	for _, team := range teams {
		rounds := make(map[int]float64, Rounds)
		total := 0.0
		for r := 1; r <= Rounds; r++ {
			v := byTeam[team.ID][r]
			rounds[r] = v
			total += v
		}
		entries = append(entries, Entry{
			TeamID:   team.ID,
			TeamName: team.Name,
			Rounds:   rounds,
			Total:    math.Round(total*10) / 10,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Dashboard materializes the standings for every pair at once. A pair whose
// roster or scores are unavailable contributes an empty list; the other
// pairs are unaffected.
func (e *Engine) Dashboard(ctx context.Context, pairs []roster.Pair) Dashboard {
	snap := make(Dashboard, len(pairs))
	for _, pair := range pairs {
		snap[pair.Key()] = e.Ranking(ctx, pair.Competition, pair.Division)
	}
	return snap
}
