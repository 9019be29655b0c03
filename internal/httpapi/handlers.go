package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ingest"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ranking"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/roster"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/pkg/types"
)

// Engine is the read side the HTTP handlers expose.
type Engine interface {
	Ranking(ctx context.Context, competition, division string) []ranking.Entry
	Dashboard(ctx context.Context, pairs []roster.Pair) ranking.Dashboard
}

// Rosters lists pairs and teams for the read endpoints.
type Rosters interface {
	Pairs() []roster.Pair
	Teams(competition, division string) []roster.Team
}

// SubmitScore handles POST /scores: the jury submission endpoint.
// 400 for malformed or out-of-range input, 404 for an unknown team.
func SubmitScore(svc *ingest.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeSubmit(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if req.TeamID == nil || req.Round == nil || req.Value == nil {
			writeSubmit(w, http.StatusBadRequest, "team_id, round and value are required")
			return
		}

		_, err := svc.Record(r.Context(), *req.TeamID, *req.Round, *req.Value)
		switch {
		case errors.Is(err, ingest.ErrInvalidRound), errors.Is(err, ingest.ErrInvalidValue):
			writeSubmit(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ingest.ErrTeamNotFound):
			writeSubmit(w, http.StatusNotFound, err.Error())
		case err != nil:
			logger.Error("score submission failed", zap.Error(err))
			writeSubmit(w, http.StatusInternalServerError, "could not record score")
		default:
			writeSubmit(w, http.StatusOK, "score recorded")
		}
	}
}

// GetRanking handles GET /ranking/{competition}/{division}.
func GetRanking(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		competition := chi.URLParam(r, "competition")
		division := chi.URLParam(r, "division")
		writeJSON(w, http.StatusOK, engine.Ranking(r.Context(), competition, division))
	}
}

// GetDashboard handles GET /dashboard: every pair's standings at once.
func GetDashboard(engine Engine, rosters Rosters) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.Dashboard(r.Context(), rosters.Pairs()))
	}
}

// GetTeams handles GET /teams: the flat team list juries pick from.
func GetTeams(rosters Rosters) http.HandlerFunc {
	type teamRow struct {
		roster.Team
		Competition string `json:"competition"`
		Division    string `json:"division"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		rows := []teamRow{}
		for _, pair := range rosters.Pairs() {
			for _, t := range rosters.Teams(pair.Competition, pair.Division) {
				rows = append(rows, teamRow{Team: t, Competition: pair.Competition, Division: pair.Division})
			}
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeSubmit(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.SubmitResponse{Success: status == http.StatusOK, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
