package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/hub"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ingest"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/roster"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ws"
)

// FullEngine is everything the routes need from the ranking engine.
type FullEngine interface {
	Engine
	ws.Engine
}

func SetupRoutes(h *hub.Hub, engine FullEngine, rosters *roster.Provider, svc *ingest.Service, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/scores", SubmitScore(svc, logger))
	r.Get("/ranking/{competition}/{division}", GetRanking(engine))
	r.Get("/dashboard", GetDashboard(engine, rosters))
	r.Get("/teams", GetTeams(rosters))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, engine, rosters, logger))
	return r
}
