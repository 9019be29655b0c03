package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/config"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/httpapi"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/hub"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ingest"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ranking"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/roster"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/scheduler"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	scores, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("opening score store", zap.Error(err))
	}

	rosters, err := roster.Load(cfg.RosterDir, logger)
	if err != nil {
		logger.Fatal("loading rosters", zap.String("dir", cfg.RosterDir), zap.Error(err))
	}
	logger.Info("rosters loaded", zap.Int("pairs", len(rosters.Pairs())))

	ctx := context.Background()
	h := hub.NewHub(ctx)

	engine := ranking.NewEngine(rosters, scores, logger)

	sched := scheduler.New(ctx, engine, rosters, h, cfg.BroadcastInterval, logger)
	sched.Start()
	defer sched.Stop()

	svc := ingest.NewService(rosters, scores, sched, logger)

	handler := httpapi.SetupRoutes(h, engine, rosters, svc, logger)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
