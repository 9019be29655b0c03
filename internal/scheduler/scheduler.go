// Package scheduler drives the periodic dashboard broadcast and the
// push-on-write ranking broadcast that follows a jury submission.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/hub"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ranking"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/roster"
)

// Engine is the slice of the ranking engine the scheduler uses.
type Engine interface {
	Ranking(ctx context.Context, competition, division string) []ranking.Entry
	Dashboard(ctx context.Context, pairs []roster.Pair) ranking.Dashboard
}

// PairSource lists the competition/division pairs each cycle covers. Taking
// it as an interface keeps the roster reloadable behind the scheduler.
type PairSource interface {
	Pairs() []roster.Pair
}

type Scheduler struct {
	engine   Engine
	pairs    PairSource
	hub      *hub.Hub
	interval time.Duration
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(parent context.Context, engine Engine, pairs PairSource, h *hub.Hub, interval time.Duration, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		engine:   engine,
		pairs:    pairs,
		hub:      h,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start launches the periodic loop. Each tick recomputes the full dashboard
// and pushes it to every subscriber; a failing cycle is logged and the next
// tick proceeds unaffected.
func (s *Scheduler) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runCycle()
			}
		}
	}()
}

// Stop cancels the loop and waits for the current cycle to finish, so tests
// can shut the scheduler down deterministically.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.done
}

func (s *Scheduler) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("broadcast cycle failed, skipping to next interval",
				zap.Any("panic", r))
		}
	}()
	snap := s.engine.Dashboard(s.ctx, s.pairs.Pairs())
	s.hub.Inbox() <- hub.Dashboard{Snapshot: snap}
}

// PushRanking recomputes one pair's standings and broadcasts them to that
// pair's channel. Called right after a successful score write so viewers of
// the affected scoreboard don't wait for the next tick.
func (s *Scheduler) PushRanking(ctx context.Context, competition, division string) {
	pair := roster.Pair{Competition: competition, Division: division}
	entries := s.engine.Ranking(ctx, competition, division)
	s.hub.Inbox() <- hub.Ranking{Channel: ChannelName(pair), Entries: entries}
}

// ChannelName is the hub channel for one pair's ranking feed, matching the
// "ranking_{competition}_{division}" convention clients subscribe with.
func ChannelName(p roster.Pair) string {
	return "ranking_" + p.Key()
}
