package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/spdavis3/golf-pool/internal/models"
	"github.com/spdavis3/golf-pool/internal/pool"
)

// LeaderboardSource is the live scoreboard feed consulted by the refresher.
type LeaderboardSource interface {
	Scoreboard(ctx context.Context, eventID string) (models.TournamentInfo, []models.LeaderboardEntry, error)
}

// RankingsSource is the world-ranking feed consulted by the refresher.
type RankingsSource interface {
	Rankings(ctx context.Context) (*pool.Rankings, error)
}

// Refresher keeps the leaderboard and rankings caches warm on a fixed
// schedule so dashboard renders almost always read a warm cache. The
// providers own the caching; refreshing is just calling them.
type Refresher struct {
	store     *PoolStore
	espn      LeaderboardSource
	owgr      RankingsSource
	logger    *logrus.Logger
	cron      *cron.Cron
	interval  time.Duration
	mu        sync.Mutex
	isRunning bool
}

func NewRefresher(store *PoolStore, espn LeaderboardSource, owgr RankingsSource, logger *logrus.Logger, interval time.Duration) *Refresher {
	return &Refresher{
		store:    store,
		espn:     espn,
		owgr:     owgr,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start begins the scheduled refreshing and warms the caches once up front.
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", r.interval.String())
	if _, err := r.cron.AddFunc(schedule, r.refreshLeaderboard); err != nil {
		return fmt.Errorf("failed to schedule leaderboard refresh: %w", err)
	}
	if _, err := r.cron.AddFunc("@every 1h", r.refreshRankings); err != nil {
		return fmt.Errorf("failed to schedule rankings refresh: %w", err)
	}

	r.cron.Start()
	r.isRunning = true

	go func() {
		r.refreshRankings()
		r.refreshLeaderboard()
	}()

	r.logger.WithField("interval", r.interval).Info("Feed refresher started")
	return nil
}

// Stop halts the scheduled refreshing.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	ctx := r.cron.Stop()
	<-ctx.Done()

	r.isRunning = false
	r.logger.Info("Feed refresher stopped")
}

func (r *Refresher) refreshLeaderboard() {
	settings, err := r.store.Settings()
	if err != nil {
		r.logger.WithError(err).Warn("Refresh skipped, settings unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, leaderboard, err := r.espn.Scoreboard(ctx, settings.ESPNEventID)
	if err != nil {
		r.logger.WithError(err).Warn("Leaderboard refresh failed")
		return
	}
	r.logger.WithField("players", len(leaderboard)).Debug("Leaderboard refreshed")
}

func (r *Refresher) refreshRankings() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rankings, err := r.owgr.Rankings(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("Rankings refresh failed")
		return
	}
	r.logger.WithField("players", rankings.Len()).Debug("Rankings refreshed")
}
