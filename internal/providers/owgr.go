package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/spdavis3/golf-pool/internal/pool"
	"github.com/spdavis3/golf-pool/internal/services"
)

// OWGRClient fetches the Official World Golf Ranking table.
type OWGRClient struct {
	httpClient    *http.Client
	cache         services.Cache
	logger        *logrus.Logger
	baseURL       string
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker
	retryAttempts int
	retryBase     time.Duration
	rankingsTTL   time.Duration
}

// NewOWGRClient creates a world-ranking client. The rankings change weekly,
// so ttl is typically hours.
func NewOWGRClient(cache services.Cache, logger *logrus.Logger, ttl time.Duration, opts Options) *OWGRClient {
	opts = opts.withDefaults()
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://apiweb.owgr.com/api/owgr"
	}
	return &OWGRClient{
		httpClient:    &http.Client{Timeout: opts.Timeout},
		cache:         cache,
		logger:        logger,
		baseURL:       baseURL,
		limiter:       rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		breaker:       newBreaker("owgr", opts.BreakerThreshold),
		retryAttempts: 3,
		retryBase:     time.Second,
		rankingsTTL:   ttl,
	}
}

type owgrRankingsResponse struct {
	RankingsList []struct {
		Rank   int `json:"rank"`
		Player struct {
			FullName string `json:"fullName"`
		} `json:"player"`
	} `json:"rankingsList"`
}

// Rankings returns the world-ranking table in feed order, cached between
// fetches.
func (c *OWGRClient) Rankings(ctx context.Context) (*pool.Rankings, error) {
	cacheKey := services.RankingsCacheKey()

	var cached []pool.RankingEntry
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		return pool.NewRankings(cached), nil
	}

	url := fmt.Sprintf("%s/rankings/getRankings?pageSize=300&pageNumber=1", c.baseURL)
	var resp owgrRankingsResponse
	if err := c.fetch(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch rankings: %w", err)
	}

	entries := make([]pool.RankingEntry, 0, len(resp.RankingsList))
	for _, r := range resp.RankingsList {
		if r.Player.FullName == "" {
			continue
		}
		entries = append(entries, pool.RankingEntry{Name: r.Player.FullName, Rank: r.Rank})
	}

	if len(entries) > 0 {
		if err := c.cache.Set(ctx, cacheKey, entries, c.rankingsTTL); err != nil {
			c.logger.WithError(err).Warn("Failed to cache rankings")
		}
	}

	return pool.NewRankings(entries), nil
}

func (c *OWGRClient) fetch(ctx context.Context, url string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, makeRequest(ctx, c.httpClient, c.logger, url, c.retryAttempts, c.retryBase, target)
	})
	return err
}
