// Package providers implements the external feed clients: the ESPN golf
// scoreboard (live leaderboard and player names) and the OWGR world rankings.
// Both read through the shared TTL cache and fail soft: the core never sees
// feed errors, only empty results.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/spdavis3/golf-pool/internal/models"
	"github.com/spdavis3/golf-pool/internal/services"
)

// Options tunes a feed client's resilience knobs. Zero values fall back to
// conservative defaults.
type Options struct {
	Timeout          time.Duration
	RateLimit        int    // requests per second
	BreakerThreshold int    // consecutive failures before the breaker opens
	BaseURL          string // endpoint override, empty means the real feed
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 1
	}
	if o.BreakerThreshold <= 0 {
		o.BreakerThreshold = 5
	}
	return o
}

func newBreaker(name string, threshold int) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
	})
}

// ESPNClient fetches golf scoreboard data from ESPN's public site API.
type ESPNClient struct {
	httpClient    *http.Client
	cache         services.Cache
	logger        *logrus.Logger
	baseURL       string
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker
	retryAttempts int
	retryBase     time.Duration
	scoreboardTTL time.Duration
	namesTTL      time.Duration
}

// NewESPNClient creates an ESPN golf scoreboard client.
func NewESPNClient(cache services.Cache, logger *logrus.Logger, opts Options) *ESPNClient {
	opts = opts.withDefaults()
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://site.api.espn.com/apis/site/v2/sports/golf/pga"
	}
	return &ESPNClient{
		httpClient:    &http.Client{Timeout: opts.Timeout},
		cache:         cache,
		logger:        logger,
		baseURL:       baseURL,
		limiter:       rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		breaker:       newBreaker("espn", opts.BreakerThreshold),
		retryAttempts: 3,
		retryBase:     time.Second,
		scoreboardTTL: 5 * time.Minute,
		namesTTL:      6 * time.Hour,
	}
}

// ESPN scoreboard response structures. The event-specific endpoint returns
// the event at the top level; the ranged scoreboard endpoint wraps events in
// an "events" array.
type espnEvent struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Courses []struct {
		Name string `json:"name"`
	} `json:"courses"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnScoreboardResponse struct {
	espnEvent
	Events []espnEvent `json:"events"`
}

type espnCompetition struct {
	Status      espnEventStatus  `json:"status"`
	Competitors []espnCompetitor `json:"competitors"`
}

type espnEventStatus struct {
	Type struct {
		State       string `json:"state"`
		Completed   bool   `json:"completed"`
		Description string `json:"description"`
	} `json:"type"`
}

type espnCompetitor struct {
	Order   int    `json:"order"`
	Score   string `json:"score"`
	Status  string `json:"status"`
	Athlete struct {
		DisplayName string `json:"displayName"`
	} `json:"athlete"`
	Linescores []espnLinescore `json:"linescores"`
}

type espnLinescore struct {
	Period       int    `json:"period"`
	DisplayValue string `json:"displayValue"`
	Linescores   []struct {
		Period int `json:"period"`
	} `json:"linescores"`
}

type scoreboardSnapshot struct {
	Tournament  models.TournamentInfo     `json:"tournament"`
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

// Scoreboard returns the live tournament header and leaderboard for the
// configured event, cached for a few minutes between fetches.
func (c *ESPNClient) Scoreboard(ctx context.Context, eventID string) (models.TournamentInfo, []models.LeaderboardEntry, error) {
	cacheKey := services.ScoreboardCacheKey(eventID)

	var cached scoreboardSnapshot
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached.Tournament, cached.Leaderboard, nil
	}

	url := fmt.Sprintf("%s/scoreboard/%s", c.baseURL, eventID)
	var resp espnScoreboardResponse
	if err := c.fetch(ctx, url, &resp); err != nil {
		return models.TournamentInfo{}, nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	event := resp.espnEvent
	if len(event.Competitions) == 0 && len(resp.Events) > 0 {
		event = resp.Events[0]
	}

	info := models.TournamentInfo{
		Name:   event.Name,
		Date:   event.Date,
		Status: "Scheduled",
	}
	if len(event.Courses) > 0 {
		info.Course = event.Courses[0].Name
	}

	var leaderboard []models.LeaderboardEntry
	if len(event.Competitions) > 0 {
		competition := event.Competitions[0]
		if competition.Status.Type.Description != "" {
			info.Status = competition.Status.Type.Description
		}
		leaderboard = make([]models.LeaderboardEntry, 0, len(competition.Competitors))
		for _, competitor := range competition.Competitors {
			leaderboard = append(leaderboard, newLeaderboardEntry(competitor))
		}
		sort.SliceStable(leaderboard, func(i, j int) bool {
			return leaderboard[i].Position < leaderboard[j].Position
		})
	}

	snapshot := scoreboardSnapshot{Tournament: info, Leaderboard: leaderboard}
	if err := c.cache.Set(ctx, cacheKey, snapshot, c.scoreboardTTL); err != nil {
		c.logger.WithError(err).Warn("Failed to cache scoreboard")
	}

	return info, leaderboard, nil
}

func newLeaderboardEntry(competitor espnCompetitor) models.LeaderboardEntry {
	position := competitor.Order
	if position <= 0 {
		position = models.UnresolvedPosition
	}

	score := competitor.Score
	if score == "" {
		score = "E"
	}

	// Current round and holes completed, from the last round with hole data.
	thru := "-"
	linescores := make([]string, 0, len(competitor.Linescores))
	for _, ls := range competitor.Linescores {
		display := ls.DisplayValue
		if display == "" {
			display = "-"
		}
		linescores = append(linescores, display)

		if len(ls.Linescores) == 0 {
			continue
		}
		hole := 0
		for _, h := range ls.Linescores {
			if h.Period > hole {
				hole = h.Period
			}
		}
		if hole >= 18 {
			thru = fmt.Sprintf("F · R%d", ls.Period)
		} else {
			thru = fmt.Sprintf("Thru %d · R%d", hole, ls.Period)
		}
	}

	return models.LeaderboardEntry{
		Name:       competitor.Athlete.DisplayName,
		Position:   position,
		Score:      score,
		Cut:        competitor.Status == "cut" || competitor.Status == "withdrawn",
		Thru:       thru,
		Linescores: linescores,
	}
}

// Invalidate drops the cached scoreboard so the next read refetches.
func (c *ESPNClient) Invalidate(ctx context.Context, eventID string) {
	if err := c.cache.Delete(ctx, services.ScoreboardCacheKey(eventID)); err != nil {
		c.logger.WithError(err).Warn("Failed to invalidate scoreboard cache")
	}
}

// PlayerNames returns a sorted list of tour player names from recent events,
// used by the entry form's autocomplete before the tournament field is set.
func (c *ESPNClient) PlayerNames(ctx context.Context) ([]string, error) {
	cacheKey := services.PlayerNamesCacheKey()

	var cached []string
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	// Recent windows on either side of the season boundary for broad coverage.
	year := time.Now().Year()
	urls := []string{
		fmt.Sprintf("%s/scoreboard?dates=%d0101-%d1231&limit=10", c.baseURL, year, year),
		fmt.Sprintf("%s/scoreboard?dates=%d0901-%d1231&limit=10", c.baseURL, year-1, year-1),
	}

	seen := make(map[string]bool)
	for _, url := range urls {
		var resp espnScoreboardResponse
		if err := c.fetch(ctx, url, &resp); err != nil {
			c.logger.WithError(err).Warn("Failed to fetch player names window")
			continue
		}
		for _, event := range resp.Events {
			if len(event.Competitions) == 0 {
				continue
			}
			for _, competitor := range event.Competitions[0].Competitors {
				if name := competitor.Athlete.DisplayName; name != "" {
					seen[name] = true
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		if err := c.cache.Set(ctx, cacheKey, names, c.namesTTL); err != nil {
			c.logger.WithError(err).Warn("Failed to cache player names")
		}
	}

	return names, nil
}

func (c *ESPNClient) fetch(ctx context.Context, url string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, makeRequest(ctx, c.httpClient, c.logger, url, c.retryAttempts, c.retryBase, target)
	})
	return err
}

// makeRequest performs a GET with bounded retry and exponential backoff.
// Shared by both feed clients.
func makeRequest(ctx context.Context, client *http.Client, logger *logrus.Logger, url string, attempts int, base time.Duration, target interface{}) error {
	var resp *http.Response
	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		// ESPN and OWGR reject requests without a browser user agent.
		req.Header.Set("User-Agent", "Mozilla/5.0")
		req.Header.Set("Accept", "application/json")

		resp, err = client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}
		if resp != nil {
			resp.Body.Close()
			if err == nil {
				err = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			}
			resp = nil
		}

		if attempt < attempts-1 {
			waitTime := time.Duration(math.Pow(2, float64(attempt))) * base
			logger.Warnf("Request failed (attempt %d), waiting %v: %v", attempt+1, waitTime, err)
			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(target)
}
