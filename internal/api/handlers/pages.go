package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/spdavis3/golf-pool/internal/api/middleware"
	"github.com/spdavis3/golf-pool/internal/models"
	"github.com/spdavis3/golf-pool/internal/pool"
	"github.com/spdavis3/golf-pool/internal/providers"
	"github.com/spdavis3/golf-pool/internal/services"
)

// PageHandler serves the server-rendered HTML pages.
type PageHandler struct {
	store  *services.PoolStore
	espn   *providers.ESPNClient
	owgr   *providers.OWGRClient
	logger *logrus.Logger
}

func NewPageHandler(store *services.PoolStore, espn *providers.ESPNClient, owgr *providers.OWGRClient, logger *logrus.Logger) *PageHandler {
	return &PageHandler{store: store, espn: espn, owgr: owgr, logger: logger}
}

// Dashboard renders the main auto-refreshing pool page: tournament status,
// standings with prizes, the leaderboard filtered to picked golfers, and
// every participant's picks.
func (h *PageHandler) Dashboard(c *gin.Context) {
	settings, err := h.store.Settings()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load settings")
		c.String(http.StatusInternalServerError, "pool unavailable")
		return
	}

	ctx := c.Request.Context()
	info, leaderboard := scoreboardOrFallback(ctx, h.espn, settings, h.logger)

	state, err := h.store.State()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load pool state")
		c.String(http.StatusInternalServerError, "pool unavailable")
		return
	}

	standings := pool.ComputeStandings(state.Participants, leaderboard, settings.EntryFee)

	rankings, err := h.owgr.Rankings(ctx)
	if err != nil {
		h.logger.WithError(err).Warn("Rankings unavailable")
	}

	view := buildDashboardView(settings, info, leaderboard, state, standings, rankings, middleware.IsAdmin(c))
	c.HTML(http.StatusOK, "dashboard.html", view)
}

// EntryForm renders the pick submission form with the player-name
// autocomplete datalist: leaderboard names once the field is set, recent tour
// players before that.
func (h *PageHandler) EntryForm(c *gin.Context) {
	locked, err := h.store.Locked()
	if err != nil || locked {
		c.Redirect(http.StatusFound, "/")
		return
	}

	settings, err := h.store.Settings()
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "entry.html", gin.H{
		"Settings":    settings,
		"PlayerNames": h.playerNames(c),
		"Message":     c.Query("message"),
		"Error":       c.Query("error") == "1",
	})
}

// EditForm renders the pick edit form for an existing participant.
func (h *PageHandler) EditForm(c *gin.Context) {
	locked, err := h.store.Locked()
	if err != nil || locked {
		c.Redirect(http.StatusFound, "/")
		return
	}

	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		name = c.Param("name")
	}
	participant, err := h.store.Participant(name)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	settings, err := h.store.Settings()
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	picks := make([]string, 6)
	copy(picks, participant.Picks)

	c.HTML(http.StatusOK, "edit.html", gin.H{
		"Settings":    settings,
		"Participant": participant,
		"Picks":       picks,
		"PlayerNames": h.playerNames(c),
	})
}

// History renders the career page: cumulative totals across all archived
// tournaments plus the per-tournament ledger, newest first.
func (h *PageHandler) History(c *gin.Context) {
	records, err := h.store.History()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load history")
		c.String(http.StatusInternalServerError, "history unavailable")
		return
	}

	totals := pool.AggregateCareer(records)

	// Newest first for display; aggregation used chronological order.
	reversed := make([]models.HistoryRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		reversed = append(reversed, records[i])
	}

	c.HTML(http.StatusOK, "history.html", gin.H{
		"Career":    totals,
		"Records":   reversed,
		"UpdatedAt": time.Now().Format("January 2, 2006 at 3:04 PM"),
	})
}

func (h *PageHandler) playerNames(c *gin.Context) []string {
	ctx := c.Request.Context()

	settings, err := h.store.Settings()
	if err == nil {
		if _, leaderboard, err := h.espn.Scoreboard(ctx, settings.ESPNEventID); err == nil && len(leaderboard) > 0 {
			names := make([]string, 0, len(leaderboard))
			for _, entry := range leaderboard {
				names = append(names, entry.Name)
			}
			return names
		}
	}

	names, err := h.espn.PlayerNames(ctx)
	if err != nil {
		h.logger.WithError(err).Warn("Player names unavailable")
		return nil
	}
	return names
}
