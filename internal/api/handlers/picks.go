package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/spdavis3/golf-pool/internal/pool"
	"github.com/spdavis3/golf-pool/internal/providers"
	"github.com/spdavis3/golf-pool/internal/services"
	"github.com/spdavis3/golf-pool/pkg/utils"
)

const requiredPicks = 6

// PicksHandler serves the JSON API and the entry/edit/delete form actions.
type PicksHandler struct {
	store  *services.PoolStore
	espn   *providers.ESPNClient
	logger *logrus.Logger
}

func NewPicksHandler(store *services.PoolStore, espn *providers.ESPNClient, logger *logrus.Logger) *PicksHandler {
	return &PicksHandler{store: store, espn: espn, logger: logger}
}

// GetPicks returns the live pool state.
func (h *PicksHandler) GetPicks(c *gin.Context) {
	state, err := h.store.State()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load pool state")
		utils.SendInternalError(c, "Failed to load pool state")
		return
	}
	utils.SendSuccess(c, state)
}

// Leaderboard forces a scoreboard refresh and returns the live tournament
// header and leaderboard. Feed failures degrade to the configured metadata
// with an empty player list.
func (h *PicksHandler) Leaderboard(c *gin.Context) {
	settings, err := h.store.Settings()
	if err != nil {
		utils.SendInternalError(c, "Failed to load settings")
		return
	}

	ctx := c.Request.Context()
	h.espn.Invalidate(ctx, settings.ESPNEventID)
	info, leaderboard := scoreboardOrFallback(ctx, h.espn, settings, h.logger)

	utils.SendSuccess(c, gin.H{
		"tournament": info,
		"players":    leaderboard,
	})
}

// Standings returns the computed pool standings.
func (h *PicksHandler) Standings(c *gin.Context) {
	settings, err := h.store.Settings()
	if err != nil {
		utils.SendInternalError(c, "Failed to load settings")
		return
	}
	state, err := h.store.State()
	if err != nil {
		utils.SendInternalError(c, "Failed to load pool state")
		return
	}

	_, leaderboard := scoreboardOrFallback(c.Request.Context(), h.espn, settings, h.logger)
	standings := pool.ComputeStandings(state.Participants, leaderboard, settings.EntryFee)
	utils.SendSuccess(c, standings)
}

// History returns the archived records and career totals.
func (h *PicksHandler) History(c *gin.Context) {
	records, err := h.store.History()
	if err != nil {
		utils.SendInternalError(c, "Failed to load history")
		return
	}
	utils.SendSuccess(c, gin.H{
		"records": records,
		"career":  pool.AggregateCareer(records),
	})
}

// Submit handles a new entry from the pick form.
func (h *PicksHandler) Submit(c *gin.Context) {
	locked, err := h.store.Locked()
	if err != nil || locked {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	picks := formPicks(c)

	if name == "" {
		redirectEntryError(c, "Please enter your name.")
		return
	}
	if len(picks) < requiredPicks {
		redirectEntryError(c, "Please enter all 6 picks.")
		return
	}

	if err := h.store.CreateParticipant(name, picks); err != nil {
		if errors.Is(err, services.ErrNameTaken) {
			redirectEntryError(c, fmt.Sprintf("%s has already entered picks.", name))
			return
		}
		h.logger.WithError(err).Error("Failed to create participant")
		utils.SendInternalError(c, "Failed to save picks")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Edit replaces an existing participant's picks.
func (h *PicksHandler) Edit(c *gin.Context) {
	locked, err := h.store.Locked()
	if err != nil || locked {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	picks := formPicks(c)

	if len(picks) < requiredPicks {
		c.Redirect(http.StatusSeeOther, "/edit/"+url.PathEscape(name))
		return
	}

	if err := h.store.UpdatePicks(name, picks); err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		h.logger.WithError(err).Error("Failed to update picks")
		utils.SendInternalError(c, "Failed to save picks")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Delete removes a participant from the pool.
func (h *PicksHandler) Delete(c *gin.Context) {
	locked, err := h.store.Locked()
	if err != nil {
		utils.SendInternalError(c, "Failed to load pool state")
		return
	}
	if locked {
		utils.SendForbidden(c, "Tournament has started, picks are locked")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		utils.SendValidationError(c, "Participant name is required", "")
		return
	}

	if err := h.store.DeleteParticipant(name); err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			utils.SendNotFound(c, "Participant not found")
			return
		}
		h.logger.WithError(err).Error("Failed to delete participant")
		utils.SendInternalError(c, "Failed to delete participant")
		return
	}

	utils.SendSuccess(c, gin.H{"deleted": name})
}

func formPicks(c *gin.Context) []string {
	picks := make([]string, 0, requiredPicks)
	for i := 1; i <= requiredPicks; i++ {
		if pick := strings.TrimSpace(c.PostForm(fmt.Sprintf("pick%d", i))); pick != "" {
			picks = append(picks, pick)
		}
	}
	return picks
}

func redirectEntryError(c *gin.Context, message string) {
	c.Redirect(http.StatusSeeOther, "/enter?error=1&message="+url.QueryEscape(message))
}
