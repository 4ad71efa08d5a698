package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/spdavis3/golf-pool/internal/api/middleware"
	"github.com/spdavis3/golf-pool/internal/models"
	"github.com/spdavis3/golf-pool/internal/pool"
	"github.com/spdavis3/golf-pool/internal/providers"
	"github.com/spdavis3/golf-pool/internal/services"
	"github.com/spdavis3/golf-pool/pkg/utils"
)

// AdminHandler covers the administrative surface: login, entry locking,
// tournament settings, and the archive action.
type AdminHandler struct {
	store    *services.PoolStore
	espn     *providers.ESPNClient
	password string
	logger   *logrus.Logger
}

func NewAdminHandler(store *services.PoolStore, espn *providers.ESPNClient, password string, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{store: store, espn: espn, password: password, logger: logger}
}

// LoginForm renders the admin login page.
func (h *AdminHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error": c.Query("error") == "1",
	})
}

// Login checks the shared admin credential and marks the session. The
// configured password may be a bcrypt hash or, for development, plain text.
func (h *AdminHandler) Login(c *gin.Context) {
	password := c.PostForm("password")
	if !h.checkPassword(password) {
		h.logger.Warn("Failed admin login attempt")
		c.Redirect(http.StatusSeeOther, "/admin/login?error=1")
		return
	}

	if err := middleware.SetAdmin(c, true); err != nil {
		h.logger.WithError(err).Error("Failed to save session")
		c.Redirect(http.StatusSeeOther, "/admin/login?error=1")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout clears the admin session.
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := middleware.SetAdmin(c, false); err != nil {
		h.logger.WithError(err).Error("Failed to save session")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AdminHandler) checkPassword(password string) bool {
	if password == "" || h.password == "" {
		return false
	}
	if strings.HasPrefix(h.password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(h.password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(h.password), []byte(password)) == 1
}

// Panel renders the admin page: tournament settings form, lock state, and
// the archive action.
func (h *AdminHandler) Panel(c *gin.Context) {
	settings, err := h.store.Settings()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load settings")
		c.String(http.StatusInternalServerError, "pool unavailable")
		return
	}
	participants, err := h.store.Participants()
	if err != nil {
		c.String(http.StatusInternalServerError, "pool unavailable")
		return
	}
	history, err := h.store.History()
	if err != nil {
		c.String(http.StatusInternalServerError, "pool unavailable")
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Settings":     settings,
		"Participants": len(participants),
		"Archived":     len(history),
		"Error":        c.Query("error") == "1",
		"Saved":        c.Query("saved") == "1",
	})
}

// Lock closes entries while the tournament runs.
func (h *AdminHandler) Lock(c *gin.Context) {
	h.setLocked(c, true)
}

// Unlock reopens entries.
func (h *AdminHandler) Unlock(c *gin.Context) {
	h.setLocked(c, false)
}

func (h *AdminHandler) setLocked(c *gin.Context, locked bool) {
	if err := h.store.SetLocked(locked); err != nil {
		h.logger.WithError(err).Error("Failed to set lock")
		utils.SendInternalError(c, "Failed to set lock")
		return
	}
	utils.SendSuccess(c, gin.H{"locked": locked})
}

// UpdateSettings applies the tournament metadata form.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.Redirect(http.StatusSeeOther, "/admin?error=1")
		return
	}
	year, _ := strconv.Atoi(c.PostForm("year"))
	entryFee, _ := strconv.Atoi(c.PostForm("entry_fee"))
	if entryFee < 0 {
		entryFee = 0
	}

	previous, err := h.store.Settings()
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/admin?error=1")
		return
	}

	err = h.store.UpdateSettings(models.TournamentSettings{
		Name:        name,
		Dates:       strings.TrimSpace(c.PostForm("dates")),
		Course:      strings.TrimSpace(c.PostForm("course")),
		ESPNEventID: strings.TrimSpace(c.PostForm("espn_event_id")),
		Year:        year,
		EntryFee:    entryFee,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to update settings")
		c.Redirect(http.StatusSeeOther, "/admin?error=1")
		return
	}

	// The cached scoreboard belongs to the previous event.
	h.espn.Invalidate(c.Request.Context(), previous.ESPNEventID)

	c.Redirect(http.StatusSeeOther, "/admin?saved=1")
}

// Archive records the current standings into the career ledger and resets
// the live pool. One-way.
func (h *AdminHandler) Archive(c *gin.Context) {
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

	record, err := h.store.Archive(standings)
	if err != nil {
		if errors.Is(err, services.ErrNothingToArchive) {
			utils.SendValidationError(c, "Nothing to archive", "standings are empty")
			return
		}
		h.logger.WithError(err).Error("Failed to archive tournament")
		utils.SendInternalError(c, "Failed to archive tournament")
		return
	}

	utils.SendSuccess(c, record)
}
