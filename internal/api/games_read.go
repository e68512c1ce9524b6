package api

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/gin-gonic/gin"
)

// ListAbilities returns the loaded ability catalog, sorted by key.
func (h *GameHandler) ListAbilities(c *gin.Context) {
	c.JSON(http.StatusOK, h.rules.Abilities())
}

// ListPublicGames returns recent public lobbies that can still be joined.
func (h *GameHandler) ListPublicGames(c *gin.Context) {
	games, err := h.repo.GetPublicGames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchGames})
		return
	}
	out, err := MarshalForContext(c, games)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedEncodeGames})
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListLeaderboard returns the top players by wins (desc), limited to top 10 by default.
func (h *GameHandler) ListLeaderboard(c *gin.Context) {
	// optional ?limit=N
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	users, err := h.repo.GetTopPlayers(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	out, err := MarshalForContext(c, users)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetGame returns a game by join code. The payload is passed through the
// redaction walker so a viewer only sees their own email and pending action.
func (h *GameHandler) GetGame(c *gin.Context) {
	code := normalizeJoinCode(c.Param("gameCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameID})
		return
	}
	short, err := h.repo.FindGameByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	g, err := h.repo.GetGameByID(short.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	out, err := MarshalForContext(c, g)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedEncodeGame})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetPlayerStats returns aggregated stats for the authenticated player.
func (h *GameHandler) GetPlayerStats(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		if v, ok := c.Get("userEmail"); ok {
			email, _ = v.(string)
		}
	}
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmailRequired})
		return
	}
	ps, err := h.repo.GetStatsByEmail(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, ps)
}

// UpdatePlayerProfile updates the authenticated player's display name.
func (h *GameHandler) UpdatePlayerProfile(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	// Require authenticated email from context (no fallbacks).
	email := ""
	if v, ok := c.Get("userEmail"); ok {
		email, _ = v.(string)
	}
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmailRequired})
		return
	}
	// Validate display name using the same Unicode-aware pattern as the
	// frontend. Accept letters, marks, numbers, apostrophe, dot, hyphen
	// and spaces, length 4-40.
	var playerNameRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}.'\- ]{4,40}$`)

	trimmed := strings.TrimSpace(body.Name)
	if !playerNameRegex.MatchString(trimmed) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: "Invalid player name"})
		return
	}

	ps, err := h.repo.GetStatsByEmail(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	ps.PlayerName = trimmed
	if err := h.repo.SaveUser(ps); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateGame})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}
