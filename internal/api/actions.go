package api

import (
	"errors"
	"net/http"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/zbonzo/Warlock-sub004/internal/engine"
	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type ActionRequest struct {
	AbilityKey string `json:"ability_key"`
	TargetID   string `json:"target_id"`
}

// SubmitAction stores a player's chosen ability and target for the round
// being collected. When the last living player submits, the round resolves
// synchronously and the result is pushed to websocket watchers.
func (h *GameHandler) SubmitAction(c *gin.Context) {
	// Path param contains join code. Resolve to internal ID.
	code := normalizeJoinCode(c.Param("gameCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameID})
		return
	}
	g, err := h.repo.FindGameByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	if g.Status != game.StatusInProgress {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameNotInProgress})
		return
	}
	if g.Phase != game.PhasePlanning {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrActionsLockedResolvingRound})
		return
	}
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	// Derive the calling player from the authenticated session.
	caller := h.sessionPlayer(c, g)
	if caller == nil {
		return
	}

	g2, resolved, err := service.SubmitAction(h.repo, h.rules, g.ID, caller.PlayerUUID, req.AbilityKey, req.TargetID, h.actionTimeout)
	if err != nil {
		switch err {
		case service.ErrGameNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		case service.ErrGameNotInProgress:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameNotInProgress})
		case service.ErrActionsLocked:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrActionsLockedResolvingRound})
		case service.ErrPlayerNotInGame:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInGame})
		case service.ErrPlayerDead:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlayerDead})
		case service.ErrUnknownAbility:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownAbility})
		case service.ErrAbilityOnCooldown:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAbilityOnCooldown})
		case service.ErrInvalidTarget:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidTarget})
		default:
			if errors.Is(err, engine.ErrInvariantViolation) {
				c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameSessionCorrupted})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreAction})
		}
		return
	}

	if resolved {
		h.broadcastRound(g2)
		c.JSON(http.StatusOK, gin.H{
			constants.JSONKeyMessage: "Round resolved",
			"round":                  g2.RoundCount,
			"summary":                g2.LastRoundSummary,
		})
	} else {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Action stored. Waiting for the others."})
	}
}

// broadcastRound pushes the freshly resolved round to every watcher of the
// game. LastRoundEvents is already filtered of hidden entries, so the
// payload is safe for any viewer.
func (h *GameHandler) broadcastRound(g *game.Game) {
	if h.broadcaster == nil || g == nil {
		return
	}
	h.broadcaster.Broadcast(g.ID, gin.H{
		"round":   g.RoundCount,
		"phase":   g.Phase,
		"status":  g.Status,
		"winner":  g.Winner,
		"summary": g.LastRoundSummary,
		"events":  g.LastRoundEvents,
	})
}

// sessionPlayer resolves the authenticated session to a participant of the
// given game. It writes the error response and returns nil when the session
// is missing or the user is not in the game.
func (h *GameHandler) sessionPlayer(c *gin.Context, g *game.Game) *game.Player {
	userEmail, _ := c.Get("userEmail")
	emailStr, _ := userEmail.(string)
	if emailStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return nil
	}
	p := g.FindPlayerByEmail(emailStr)
	if p == nil {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInThisGame})
		return nil
	}
	return p
}
