package api

import (
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/logging"
	"github.com/zbonzo/Warlock-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

// maxLobbySize caps how many participants a single session accepts.
const maxLobbySize = 10

type CreateGamePayload struct {
	PlayerName  string `json:"player_name"`
	PlayerEmail string `json:"player_email"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

// CreateGame creates a new lobby with the caller as first participant and
// returns its ID and join code.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGamePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	// Derive identity from session
	if v, ok := c.Get("userEmail"); ok {
		req.PlayerEmail, _ = v.(string)
	}
	if v, ok := c.Get("userName"); ok && req.PlayerName == "" {
		req.PlayerName, _ = v.(string)
	}

	joinCode := generateJoinCode()

	// Validate lengths
	if utf8.RuneCountInString(req.Name) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrGameNameExceeds})
		return
	}
	if utf8.RuneCountInString(req.Description) > 256 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrDescriptionExceeds})
		return
	}

	creator := game.Player{
		PlayerUUID:  newPlayerUUID(),
		PlayerName:  req.PlayerName,
		PlayerEmail: req.PlayerEmail,
	}

	newGame := game.Game{
		Name:        req.Name,
		Description: req.Description,
		Private:     req.Private,
		Status:      game.StatusLobby,
		JoinCode:    joinCode,
		Players:     []game.Player{creator},
		Message:     "Lobby open. Waiting for more hunters.",
	}

	// Upsert user profile (name/email)
	_ = h.repo.UpsertUser(req.PlayerEmail, creator.PlayerUUID, req.PlayerName)

	if err := h.repo.CreateGame(&newGame); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateGame})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"game_id":     newGame.ID,
		"join_code":   joinCode,
		"player_uuid": creator.PlayerUUID,
	})
}

type JoinGamePayload struct {
	JoinCode    string `json:"join_code"`
	PlayerName  string `json:"player_name"`
	PlayerEmail string `json:"player_email"`
}

// JoinGame adds the caller to an open lobby via its join code.
func (h *GameHandler) JoinGame(c *gin.Context) {
	var req JoinGamePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if v, ok := c.Get("userEmail"); ok {
		req.PlayerEmail, _ = v.(string)
	}
	if v, ok := c.Get("userName"); ok && req.PlayerName == "" {
		req.PlayerName, _ = v.(string)
	}

	code := normalizeJoinCode(req.JoinCode)
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameID})
		return
	}
	g, err := h.repo.FindGameByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	if g.Status != game.StatusLobby {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameAlreadyStartingOrStarted})
		return
	}

	// Rejoining the lobby is idempotent.
	if existing := g.FindPlayerByEmail(req.PlayerEmail); existing != nil {
		c.JSON(http.StatusOK, gin.H{
			"game_id":     g.ID,
			"join_code":   g.JoinCode,
			"player_uuid": existing.PlayerUUID,
			"message":     "Already in this game",
		})
		return
	}

	if len(g.Players) >= maxLobbySize {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameFull})
		return
	}

	newPlayer := game.Player{
		PlayerUUID:  newPlayerUUID(),
		PlayerName:  req.PlayerName,
		PlayerEmail: req.PlayerEmail,
	}
	g.Players = append(g.Players, newPlayer)
	g.Message = newPlayer.PlayerName + " joined the lobby."

	// Upsert user profile (name/email)
	_ = h.repo.UpsertUser(req.PlayerEmail, newPlayer.PlayerUUID, req.PlayerName)

	if err := h.repo.UpdateGame(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateGame})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game_id":     g.ID,
		"join_code":   g.JoinCode,
		"player_uuid": newPlayer.PlayerUUID,
		"message":     "Successfully joined game",
	})
}

// StartGame closes the lobby and initializes round one: stats from tuning,
// the session seed and the secret warlock draw. Any participant may start.
func (h *GameHandler) StartGame(c *gin.Context) {
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
	if h.sessionPlayer(c, g) == nil {
		return
	}

	if err := service.StartGame(h.repo, h.rules, g, h.actionTimeout); err != nil {
		switch err {
		case service.ErrNotEnoughPlayers:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotEnoughPlayers})
		case service.ErrGameNotInProgress:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameAlreadyStartingOrStarted})
		default:
			logging.Error("failed to start game", err, logging.Fields{constants.LogFieldGameID: g.ID})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateGame})
		}
		return
	}

	h.broadcastRound(g)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Game started", "round": g.RoundCount})
}

type EndGamePayload struct {
	PlayerEmail string `json:"player_email"`
}

// LeaveGame removes the caller from a lobby that has not started yet.
func (h *GameHandler) LeaveGame(c *gin.Context) {
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
	if g.Status != game.StatusLobby {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrCannotLeaveAfterGameStarted})
		return
	}
	leaver := h.sessionPlayer(c, g)
	if leaver == nil {
		return
	}
	if err := h.repo.RemovePlayerByUUID(g.ID, leaver.PlayerUUID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedRemovePlayer})
		return
	}
	// Reflect removal in the in-memory model to avoid re-attaching via FullSaveAssociations
	filtered := make([]game.Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.PlayerUUID != leaver.PlayerUUID {
			filtered = append(filtered, p)
		}
	}
	g.Players = filtered
	g.Message = "A player left. Waiting for a new participant."
	if err := h.repo.UpdateGame(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrPlayerRemovedFailedUpdate})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Player removed"})
}

// EndGame lets a participant resign, finishing the match for everyone.
// Resignations only increment the quitter's resignation stat and do not
// award a win to either faction.
func (h *GameHandler) EndGame(c *gin.Context) {
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

	var req EndGamePayload
	_ = c.ShouldBindJSON(&req) // optional body; ignore errors

	loser := h.sessionPlayer(c, g)
	if loser == nil {
		return
	}

	g.Status = game.StatusFinished
	g.Phase = game.PhaseResolved
	g.Winner = ""
	g.Message = "Player resigned: " + loser.PlayerName
	g.ActionDeadline = time.Time{}

	if !g.StatsCounted {
		_ = h.repo.UpdateStatsOnGameEnd(g, loser.PlayerEmail)
		g.StatsCounted = true
	}
	if err := h.repo.UpdateGame(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedEndGame})
		return
	}
	h.broadcastRound(g)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Game ended"})
}
