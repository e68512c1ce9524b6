package api

import (
	"net/http"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/zbonzo/Warlock-sub004/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers send an Origin header; the session cookie is the actual
	// access control, so cross-origin watchers are acceptable.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WatchGame upgrades the connection to a websocket and streams round
// results for the game until the client disconnects. The pushed payloads
// contain only the public round log, so spectators learn nothing a
// participant would not.
func (h *GameHandler) WatchGame(c *gin.Context) {
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

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", logging.Fields{
			constants.LogFieldGameID: g.ID,
			"error":                  err.Error(),
		})
		return
	}
	// Blocks until the watcher disconnects or is dropped.
	h.broadcaster.Watch(g.ID, conn)
}
