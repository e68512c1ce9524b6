package api

import (
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/network"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
	"github.com/zbonzo/Warlock-sub004/internal/storage"
)

// GameHandler groups all game-related HTTP handlers.
type GameHandler struct {
	repo          storage.Repository
	rules         *rules.Rules
	actionTimeout time.Duration
	broadcaster   *network.Broadcaster
}

// NewGameHandler creates a new GameHandler with the given repository, the
// loaded rule set, the configured per-round action timeout and the
// websocket broadcaster used to push round results to watchers.
func NewGameHandler(repo storage.Repository, rl *rules.Rules, actionTimeout time.Duration, b *network.Broadcaster) *GameHandler {
	return &GameHandler{repo: repo, rules: rl, actionTimeout: actionTimeout, broadcaster: b}
}
