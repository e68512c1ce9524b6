package service

import (
	"errors"

	"github.com/zbonzo/Warlock-sub004/internal/game"
)

// GameRepo is the minimal repository interface the collection-phase
// services need. storage.Repository satisfies it; tests use small mocks.
type GameRepo interface {
	GetGameByID(uint) (*game.Game, error)
	UpdateGame(*game.Game) error
	UpdateStatsOnGameEnd(g *game.Game, resignedEmail string) error
}

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrActionsLocked     = errors.New("actions are locked; resolving current round")
	ErrPlayerNotInGame   = errors.New("player not in game")
	ErrPlayerDead        = errors.New("dead players cannot act")
	ErrUnknownAbility    = errors.New("unknown ability")
	ErrAbilityOnCooldown = errors.New("ability is on cooldown")
	ErrInvalidTarget     = errors.New("invalid target for this ability")
	ErrNotEnoughPlayers  = errors.New("not enough players to start")
)
