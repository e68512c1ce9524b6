package storage

import (
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/game"
)

type Repository interface {
	GetPublicGames() ([]game.Game, error)
	CreateGame(g *game.Game) error
	GetGameByID(id uint) (*game.Game, error)
	FindGameByJoinCode(code string) (*game.Game, error)
	UpdateGame(g *game.Game) error
	RemovePlayerByUUID(gameID uint, playerUUID string) error

	UpsertUser(email, uuid, name string) error
	UpdateStatsOnGameEnd(g *game.Game, resignedEmail string) error
	GetStatsByEmail(email string) (*game.User, error)
	SaveUser(u *game.User) error
	// Leaderboard
	GetTopPlayers(limit int) ([]game.User, error)
	// FindTimedOutGames returns games that are currently in-progress,
	// in the planning phase and whose action deadline is at or before
	// the provided time. The caller decides how to resolve them.
	FindTimedOutGames(now time.Time) ([]game.Game, error)
}
