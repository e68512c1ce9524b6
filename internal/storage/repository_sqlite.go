package storage

import (
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateGame(g *game.Game) error {
	return r.db.Create(g).Error
}

func (r *sqliteRepository) GetGameByID(id uint) (*game.Game, error) {
	var g game.Game
	if err := r.db.Preload("Players").Preload("Monster").First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *sqliteRepository) UpdateGame(g *game.Game) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(g).Error
}

func (r *sqliteRepository) GetPublicGames() ([]game.Game, error) {
	var games []game.Game
	fiveMinutesAgo := time.Now().Add(-5 * time.Minute)
	if err := r.db.Preload("Players").
		Where("private = ? AND status = ? AND created_at > ?", false, game.StatusLobby, fiveMinutesAgo).
		Order("created_at desc").Find(&games).Error; err != nil {
		return nil, err
	}
	// Only list lobbies that already have someone in them.
	filtered := make([]game.Game, 0, len(games))
	for i := range games {
		if len(games[i].Players) >= 1 {
			filtered = append(filtered, games[i])
		}
	}
	return filtered, nil
}

func (r *sqliteRepository) FindGameByJoinCode(code string) (*game.Game, error) {
	var g game.Game
	err := r.db.Preload("Players").Preload("Monster").Where("join_code = ?", code).First(&g).Error
	return &g, err
}

func (r *sqliteRepository) RemovePlayerByUUID(gameID uint, playerUUID string) error {
	return r.db.Where("game_id = ? AND player_uuid = ?", gameID, playerUUID).Delete(&game.Player{}).Error
}

func (r *sqliteRepository) UpdateStatsOnGameEnd(g *game.Game, resignedEmail string) error {
	// Helper to upsert and add deltas.
	upsert := func(p *game.Player, heroWin, warlockWin, resigns int) error {
		var ps game.User
		if err := r.db.Where("email = ?", p.PlayerEmail).First(&ps).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				ps = game.User{Email: p.PlayerEmail}
			} else {
				return err
			}
		}
		ps.PlayerName = p.PlayerName
		ps.PlayerUUID = p.PlayerUUID
		ps.GamesPlayed++
		ps.HeroWins += heroWin
		ps.WarlockWins += warlockWin
		ps.Conversions += p.Stats.Conversions
		ps.Resignations += resigns
		return r.db.Save(&ps).Error
	}

	for i := range g.Players {
		p := &g.Players[i]
		if p.PlayerEmail == "" {
			continue
		}
		heroWin, warlockWin, resigns := 0, 0, 0
		// Victory credit follows final allegiance: converted players score
		// with the side they ended on.
		switch {
		case g.Winner == game.WinnerHeroes && p.Allegiance == game.AllegianceHero:
			heroWin = 1
		case g.Winner == game.WinnerWarlocks && p.Allegiance == game.AllegianceWarlock:
			warlockWin = 1
		}
		if resignedEmail != "" && p.PlayerEmail == resignedEmail {
			resigns = 1
		}
		if err := upsert(p, heroWin, warlockWin, resigns); err != nil {
			return err
		}
	}
	return nil
}

func (r *sqliteRepository) GetStatsByEmail(email string) (*game.User, error) {
	var ps game.User
	if err := r.db.Where("email = ?", email).First(&ps).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &game.User{Email: email}, nil
		}
		return nil, err
	}
	return &ps, nil
}

func (r *sqliteRepository) SaveUser(u *game.User) error {
	return r.db.Save(u).Error
}

func (r *sqliteRepository) UpsertUser(email, uuid, name string) error {
	var u game.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			u = game.User{Email: email, PlayerUUID: uuid, PlayerName: name}
		} else {
			return err
		}
	}
	u.PlayerName = name
	u.PlayerUUID = uuid
	return r.db.Save(&u).Error
}

// GetTopPlayers returns the leaderboard ordered by total wins, heroes and
// warlocks combined, then by games played.
func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []game.User
	if err := r.db.Model(&game.User{}).
		Order("(hero_wins + warlock_wins) DESC").
		Order("games_played DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqliteRepository) FindTimedOutGames(now time.Time) ([]game.Game, error) {
	var games []game.Game
	if err := r.db.Preload("Players").Preload("Monster").
		Where("status = ? AND phase = ? AND action_deadline <= ? AND action_deadline > ?",
			game.StatusInProgress, game.PhasePlanning, now, time.Time{}).
		Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}
