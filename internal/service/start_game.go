package service

import (
	"math/rand"
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/logging"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// MinPlayersToStart is the smallest lobby that can produce a meaningful
// hidden-role game: one warlock and at least two heroes.
const MinPlayersToStart = 3

// StartGame performs all server-side initialization when a lobby starts:
// player and monster stats from the tuning constants, the session seed, and
// the secret warlock assignment. The provided game object is modified and
// persisted through the repository.
func StartGame(repo GameRepo, rl *rules.Rules, g *game.Game, actionTimeout time.Duration) error {
	if g.Status != game.StatusLobby {
		return ErrGameNotInProgress
	}
	t := rl.Tuning
	if len(g.Players) < MinPlayersToStart || len(g.Players) <= t.WarlockCount {
		return ErrNotEnoughPlayers
	}

	g.Seed = time.Now().UnixNano()
	rng := rand.New(rand.NewSource(g.Seed))

	for i := range g.Players {
		p := &g.Players[i]
		p.MaxHP = t.PlayerMaxHP
		p.HP = t.PlayerMaxHP
		p.Armor = t.PlayerStartingArmor
		p.DamageModifier = 1
		p.Alive = true
		p.PendingDeath = false
		p.Allegiance = game.AllegianceHero
		p.Effects = nil
		p.Cooldowns = make(map[string]int)
		p.HasSubmittedAction = false
		p.PendingAbilityKey = ""
		p.PendingTargetUUID = ""
		p.Stats = game.CombatStats{}
	}

	// Secret warlock assignment: a seeded shuffle keeps the draw
	// replayable alongside the rest of the session.
	order := rng.Perm(len(g.Players))
	for i := 0; i < t.WarlockCount && i < len(order); i++ {
		g.Players[order[i]].Allegiance = game.AllegianceWarlock
	}

	g.Monster = game.Monster{
		GameID:        g.ID,
		MaxHP:         t.MonsterMaxHP,
		HP:            t.MonsterMaxHP,
		Age:           0,
		Threat:        make(map[string]float64),
		RecentTargets: nil,
	}

	g.Status = game.StatusInProgress
	g.Phase = game.PhasePlanning
	g.RoundCount = 0
	g.Winner = ""
	g.StartingPlayerCount = len(g.Players)
	g.StatsCounted = false
	g.Message = "The hunt begins. Choose your actions."
	g.ActionDeadline = time.Now().Add(actionTimeout)

	logging.Info("game started", logging.Fields{
		constants.LogFieldGameID:  g.ID,
		constants.LogFieldPlayers: len(g.Players),
	})

	return repo.UpdateGame(g)
}
