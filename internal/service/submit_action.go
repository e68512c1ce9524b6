package service

import (
	"fmt"
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/dedupe"
	"github.com/zbonzo/Warlock-sub004/internal/engine"
	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/keys"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// SubmitAction stores a player's chosen action and resolves the round once
// every living player has submitted. Returns the updated game and whether
// the round was resolved. Re-submitting while the round is still collecting
// overwrites the previous choice.
func SubmitAction(repo GameRepo, rl *rules.Rules, gameID uint, playerUUID, abilityKey, targetID string, actionTimeout time.Duration) (*game.Game, bool, error) {
	g, err := repo.GetGameByID(gameID)
	if err != nil || g == nil {
		return nil, false, ErrGameNotFound
	}
	if g.Status != game.StatusInProgress {
		return nil, false, ErrGameNotInProgress
	}
	if g.Phase != game.PhasePlanning {
		return nil, false, ErrActionsLocked
	}

	current := g.FindPlayerByUUID(playerUUID)
	if current == nil {
		return nil, false, ErrPlayerNotInGame
	}
	if !current.Alive {
		return nil, false, ErrPlayerDead
	}

	ability, ok := rl.Ability(abilityKey)
	if !ok {
		return nil, false, ErrUnknownAbility
	}
	// Cooldowns store the first round the ability is legal again; the
	// upcoming resolution is RoundCount+1.
	if until, onCD := current.Cooldowns[ability.Key]; onCD && g.RoundCount+1 < until {
		return nil, false, ErrAbilityOnCooldown
	}
	if err := validateTarget(g, current, ability, targetID); err != nil {
		return nil, false, err
	}

	current.HasSubmittedAction = true
	current.PendingAbilityKey = ability.Key
	current.PendingTargetUUID = targetID

	// The submission persists before the resolution attempt; the resolver
	// reloads the authoritative copy and must see it there.
	if err := repo.UpdateGame(g); err != nil {
		return nil, false, err
	}
	if !allAliveSubmitted(g) {
		return g, false, nil
	}
	resolved, err := resolveCollectedRound(repo, rl, g.ID, g.RoundCount, actionTimeout)
	if err != nil {
		return nil, true, err
	}
	return resolved, true, nil
}

// validateTarget checks submission-time legality: shape and existence only.
// Execution-time conditions (the target dying or hiding mid-round) are the
// resolver's redirect/no-op policy, never a submission error.
func validateTarget(g *game.Game, actor *game.Player, ability rules.Ability, targetID string) error {
	switch ability.Target {
	case rules.TargetSelf, rules.TargetAllOthers:
		if targetID != "" && targetID != actor.PlayerUUID {
			return ErrInvalidTarget
		}
		return nil
	case rules.TargetSingleOther:
		if targetID == "" {
			return ErrInvalidTarget
		}
		if targetID == game.MonsterTargetID {
			if !ability.CanTargetMonster() {
				return ErrInvalidTarget
			}
			return nil
		}
		if targetID == actor.PlayerUUID {
			return ErrInvalidTarget
		}
		target := g.FindPlayerByUUID(targetID)
		if target == nil || !target.Alive {
			return ErrInvalidTarget
		}
		return nil
	}
	return ErrInvalidTarget
}

func allAliveSubmitted(g *game.Game) bool {
	for i := range g.Players {
		if g.Players[i].Alive && !g.Players[i].HasSubmittedAction {
			return false
		}
	}
	return true
}

// resolveCollectedRound resolves one collected round exactly once, even when
// the final submission and the timeout scanner race for it. Only the winner
// of the singleflight group resolves and persists, working on a copy it
// loads itself; every caller gets that same resolved copy back and must
// never persist a copy of its own from before the call. The round check
// after the reload also stops a late caller from resolving a round that
// finished after its singleflight key expired.
func resolveCollectedRound(repo GameRepo, rl *rules.Rules, gameID uint, round int, actionTimeout time.Duration) (*game.Game, error) {
	key := keys.Normalize(fmt.Sprintf("resolve-%d-%d", gameID, round))
	v, err, _ := dedupe.ResolveGroup.Do(key, func() (interface{}, error) {
		g, err := repo.GetGameByID(gameID)
		if err != nil || g == nil {
			return nil, ErrGameNotFound
		}
		if g.RoundCount != round || g.Status != game.StatusInProgress || g.Phase != game.PhasePlanning {
			// Somebody else already resolved this round (or ended the
			// game); the current state is the answer.
			return g, nil
		}
		if err := engine.ResolveRound(g, rl); err != nil {
			// Invariant failures persist the corrupted status so the
			// session stops accepting actions.
			_ = repo.UpdateGame(g)
			return nil, err
		}
		if g.Status == game.StatusFinished {
			if !g.StatsCounted {
				_ = repo.UpdateStatsOnGameEnd(g, "")
				g.StatsCounted = true
			}
			g.ActionDeadline = time.Time{}
		} else {
			g.ActionDeadline = time.Now().Add(actionTimeout)
		}
		if err := repo.UpdateGame(g); err != nil {
			return nil, err
		}
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.Game), nil
}
