package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// ErrInvariantViolation means resolution produced state the rules forbid
// (HP escaping its clamp, negative threat). It is unreachable in correct
// code; when it fires the session is flagged corrupted instead of playing
// on with broken state.
var ErrInvariantViolation = errors.New("round resolution violated a state invariant")

// ResolveRound runs one full round against the session: collected actions
// in priority order, the end-of-round effect pass, the monster's turn, the
// corruption sub-protocol, staged-death commit and the win check. The
// caller persists the mutated game afterwards.
func ResolveRound(g *game.Game, rl *rules.Rules) error {
	g.RoundCount++
	g.Phase = game.PhaseResolving

	rng := rand.New(rand.NewSource(g.Seed + int64(g.RoundCount)))
	rc := newRoundContext(g, rl, rng)

	for _, plan := range rc.buildPlans() {
		rc.performAction(plan)
	}
	rc.endOfRoundEffects()
	rc.monsterTurn()
	rc.runCorruption()
	rc.commitDeaths()

	if err := rc.checkInvariants(); err != nil {
		g.Status = game.StatusCorrupted
		g.Message = "session aborted: internal state corruption detected"
		return err
	}

	rc.finalizeRound()
	return nil
}

// commitDeaths settles every staged death exactly once. A revive effect on
// the fallen player intercepts: the instance is consumed and the player
// stands back up at the effect's magnitude.
func (rc *roundContext) commitDeaths() {
	for i := range rc.g.Players {
		p := &rc.g.Players[i]
		if !p.PendingDeath {
			continue
		}
		if idx, b, ok := rc.findReviveEffect(p); ok {
			restored := int(p.Effects[idx].Magnitude)
			if restored < 1 {
				restored = 1
			}
			if restored > p.MaxHP {
				restored = p.MaxHP
			}
			removeEffectAt(p, idx)
			p.PendingDeath = false
			p.HP = restored
			rc.add(game.Event{
				Kind:    game.EventRevive,
				Target:  p.PlayerUUID,
				Ability: b.Key,
				Amount:  restored,
				Message: fmt.Sprintf("%s is dragged back from the brink with %d HP!", p.PlayerName, restored),
			})
			continue
		}
		p.PendingDeath = false
		p.Alive = false
		p.HP = 0
		p.Effects = nil
		rc.add(game.Event{
			Kind:    game.EventDeath,
			Target:  p.PlayerUUID,
			Message: fmt.Sprintf("%s has fallen.", p.PlayerName),
		})
	}
}

func (rc *roundContext) findReviveEffect(p *game.Player) (int, rules.EffectBehavior, bool) {
	for i, eff := range p.Effects {
		if b, ok := rc.behaviorOf(eff); ok && b.Kind == rules.EffectRevive {
			return i, b, true
		}
	}
	return 0, rules.EffectBehavior{}, false
}

// checkInvariants verifies the clamps the rest of the system relies on.
func (rc *roundContext) checkInvariants() error {
	for i := range rc.g.Players {
		p := &rc.g.Players[i]
		if p.HP < 0 || p.HP > p.MaxHP {
			return fmt.Errorf("%w: player %s hp %d outside [0, %d]", ErrInvariantViolation, p.PlayerUUID, p.HP, p.MaxHP)
		}
		if p.Alive && p.HP == 0 {
			return fmt.Errorf("%w: player %s alive at 0 hp", ErrInvariantViolation, p.PlayerUUID)
		}
		if len(p.Effects) > rc.rl.Tuning.MaxEffectsPerPlayer {
			return fmt.Errorf("%w: player %s carries %d effects", ErrInvariantViolation, p.PlayerUUID, len(p.Effects))
		}
	}
	if rc.g.Monster.HP < 0 {
		return fmt.Errorf("%w: monster hp %d", ErrInvariantViolation, rc.g.Monster.HP)
	}
	for uuid, score := range rc.g.Monster.Threat {
		if score < 0 {
			return fmt.Errorf("%w: negative threat %f for %s", ErrInvariantViolation, score, uuid)
		}
	}
	return nil
}

// finalizeRound records the round log, clears submissions and runs the win
// check. Hidden entries stay out of everything client-visible.
func (rc *roundContext) finalizeRound() {
	g := rc.g

	if winner, finished := EvaluateWinCondition(g); finished {
		g.Status = game.StatusFinished
		g.Winner = winner
		var msg string
		switch winner {
		case game.WinnerHeroes:
			msg = "The corruption is purged. The heroes win!"
		case game.WinnerWarlocks:
			msg = "Every survivor serves the darkness. The warlocks win!"
		default:
			msg = "No one survived. The monster feasts alone."
		}
		g.Message = msg
		g.Phase = game.PhaseResolved
		rc.add(game.Event{Kind: game.EventOutcome, Message: msg})
	} else {
		g.Phase = game.PhasePlanning
	}

	visible := make([]game.Event, 0, len(rc.events))
	for _, ev := range rc.events {
		if ev.Hidden {
			continue
		}
		visible = append(visible, ev)
	}
	g.LastRoundEvents = visible
	g.LastRoundSummary = rc.joinSummary()

	for i := range g.Players {
		p := &g.Players[i]
		p.HasSubmittedAction = false
		p.PendingAbilityKey = ""
		p.PendingTargetUUID = ""
		for key, until := range p.Cooldowns {
			if g.RoundCount+1 >= until {
				delete(p.Cooldowns, key)
			}
		}
		if p.RevealedUntilRound != 0 && g.RoundCount >= p.RevealedUntilRound {
			p.RevealedUntilRound = 0
		}
	}
}
