package engine

import (
	"fmt"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// runCorruption evaluates, after combat, whether warlocks convert heroes.
// Every entry this writes to the log is Hidden: a successful conversion has
// no outward signal whatsoever.
func (rc *roundContext) runCorruption() {
	base := rc.corruptionBaseChance()
	t := rc.rl.Tuning

	for i := range rc.g.Players {
		if rc.conversions >= t.CorruptionRoundCap {
			break
		}
		actor := &rc.g.Players[i]
		if actor.Allegiance != game.AllegianceWarlock || !actor.Targetable() {
			continue
		}
		if rc.conversionsByUUID[actor.PlayerUUID] >= t.CorruptionActorCap {
			continue
		}
		if actor.ConvertLockedUntilRound > rc.g.RoundCount {
			continue
		}
		if t.BlockRevealedCorruption && rc.revealedThisRound[actor.PlayerUUID] {
			rc.add(game.Event{
				Kind:    game.EventCorruption,
				Actor:   actor.PlayerUUID,
				Message: fmt.Sprintf("%s was exposed this round and cannot corrupt.", actor.PlayerName),
				Hidden:  true,
			})
			continue
		}

		chance, target := rc.corruptionAttempt(actor, base)
		if target == nil {
			continue
		}
		if rc.comeback {
			chance *= 1 - t.ComebackCorruptionResist
		}
		if rc.rng.Float64() < chance {
			rc.convert(actor, target)
		} else {
			rc.add(game.Event{
				Kind:   game.EventCorruption,
				Actor:  actor.PlayerUUID,
				Target: target.PlayerUUID,
				Message: fmt.Sprintf("%s's corruption fails to take hold of %s.",
					actor.PlayerName, target.PlayerName),
				Hidden: true,
			})
		}
	}
}

// corruptionBaseChance grows with the corrupted fraction of the living, up
// to the configured ceiling.
func (rc *roundContext) corruptionBaseChance() float64 {
	alive, corrupted := 0, 0
	for i := range rc.g.Players {
		p := &rc.g.Players[i]
		if !p.Targetable() {
			continue
		}
		alive++
		if p.Allegiance == game.AllegianceWarlock {
			corrupted++
		}
	}
	if alive == 0 {
		return 0
	}
	t := rc.rl.Tuning
	chance := t.CorruptionBaseChance + t.CorruptionScaling*float64(corrupted)/float64(alive)
	if chance > t.CorruptionMaxChance {
		chance = t.CorruptionMaxChance
	}
	return chance
}

// corruptionAttempt picks the context modifier and candidate target from
// what the warlock did this round: a single-target attack corrupts its
// victim, an area attack or an untargeted round reaches for a random hero.
func (rc *roundContext) corruptionAttempt(actor *game.Player, base float64) (float64, *game.Player) {
	t := rc.rl.Tuning
	switch rc.attackShapes[actor.PlayerUUID] {
	case rules.TargetSingleOther:
		victim := rc.g.FindPlayerByUUID(rc.attackTargets[actor.PlayerUUID])
		if victim == nil || !victim.Targetable() || victim.Allegiance == game.AllegianceWarlock {
			return 0, nil
		}
		return base * t.CorruptionSingleModifier, victim
	case rules.TargetAllOthers:
		return base * t.CorruptionAreaModifier, rc.randomHero(actor)
	}
	return base * t.CorruptionAloneModifier, rc.randomHero(actor)
}

func (rc *roundContext) randomHero(exclude *game.Player) *game.Player {
	var candidates []*game.Player
	for i := range rc.g.Players {
		p := &rc.g.Players[i]
		if p.PlayerUUID == exclude.PlayerUUID || !p.Targetable() {
			continue
		}
		if p.Allegiance == game.AllegianceWarlock {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[rc.rng.Intn(len(candidates))]
}

func (rc *roundContext) convert(actor, target *game.Player) {
	target.Allegiance = game.AllegianceWarlock
	actor.Stats.Conversions++
	actor.ConvertLockedUntilRound = rc.g.RoundCount + rc.rl.Tuning.CorruptionCooldown + 1
	rc.conversions++
	rc.conversionsByUUID[actor.PlayerUUID]++
	rc.add(game.Event{
		Kind:   game.EventCorruption,
		Actor:  actor.PlayerUUID,
		Target: target.PlayerUUID,
		Message: fmt.Sprintf("%s has corrupted %s. They now serve the warlocks.",
			actor.PlayerName, target.PlayerName),
		Hidden: true,
	})
}

// maybeDetectWarlock is the one sanctioned allegiance leak: a warlock who
// receives genuine healing risks being unmasked by the healer. The reveal
// marker and the incoming-damage penalty are public; everything else about
// allegiance stays hidden.
func (rc *roundContext) maybeDetectWarlock(healer, target *game.Player) {
	t := rc.rl.Tuning
	if target.Allegiance != game.AllegianceWarlock || t.DetectionChance <= 0 {
		return
	}
	if rc.rng.Float64() >= t.DetectionChance {
		return
	}
	target.RevealedUntilRound = rc.g.RoundCount + t.DetectionPenaltyDuration
	rc.revealedThisRound[target.PlayerUUID] = true
	if b, ok := rc.rl.Effect(t.DetectionEffectKey); ok {
		rc.applyEffect(target, b, 0, t.DetectionPenaltyDuration, healer.PlayerUUID)
	}
	rc.add(game.Event{
		Kind:   game.EventDetection,
		Actor:  healer.PlayerUUID,
		Target: target.PlayerUUID,
		Message: fmt.Sprintf("%s's healing touch recoils: %s is revealed as a warlock!",
			healer.PlayerName, target.PlayerName),
	})
}
