package engine

import (
	"fmt"
	"sort"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// applyOutcome describes what applying a status effect did.
type applyOutcome int

const (
	applyCreated applyOutcome = iota
	applyRefreshed
	applyStacked
	applyRejected
	applyListFull
)

// applyEffect attaches a status effect to a player following the registry's
// stack/refresh semantics. The magnitude is frozen on the instance at apply
// time.
func (rc *roundContext) applyEffect(target *game.Player, b rules.EffectBehavior, magnitude float64, duration int, owner string) applyOutcome {
	if magnitude == 0 {
		magnitude = b.DefaultMagnitude
	}
	if duration <= 0 {
		duration = b.DefaultDuration
	}

	existing := false
	for i := range target.Effects {
		if target.Effects[i].Key != b.Key {
			continue
		}
		if b.Refreshable && !b.Stackable {
			if duration > target.Effects[i].Remaining {
				target.Effects[i].Remaining = duration
			}
			target.Effects[i].Magnitude = magnitude
			return applyRefreshed
		}
		if !b.Stackable {
			return applyRejected
		}
		existing = true
		break
	}

	if len(target.Effects) >= rc.rl.Tuning.MaxEffectsPerPlayer {
		return applyListFull
	}
	target.Effects = append(target.Effects, game.StatusEffect{
		Key:       b.Key,
		Magnitude: magnitude,
		Remaining: duration,
		Owner:     owner,
	})
	if existing {
		return applyStacked
	}
	return applyCreated
}

// removeEffectAt deletes one effect instance, preserving order.
func removeEffectAt(p *game.Player, i int) {
	p.Effects = append(p.Effects[:i], p.Effects[i+1:]...)
}

func (rc *roundContext) behaviorOf(eff game.StatusEffect) (rules.EffectBehavior, bool) {
	return rc.rl.Effect(eff.Key)
}

func (rc *roundContext) hasEffectKind(p *game.Player, kind rules.EffectKind) bool {
	for _, eff := range p.Effects {
		if b, ok := rc.behaviorOf(eff); ok && b.Kind == kind {
			return true
		}
	}
	return false
}

func (rc *roundContext) isStealthed(p *game.Player) bool {
	return rc.hasEffectKind(p, rules.EffectStealth)
}

func (rc *roundContext) isStunned(p *game.Player) bool {
	return rc.hasEffectKind(p, rules.EffectStun)
}

func (rc *roundContext) healingBlocked(p *game.Player) bool {
	for _, eff := range p.Effects {
		if b, ok := rc.behaviorOf(eff); ok && b.BlocksHealing {
			return true
		}
	}
	return false
}

// shieldBonus sums the magnitudes of active shield effects.
func (rc *roundContext) shieldBonus(p *game.Player) float64 {
	var sum float64
	for _, eff := range p.Effects {
		if b, ok := rc.behaviorOf(eff); ok && b.Kind == rules.EffectShield {
			sum += eff.Magnitude
		}
	}
	return sum
}

// incomingMultiplier multiplies the (1 + magnitude) of every vulnerability
// effect on the target.
func (rc *roundContext) incomingMultiplier(p *game.Player) float64 {
	m := 1.0
	for _, eff := range p.Effects {
		if b, ok := rc.behaviorOf(eff); ok && b.Kind == rules.EffectVulnerable {
			m *= 1 + eff.Magnitude
		}
	}
	return m
}

// outgoingMultiplier multiplies the (1 - magnitude) of every weakened effect
// on the actor.
func (rc *roundContext) outgoingMultiplier(p *game.Player) float64 {
	m := 1.0
	for _, eff := range p.Effects {
		if b, ok := rc.behaviorOf(eff); ok && b.Kind == rules.EffectWeakened {
			f := 1 - eff.Magnitude
			if f < 0 {
				f = 0
			}
			m *= f
		}
	}
	return m
}

// decayShieldsOnHit applies the on-hit degradation of decaying shields. This
// runs at hit time, not in the end-of-round pass.
func (rc *roundContext) decayShieldsOnHit(p *game.Player) {
	for i := len(p.Effects) - 1; i >= 0; i-- {
		b, ok := rc.behaviorOf(p.Effects[i])
		if !ok || b.DecayOnHit <= 0 {
			continue
		}
		p.Effects[i].Magnitude -= b.DecayOnHit
		if p.Effects[i].Magnitude <= 0 {
			rc.add(game.Event{
				Kind:    game.EventEffectExpired,
				Target:  p.PlayerUUID,
				Ability: p.Effects[i].Key,
				Message: fmt.Sprintf("%s's %s breaks.", p.PlayerName, b.Name),
			})
			removeEffectAt(p, i)
		}
	}
}

// tickRef addresses one effect instance during the end-of-round pass.
type tickRef struct {
	player   *game.Player
	index    int
	behavior rules.EffectBehavior
}

// endOfRoundEffects processes every active effect in ascending processing
// priority: damage-over-time first, control effects late, passives last.
// Each instance applies its per-tick consequence, loses one round of
// duration and expires at zero.
func (rc *roundContext) endOfRoundEffects() {
	var refs []tickRef
	for i := range rc.g.Players {
		p := &rc.g.Players[i]
		if !p.Targetable() {
			continue
		}
		for j := range p.Effects {
			b, ok := rc.behaviorOf(p.Effects[j])
			if !ok {
				continue
			}
			refs = append(refs, tickRef{player: p, index: j, behavior: b})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].behavior.Priority < refs[j].behavior.Priority })

	for _, ref := range refs {
		p := ref.player
		if ref.index >= len(p.Effects) || p.Effects[ref.index].Key != ref.behavior.Key {
			// The list shifted under us (an earlier tick expired something);
			// re-locate the instance by key.
			found := -1
			for j := range p.Effects {
				if p.Effects[j].Key == ref.behavior.Key {
					found = j
					break
				}
			}
			if found == -1 {
				continue
			}
			ref.index = found
		}
		rc.tickEffect(p, ref.index, ref.behavior)
	}

	// Expiry sweep after all ticks.
	for i := range rc.g.Players {
		p := &rc.g.Players[i]
		for j := len(p.Effects) - 1; j >= 0; j-- {
			if p.Effects[j].Remaining > 0 {
				continue
			}
			b, _ := rc.behaviorOf(p.Effects[j])
			rc.add(game.Event{
				Kind:    game.EventEffectExpired,
				Target:  p.PlayerUUID,
				Ability: p.Effects[j].Key,
				Message: fmt.Sprintf("%s's %s has expired.", p.PlayerName, b.Name),
			})
			removeEffectAt(p, j)
		}
	}
}

func (rc *roundContext) tickEffect(p *game.Player, i int, b rules.EffectBehavior) {
	eff := &p.Effects[i]
	switch b.Kind {
	case rules.EffectDamageOverTime:
		// Ticks bypass the modifier pipeline: the magnitude was locked in
		// when the effect landed.
		dmg := int(eff.Magnitude)
		rc.add(game.Event{
			Kind:    game.EventEffectTick,
			Target:  p.PlayerUUID,
			Ability: eff.Key,
			Amount:  dmg,
			Message: fmt.Sprintf("%s suffers %d damage from %s.", p.PlayerName, dmg, b.Name),
		})
		rc.lowerHP(p, dmg)
	case rules.EffectHealOverTime:
		if rc.healingBlocked(p) {
			break
		}
		healed := rc.raiseHP(p, int(eff.Magnitude))
		if healed > 0 {
			rc.add(game.Event{
				Kind:    game.EventEffectTick,
				Target:  p.PlayerUUID,
				Ability: eff.Key,
				Amount:  healed,
				Message: fmt.Sprintf("%s recovers %d HP from %s.", p.PlayerName, healed, b.Name),
			})
			if healer := rc.g.FindPlayerByUUID(eff.Owner); healer != nil && healer.PlayerUUID != p.PlayerUUID {
				rc.maybeDetectWarlock(healer, p)
			}
		}
	}
	eff.Remaining--
}
