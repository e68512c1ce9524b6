package engine

import (
	"fmt"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// performAction executes one planned action against current state. The
// variance outcome is rolled once here and shared by every hit the action
// produces.
func (rc *roundContext) performAction(plan plannedAction) {
	actor := plan.actor
	if !actor.Targetable() {
		// Downed earlier this round, before their turn came up.
		rc.add(game.Event{
			Kind:    game.EventNoOp,
			Actor:   actor.PlayerUUID,
			Ability: plan.ability.Key,
			Message: fmt.Sprintf("%s falls before acting.", actor.PlayerName),
		})
		return
	}

	rc.startCooldown(actor, plan.ability)

	res := rc.resolveTargets(plan)
	if res.dropped {
		return
	}

	kind, mult := rc.rollVariance()
	switch kind {
	case varianceFail:
		rc.add(game.Event{
			Kind:    game.EventAction,
			Actor:   actor.PlayerUUID,
			Ability: plan.ability.Key,
			Message: fmt.Sprintf("%s uses %s, but it fizzles completely.", actor.PlayerName, plan.ability.Name),
		})
		return
	case varianceWild:
		// A wild miss swerves to a random alternative; only single-target
		// actions have anywhere to swerve to.
		if plan.ability.Target == rules.TargetSingleOther {
			res = rc.applyWildRedirect(plan, res)
			if res.dropped {
				return
			}
		}
	}

	rc.add(game.Event{
		Kind:    game.EventAction,
		Actor:   actor.PlayerUUID,
		Target:  plan.targetID,
		Ability: plan.ability.Key,
		Message: fmt.Sprintf("%s uses %s.", actor.PlayerName, plan.ability.Name),
	})

	extras := 0
	if plan.ability.Target == rules.TargetSingleOther && plan.targetID != "" {
		extras = rc.coordExtrasFor(plan.targetID, plan.ability.Category)
	}

	if res.monster {
		rc.executeOnMonster(plan, mult, extras)
		return
	}
	for _, target := range res.players {
		rc.executeOnPlayer(plan, target, mult, extras)
	}

	if plan.ability.Category == rules.CategoryAttack && plan.ability.Damage > 0 && !res.monster && len(res.players) > 0 {
		rc.attackShapes[actor.PlayerUUID] = plan.ability.Target
		if plan.ability.Target == rules.TargetSingleOther {
			rc.attackTargets[actor.PlayerUUID] = res.players[0].PlayerUUID
		}
	}
}

// applyWildRedirect swaps the action's resolved target for a random
// alternative. Against the monster the hit swerves into the party; against a
// player it may swerve to anyone else, the monster included for attacks.
func (rc *roundContext) applyWildRedirect(plan plannedAction, res resolution) resolution {
	exclude := ""
	if !res.monster && len(res.players) > 0 {
		exclude = res.players[0].PlayerUUID
	}
	alt := rc.pickRedirect(plan, exclude)
	if alt == nil {
		if !res.monster && plan.ability.CanTargetMonster() {
			rc.addWildEvent(plan, "the monster")
			return resolution{monster: true, redirected: true}
		}
		rc.add(game.Event{
			Kind:    game.EventAction,
			Actor:   plan.actor.PlayerUUID,
			Ability: plan.ability.Key,
			Message: fmt.Sprintf("%s's %s goes wild and hits nothing.", plan.actor.PlayerName, plan.ability.Name),
		})
		return resolution{dropped: true}
	}
	rc.addWildEvent(plan, alt.PlayerName)
	return resolution{players: []*game.Player{alt}, redirected: true}
}

func (rc *roundContext) addWildEvent(plan plannedAction, targetName string) {
	rc.add(game.Event{
		Kind:    game.EventRedirect,
		Actor:   plan.actor.PlayerUUID,
		Ability: plan.ability.Key,
		Message: fmt.Sprintf("%s's %s goes wild and veers toward %s!", plan.actor.PlayerName, plan.ability.Name, targetName),
	})
}

func (rc *roundContext) executeOnMonster(plan plannedAction, variance float64, extras int) {
	if plan.ability.Damage <= 0 {
		return
	}
	h := hit{
		base:        float64(plan.ability.Damage),
		actor:       plan.actor,
		category:    plan.ability.Category,
		variance:    variance,
		coordExtras: extras,
	}
	dmg := runPipeline(rc, damagePipeline, &h)
	if dmg <= 0 {
		return
	}
	m := &rc.g.Monster
	m.HP -= dmg
	if m.HP < 0 {
		m.HP = 0
	}
	plan.actor.Stats.DamageDealt += dmg
	plan.actor.Stats.MonsterDamage += dmg
	t := rc.tally(plan.actor.PlayerUUID)
	t.monsterDamage += dmg
	t.totalDamage += dmg
	rc.add(game.Event{
		Kind:    game.EventDamage,
		Actor:   plan.actor.PlayerUUID,
		Target:  game.MonsterTargetID,
		Ability: plan.ability.Key,
		Amount:  dmg,
		Message: fmt.Sprintf("%s hits the monster for %d damage.", plan.actor.PlayerName, dmg),
	})
}

func (rc *roundContext) executeOnPlayer(plan plannedAction, target *game.Player, variance float64, extras int) {
	actor := plan.actor
	if target.PlayerUUID != actor.PlayerUUID {
		target.Stats.TimesTargeted++
	}

	if plan.ability.Damage > 0 {
		h := hit{
			base:        float64(plan.ability.Damage),
			actor:       actor,
			target:      target,
			category:    plan.ability.Category,
			variance:    variance,
			coordExtras: extras,
		}
		dmg := runPipeline(rc, damagePipeline, &h)
		rc.decayShieldsOnHit(target)
		if dmg > 0 {
			actor.Stats.DamageDealt += dmg
			rc.tally(actor.PlayerUUID).totalDamage += dmg
			rc.add(game.Event{
				Kind:    game.EventDamage,
				Actor:   actor.PlayerUUID,
				Target:  target.PlayerUUID,
				Ability: plan.ability.Key,
				Amount:  dmg,
				Message: fmt.Sprintf("%s hits %s for %d damage.", actor.PlayerName, target.PlayerName, dmg),
			})
			rc.lowerHP(target, dmg)
		}
	}

	if plan.ability.Heal > 0 {
		if rc.healingBlocked(target) {
			rc.add(game.Event{
				Kind:    game.EventHeal,
				Actor:   actor.PlayerUUID,
				Target:  target.PlayerUUID,
				Ability: plan.ability.Key,
				Message: fmt.Sprintf("%s tries to heal %s, but the wounds refuse to close.", actor.PlayerName, target.PlayerName),
			})
		} else {
			h := hit{
				base:        float64(plan.ability.Heal),
				actor:       actor,
				target:      target,
				category:    plan.ability.Category,
				variance:    variance,
				coordExtras: extras,
			}
			healed := rc.raiseHP(target, runPipeline(rc, healPipeline, &h))
			if healed > 0 {
				actor.Stats.HealingDone += healed
				rc.tally(actor.PlayerUUID).healingDone += healed
				rc.add(game.Event{
					Kind:    game.EventHeal,
					Actor:   actor.PlayerUUID,
					Target:  target.PlayerUUID,
					Ability: plan.ability.Key,
					Amount:  healed,
					Message: fmt.Sprintf("%s heals %s for %d HP.", actor.PlayerName, target.PlayerName, healed),
				})
				if target.PlayerUUID != actor.PlayerUUID {
					rc.maybeDetectWarlock(actor, target)
				}
			}
		}
	}

	if plan.ability.ArmorGrant != 0 {
		target.Armor += plan.ability.ArmorGrant
		rc.add(game.Event{
			Kind:    game.EventEffectApplied,
			Actor:   actor.PlayerUUID,
			Target:  target.PlayerUUID,
			Ability: plan.ability.Key,
			Amount:  plan.ability.ArmorGrant,
			Message: fmt.Sprintf("%s gains %d armor.", target.PlayerName, plan.ability.ArmorGrant),
		})
	}

	if plan.ability.EffectKey != "" {
		rc.applyAbilityEffect(plan, target)
	}
}

// applyAbilityEffect rolls the ability's effect chance and attaches the
// status effect on success.
func (rc *roundContext) applyAbilityEffect(plan plannedAction, target *game.Player) {
	behavior, ok := rc.rl.Effect(plan.ability.EffectKey)
	if !ok {
		return
	}
	if plan.ability.EffectChance > 0 && rc.rng.Float64() >= plan.ability.EffectChance {
		return
	}
	outcome := rc.applyEffect(target, behavior, plan.ability.EffectMagnitude, plan.ability.EffectDuration, plan.actor.PlayerUUID)
	switch outcome {
	case applyCreated, applyStacked:
		rc.add(game.Event{
			Kind:    game.EventEffectApplied,
			Actor:   plan.actor.PlayerUUID,
			Target:  target.PlayerUUID,
			Ability: behavior.Key,
			Message: fmt.Sprintf("%s is affected by %s.", target.PlayerName, behavior.Name),
		})
	case applyRefreshed:
		rc.add(game.Event{
			Kind:    game.EventEffectApplied,
			Actor:   plan.actor.PlayerUUID,
			Target:  target.PlayerUUID,
			Ability: behavior.Key,
			Message: fmt.Sprintf("%s on %s is renewed.", behavior.Name, target.PlayerName),
		})
	}
}

// startCooldown records the first round the ability becomes legal again.
func (rc *roundContext) startCooldown(p *game.Player, a rules.Ability) {
	if a.Cooldown <= 0 {
		return
	}
	if p.Cooldowns == nil {
		p.Cooldowns = make(map[string]int)
	}
	p.Cooldowns[a.Key] = rc.g.RoundCount + a.Cooldown + 1
}

// lowerHP subtracts damage and stages death at zero. The death itself
// commits once, at round end, so revival effects can intercept.
func (rc *roundContext) lowerHP(p *game.Player, dmg int) {
	p.Stats.DamageTaken += dmg
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		p.PendingDeath = true
	}
}

// raiseHP adds healing clamped to MaxHP and returns the HP actually
// restored.
func (rc *roundContext) raiseHP(p *game.Player, amount int) int {
	if amount <= 0 || p.PendingDeath {
		return 0
	}
	before := p.HP
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	return p.HP - before
}
