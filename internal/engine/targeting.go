package engine

import (
	"fmt"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// resolution is the outcome of execution-time target validation for one
// action. Targets are re-resolved here, not at submission: earlier actions
// this round may have downed or hidden the declared target.
type resolution struct {
	monster    bool
	players    []*game.Player
	redirected bool
	// dropped means the action produces no hits at all. A no-op entry is
	// logged for dead targets; the stealth silent-fail logs nothing.
	dropped bool
}

// resolveTargets validates a plan's declared target against current state.
func (rc *roundContext) resolveTargets(plan plannedAction) resolution {
	switch plan.ability.Target {
	case rules.TargetSelf:
		return resolution{players: []*game.Player{plan.actor}}

	case rules.TargetAllOthers:
		excludeStealthed := plan.ability.Category == rules.CategoryAttack
		var out []*game.Player
		for i := range rc.g.Players {
			p := &rc.g.Players[i]
			if p.PlayerUUID == plan.actor.PlayerUUID || !p.Targetable() {
				continue
			}
			if excludeStealthed && rc.isStealthed(p) {
				continue
			}
			out = append(out, p)
		}
		return resolution{players: out, dropped: len(out) == 0}

	case rules.TargetSingleOther:
		if plan.targetID == game.MonsterTargetID {
			if !plan.ability.CanTargetMonster() {
				rc.noOpTarget(plan, "the monster")
				return resolution{dropped: true}
			}
			return resolution{monster: true}
		}
		target := rc.g.FindPlayerByUUID(plan.targetID)
		if target == nil || !target.Targetable() {
			rc.noOpTarget(plan, "a fallen ally")
			return resolution{dropped: true}
		}
		if rc.isStealthed(target) {
			if plan.ability.Category != rules.CategoryAttack {
				// Support abilities on a hidden target fizzle without a
				// trace: logging would reveal the stealth.
				return resolution{dropped: true}
			}
			alt := rc.pickRedirect(plan, target.PlayerUUID)
			if alt == nil {
				rc.noOpTarget(plan, target.PlayerName)
				return resolution{dropped: true}
			}
			rc.add(game.Event{
				Kind:    game.EventRedirect,
				Actor:   plan.actor.PlayerUUID,
				Target:  alt.PlayerUUID,
				Ability: plan.ability.Key,
				Message: fmt.Sprintf("%s's %s misses its mark and strikes %s instead.", plan.actor.PlayerName, plan.ability.Name, alt.PlayerName),
			})
			return resolution{players: []*game.Player{alt}, redirected: true}
		}
		return resolution{players: []*game.Player{target}}
	}
	return resolution{dropped: true}
}

// pickRedirect chooses a uniformly random legal alternative player target,
// excluding the actor, the original target, and anyone stealthed or down.
func (rc *roundContext) pickRedirect(plan plannedAction, excludeUUID string) *game.Player {
	var candidates []*game.Player
	for i := range rc.g.Players {
		p := &rc.g.Players[i]
		if p.PlayerUUID == plan.actor.PlayerUUID || p.PlayerUUID == excludeUUID {
			continue
		}
		if !p.Targetable() || rc.isStealthed(p) {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[rc.rng.Intn(len(candidates))]
}

func (rc *roundContext) noOpTarget(plan plannedAction, targetName string) {
	rc.add(game.Event{
		Kind:    game.EventNoOp,
		Actor:   plan.actor.PlayerUUID,
		Ability: plan.ability.Key,
		Message: fmt.Sprintf("%s's %s finds no valid target (%s).", plan.actor.PlayerName, plan.ability.Name, targetName),
	})
}
