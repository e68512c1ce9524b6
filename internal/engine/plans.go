package engine

import (
	"fmt"
	"sort"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// plannedAction pairs a submitted intent with its resolved ability
// definition. The seat index anchors the stable tie-break so two runs of the
// same round always execute in the same order.
type plannedAction struct {
	actor   *game.Player
	ability rules.Ability
	// targetID is the declared target: a player UUID, MonsterTargetID, or
	// empty for self/area shapes.
	targetID string
	seat     int
}

// buildPlans turns the collected submissions into an ordered execution list.
// Unknown abilities and stunned actors produce a no-op log entry instead of
// a plan. Coordination tallies are counted here, from declared intent:
// redirects later in the round do not retroactively change them.
func (rc *roundContext) buildPlans() []plannedAction {
	plans := make([]plannedAction, 0, len(rc.g.Players))
	for i := range rc.g.Players {
		p := &rc.g.Players[i]
		if !p.Targetable() || !p.HasSubmittedAction {
			continue
		}
		ability, ok := rc.rl.Ability(p.PendingAbilityKey)
		if !ok {
			rc.add(game.Event{
				Kind:    game.EventNoOp,
				Actor:   p.PlayerUUID,
				Ability: p.PendingAbilityKey,
				Message: fmt.Sprintf("%s fumbles with an unknown ability.", p.PlayerName),
			})
			continue
		}
		if rc.isStunned(p) {
			rc.add(game.Event{
				Kind:    game.EventNoOp,
				Actor:   p.PlayerUUID,
				Ability: ability.Key,
				Message: fmt.Sprintf("%s is stunned and cannot act.", p.PlayerName),
			})
			continue
		}
		plans = append(plans, plannedAction{
			actor:    p,
			ability:  ability,
			targetID: p.PendingTargetUUID,
			seat:     i,
		})
	}

	for _, plan := range plans {
		if plan.ability.Target == rules.TargetSingleOther && plan.targetID != "" {
			rc.coordination[coordKey(plan.targetID, plan.ability.Category)]++
		}
	}

	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].ability.Priority != plans[j].ability.Priority {
			return plans[i].ability.Priority < plans[j].ability.Priority
		}
		return plans[i].seat < plans[j].seat
	})
	return plans
}

// coordExtrasFor returns how many other actors declared the same target and
// category this round.
func (rc *roundContext) coordExtrasFor(targetID string, cat rules.AbilityCategory) int {
	n := rc.coordination[coordKey(targetID, cat)]
	if n <= 1 {
		return 0
	}
	return n - 1
}
