package engine

import (
	"math"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// hit is the value object a pipeline run mutates. One hit is built per
// (action, target) pair; the variance multiplier is rolled once per action
// and shared by all of that action's hits.
type hit struct {
	base     float64
	actor    *game.Player // nil when the monster (or an effect tick) deals it
	target   *game.Player // nil when aimed at the monster
	category rules.AbilityCategory

	variance    float64 // 1.0 = normal roll
	coordExtras int     // same-target, same-category actors beyond this one

	amount float64
}

// pipelineStep is one pure modifier over a hit. Steps never touch game
// state; they only read it.
type pipelineStep struct {
	name  string
	apply func(*roundContext, *hit)
}

// damagePipeline is the ordered modifier chain for damage. The order itself
// is part of the game rules: new modifiers slot in without touching the
// existing ones. Armor mitigation runs last, before the HP subtraction.
var damagePipeline = []pipelineStep{
	{"actor_modifier", stepActorModifier},
	{"variance", stepVariance},
	{"coordination", stepCoordination},
	{"comeback", stepComebackDamage},
	{"weakened", stepWeakened},
	{"vulnerability", stepVulnerability},
	{"armor", stepArmor},
}

// healPipeline mirrors the damage chain minus the armor step, with the
// heal-specific comeback bonus. Healing is never reduced by the target's
// state except through the blocks-healing effect flag, which the caller
// checks before running the pipeline.
var healPipeline = []pipelineStep{
	{"actor_modifier", stepActorModifier},
	{"variance", stepVariance},
	{"coordination", stepCoordination},
	{"comeback", stepComebackHeal},
}

// DamagePipelineOrder exposes the modifier order as a testable artifact.
func DamagePipelineOrder() []string {
	names := make([]string, len(damagePipeline))
	for i, s := range damagePipeline {
		names[i] = s.name
	}
	return names
}

func runPipeline(rc *roundContext, steps []pipelineStep, h *hit) int {
	h.amount = h.base
	for _, s := range steps {
		s.apply(rc, h)
	}
	if h.amount < 0 {
		h.amount = 0
	}
	return int(math.Round(h.amount))
}

func stepActorModifier(rc *roundContext, h *hit) {
	if h.actor == nil {
		return
	}
	h.amount *= h.actor.DamageModifier
}

func stepVariance(rc *roundContext, h *hit) {
	h.amount *= h.variance
}

func stepCoordination(rc *roundContext, h *hit) {
	if h.coordExtras <= 0 {
		return
	}
	extras := h.coordExtras
	if extras > rc.rl.Tuning.MaxCoordinators {
		extras = rc.rl.Tuning.MaxCoordinators
	}
	h.amount *= 1 + rc.rl.Tuning.CoordinationBonus*float64(extras)
}

func stepComebackDamage(rc *roundContext, h *hit) {
	if rc.comeback && h.actor != nil {
		h.amount *= 1 + rc.rl.Tuning.ComebackDamageBonus
	}
}

func stepComebackHeal(rc *roundContext, h *hit) {
	if rc.comeback && h.actor != nil {
		h.amount *= 1 + rc.rl.Tuning.ComebackHealBonus
	}
}

func stepWeakened(rc *roundContext, h *hit) {
	if h.actor == nil {
		return
	}
	h.amount *= rc.outgoingMultiplier(h.actor)
}

func stepVulnerability(rc *roundContext, h *hit) {
	if h.target == nil {
		return
	}
	h.amount *= rc.incomingMultiplier(h.target)
}

func stepArmor(rc *roundContext, h *hit) {
	if h.target == nil {
		return
	}
	h.amount *= 1 - rc.armorReduction(rc.effectiveArmor(h.target))
}

// effectiveArmor is the target's armor plus active shield effects, with the
// comeback armor bonus applied while comeback is active.
func (rc *roundContext) effectiveArmor(p *game.Player) float64 {
	a := float64(p.Armor) + rc.shieldBonus(p)
	if rc.comeback && a > 0 {
		a *= 1 + rc.rl.Tuning.ComebackArmorBonus
	}
	return a
}

// armorReduction maps armor to a damage-reduction fraction. Positive armor
// caps at ArmorMaxReduction; negative armor amplifies damage, capped at
// -ArmorNegativeCap.
func (rc *roundContext) armorReduction(armor float64) float64 {
	red := armor * rc.rl.Tuning.ArmorReductionRate
	if armor > 0 {
		if red > rc.rl.Tuning.ArmorMaxReduction {
			red = rc.rl.Tuning.ArmorMaxReduction
		}
		return red
	}
	if red < -rc.rl.Tuning.ArmorNegativeCap {
		red = -rc.rl.Tuning.ArmorNegativeCap
	}
	return red
}

// varianceKind is the outcome of the once-per-action variance roll.
type varianceKind int

const (
	varianceNormal varianceKind = iota
	varianceCrit
	varianceFail
	varianceWild
)

// rollVariance rolls the mutually exclusive critical / total failure / wild
// failure outcomes.
func (rc *roundContext) rollVariance() (varianceKind, float64) {
	t := rc.rl.Tuning
	r := rc.rng.Float64()
	switch {
	case r < t.CritChance:
		return varianceCrit, t.CritMultiplier
	case r < t.CritChance+t.FailChance:
		return varianceFail, 0
	case r < t.CritChance+t.FailChance+t.WildChance:
		return varianceWild, 1
	}
	return varianceNormal, 1
}
