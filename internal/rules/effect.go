package rules

// EffectKind tags the behavior of a status effect. Each kind interprets the
// instance magnitude differently (see comments per constant), so instances
// only ever carry a magnitude and a duration.
type EffectKind string

const (
	// EffectDamageOverTime deals Magnitude HP at each end-of-round pass.
	EffectDamageOverTime EffectKind = "damage_over_time"
	// EffectHealOverTime restores Magnitude HP at each end-of-round pass.
	EffectHealOverTime EffectKind = "heal_over_time"
	// EffectShield adds Magnitude to effective armor while active.
	EffectShield EffectKind = "shield"
	// EffectVulnerable multiplies incoming damage by (1 + Magnitude).
	EffectVulnerable EffectKind = "vulnerable"
	// EffectWeakened multiplies outgoing damage by (1 - Magnitude).
	EffectWeakened EffectKind = "weakened"
	// EffectStealth blocks hostile targeting while active.
	EffectStealth EffectKind = "stealth"
	// EffectStun prevents the bearer from acting.
	EffectStun EffectKind = "stun"
	// EffectRevive intercepts death, restoring Magnitude HP.
	EffectRevive EffectKind = "revive"
	// EffectPassive has no per-tick consequence; used for class/racial
	// markers that other rules read.
	EffectPassive EffectKind = "passive"
)

// EffectBehavior is an immutable status-effect definition from the registry.
// Behavioral flags live here; per-instance state carries only magnitude and
// remaining duration.
type EffectBehavior struct {
	Key  string     `json:"key"`
	Name string     `json:"name"`
	Kind EffectKind `json:"kind"`

	// Stacking semantics: a stackable effect may hold several concurrent
	// instances; a refreshable one extends the existing instance to
	// max(old, new) duration. Neither set means re-application is rejected
	// while an instance is active.
	Stackable   bool `json:"stackable"`
	Refreshable bool `json:"refreshable"`

	DefaultMagnitude float64 `json:"default_magnitude"`
	DefaultDuration  int     `json:"default_duration"`

	// Processing priority for the end-of-round pass, ascending. Convention:
	// damage-over-time first (<100), control effects late (>=500), passives
	// last (>=1000).
	Priority int `json:"priority"`

	// Interaction flags.
	BlocksHealing bool `json:"blocks_healing"`
	// DecayOnHit degrades the instance magnitude by this much on every hit
	// the bearer takes (applied at hit time, not in the end-of-round pass).
	DecayOnHit float64 `json:"decay_on_hit"`
}

// PreventsActions reports whether the bearer loses their submitted action.
func (b EffectBehavior) PreventsActions() bool { return b.Kind == EffectStun }

// BlocksTargeting reports whether the bearer is hidden from hostile
// single-target selection and monster threat targeting.
func (b EffectBehavior) BlocksTargeting() bool { return b.Kind == EffectStealth }
