package rules

import "fmt"

// Tuning is the immutable set of balance constants supplied at session start.
// No tunable value is hard-coded anywhere in the engine; everything the
// resolver multiplies, caps or rolls against comes from here.
type Tuning struct {
	// Starting state
	PlayerMaxHP         int     `json:"player_max_hp"`
	PlayerStartingArmor int     `json:"player_starting_armor"`
	MonsterMaxHP        int     `json:"monster_max_hp"`
	WarlockCount        int     `json:"warlock_count"`
	MaxEffectsPerPlayer int     `json:"max_effects_per_player"`

	// Armor mitigation. reduction = armor * rate, clamped to
	// [-NegativeCap, MaxReduction]. Negative armor amplifies damage.
	ArmorReductionRate  float64 `json:"armor_reduction_rate"`
	ArmorMaxReduction   float64 `json:"armor_max_reduction"`
	ArmorNegativeCap    float64 `json:"armor_negative_cap"`

	// Variance roll, mutually exclusive per action.
	CritChance     float64 `json:"crit_chance"`
	CritMultiplier float64 `json:"crit_multiplier"`
	FailChance     float64 `json:"fail_chance"`
	WildChance     float64 `json:"wild_chance"`

	// Coordination bonus: flat fraction added per extra same-target,
	// same-category actor, capped at MaxCoordinators extras.
	CoordinationBonus float64 `json:"coordination_bonus"`
	MaxCoordinators   int     `json:"max_coordinators"`

	// Comeback mechanics, active while the alive hero fraction is at or
	// below the threshold.
	ComebackThreshold       float64 `json:"comeback_threshold"`
	ComebackDamageBonus     float64 `json:"comeback_damage_bonus"`
	ComebackHealBonus       float64 `json:"comeback_heal_bonus"`
	ComebackArmorBonus      float64 `json:"comeback_armor_bonus"`
	ComebackCorruptionResist float64 `json:"comeback_corruption_resist"`

	// Threat model.
	ThreatArmorWeight    float64 `json:"threat_armor_weight"`
	ThreatDamageWeight   float64 `json:"threat_damage_weight"`
	ThreatHealWeight     float64 `json:"threat_heal_weight"`
	ThreatDecay          float64 `json:"threat_decay"`
	ThreatDeathReduction float64 `json:"threat_death_reduction"`
	ThreatEpsilon        float64 `json:"threat_epsilon"`

	// Monster behavior.
	MonsterBaseDamage      int     `json:"monster_base_damage"`
	MonsterAgeScaling      float64 `json:"monster_age_scaling"`
	MonsterTargetMemory    int     `json:"monster_target_memory"`
	MonsterIgnoresStealth  bool    `json:"monster_ignores_stealth"`

	// Corruption sub-protocol.
	CorruptionBaseChance     float64 `json:"corruption_base_chance"`
	CorruptionMaxChance      float64 `json:"corruption_max_chance"`
	CorruptionScaling        float64 `json:"corruption_scaling"`
	CorruptionAreaModifier   float64 `json:"corruption_area_modifier"`
	CorruptionSingleModifier float64 `json:"corruption_single_modifier"`
	CorruptionAloneModifier  float64 `json:"corruption_alone_modifier"`
	CorruptionRoundCap       int     `json:"corruption_round_cap"`
	CorruptionActorCap       int     `json:"corruption_actor_cap"`
	CorruptionCooldown       int     `json:"corruption_cooldown"`
	BlockRevealedCorruption  bool    `json:"block_revealed_corruption"`

	// Detection: the only sanctioned allegiance leak. Rolled when a warlock
	// receives genuine HP-restoring healing.
	DetectionChance          float64 `json:"detection_chance"`
	DetectionEffectKey       string  `json:"detection_effect_key"`
	DetectionPenaltyDuration int     `json:"detection_penalty_duration"`
}

// Validate checks the tuning constants for presence and sanity. Any failure
// here is a ConfigurationError: session creation must abort.
func (t Tuning) Validate() error {
	required := []struct {
		name string
		ok   bool
	}{
		{"player_max_hp", t.PlayerMaxHP > 0},
		{"monster_max_hp", t.MonsterMaxHP > 0},
		{"warlock_count", t.WarlockCount > 0},
		{"max_effects_per_player", t.MaxEffectsPerPlayer > 0},
		{"armor_reduction_rate", t.ArmorReductionRate > 0},
		{"armor_max_reduction", t.ArmorMaxReduction > 0 && t.ArmorMaxReduction <= 1},
		{"armor_negative_cap", t.ArmorNegativeCap >= 0},
		{"crit_multiplier", t.CritMultiplier >= 1},
		{"coordination_bonus", t.CoordinationBonus >= 0},
		{"max_coordinators", t.MaxCoordinators >= 0},
		{"comeback_threshold", t.ComebackThreshold >= 0 && t.ComebackThreshold < 1},
		{"threat_decay", t.ThreatDecay >= 0 && t.ThreatDecay <= 1},
		{"threat_death_reduction", t.ThreatDeathReduction >= 0 && t.ThreatDeathReduction <= 1},
		{"threat_epsilon", t.ThreatEpsilon > 0},
		{"monster_base_damage", t.MonsterBaseDamage > 0},
		{"monster_age_scaling", t.MonsterAgeScaling >= 0},
		{"monster_target_memory", t.MonsterTargetMemory >= 0},
		{"corruption_max_chance", t.CorruptionMaxChance > 0 && t.CorruptionMaxChance <= 1},
		{"corruption_round_cap", t.CorruptionRoundCap > 0},
		{"corruption_actor_cap", t.CorruptionActorCap > 0},
		{"corruption_cooldown", t.CorruptionCooldown >= 0},
		{"detection_chance", t.DetectionChance >= 0 && t.DetectionChance <= 1},
	}
	for _, r := range required {
		if !r.ok {
			return fmt.Errorf("tuning: missing or out-of-range constant %q", r.name)
		}
	}
	if t.CritChance+t.FailChance+t.WildChance > 1 {
		return fmt.Errorf("tuning: crit/fail/wild chances sum above 1")
	}
	return nil
}

// ComebackActive reports whether the hero-side comeback bonuses apply given
// the fraction of starting heroes still alive.
func (t Tuning) ComebackActive(aliveFraction float64) bool {
	return aliveFraction <= t.ComebackThreshold
}
