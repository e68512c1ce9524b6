package rules

import (
	"strings"
	"testing"
)

func validTuning() Tuning {
	return Tuning{
		PlayerMaxHP:              100,
		MonsterMaxHP:             200,
		WarlockCount:             1,
		MaxEffectsPerPlayer:      8,
		ArmorReductionRate:       0.1,
		ArmorMaxReduction:        0.9,
		ArmorNegativeCap:         0.5,
		CritChance:               0.05,
		CritMultiplier:           1.5,
		FailChance:               0.05,
		WildChance:               0.05,
		CoordinationBonus:        0.1,
		MaxCoordinators:          3,
		ComebackThreshold:        0.4,
		ThreatDecay:              0.7,
		ThreatDeathReduction:     0.5,
		ThreatEpsilon:            0.01,
		MonsterBaseDamage:        15,
		MonsterTargetMemory:      1,
		CorruptionMaxChance:      0.5,
		CorruptionRoundCap:       1,
		CorruptionActorCap:       1,
		CorruptionCooldown:       2,
		DetectionChance:          0.3,
		DetectionEffectKey:       "marked",
		DetectionPenaltyDuration: 2,
	}
}

func validEffects() []EffectBehavior {
	return []EffectBehavior{
		{Key: "burn", Name: "Burning", Kind: EffectDamageOverTime, DefaultMagnitude: 5, DefaultDuration: 3, Priority: 10},
		{Key: "marked", Name: "Marked", Kind: EffectPassive, DefaultMagnitude: 1, DefaultDuration: 2, Priority: 1200},
	}
}

func TestNewNormalizesKeysAcrossCatalogAndRegistry(t *testing.T) {
	abilities := []Ability{
		{Key: "Shadow Bolt", Name: "Shadow Bolt", Category: CategoryAttack, Target: TargetSingleOther, Damage: 20, EffectKey: "Burn", Priority: 1500},
	}
	rl, _, err := New(abilities, validEffects(), validTuning())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, ok := rl.Ability("shadow_bolt")
	if !ok {
		t.Fatalf("normalized ability key not found")
	}
	if a.EffectKey != "burn" {
		t.Fatalf("effect key not normalized: %q", a.EffectKey)
	}
	if _, ok := rl.Ability("SHADOW BOLT"); !ok {
		t.Fatalf("lookup should normalize the query key too")
	}
}

func TestNewRejectsUnknownEffectReference(t *testing.T) {
	abilities := []Ability{
		{Key: "curse", Name: "Curse", Category: CategorySpecial, Target: TargetSingleOther, EffectKey: "no_such_effect", Priority: 300},
	}
	if _, _, err := New(abilities, validEffects(), validTuning()); err == nil {
		t.Fatalf("expected error for dangling effect reference")
	}
}

func TestNewRejectsDuplicateAbilityKeys(t *testing.T) {
	abilities := []Ability{
		{Key: "strike", Name: "Strike", Category: CategoryAttack, Target: TargetSingleOther, Damage: 20, Priority: 1500},
		{Key: "Strike", Name: "Strike Again", Category: CategoryAttack, Target: TargetSingleOther, Damage: 25, Priority: 1600},
	}
	if _, _, err := New(abilities, validEffects(), validTuning()); err == nil {
		t.Fatalf("expected duplicate-key error after normalization")
	}
}

func TestNewWarnsOnOutOfBandPriorityButAccepts(t *testing.T) {
	abilities := []Ability{
		// A heal in the offensive band: accepted, but flagged.
		{Key: "odd_mend", Name: "Odd Mend", Category: CategoryHeal, Target: TargetSingleOther, Heal: 20, Priority: 1500},
	}
	rl, warnings, err := New(abilities, validEffects(), validTuning())
	if err != nil {
		t.Fatalf("out-of-band priority must not reject: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "odd_mend") {
		t.Fatalf("expected one warning naming the ability, got %v", warnings)
	}
	if _, ok := rl.Ability("odd_mend"); !ok {
		t.Fatalf("warned ability should still be registered")
	}
}

func TestTuningValidateCatchesMissingConstants(t *testing.T) {
	tun := validTuning()
	tun.ThreatEpsilon = 0
	if err := tun.Validate(); err == nil {
		t.Fatalf("expected validation error for zero threat epsilon")
	}

	tun = validTuning()
	tun.CritChance = 0.5
	tun.FailChance = 0.4
	tun.WildChance = 0.3
	if err := tun.Validate(); err == nil {
		t.Fatalf("expected validation error for chance sum above 1")
	}
}

func TestComebackActiveBoundary(t *testing.T) {
	tun := validTuning()
	if !tun.ComebackActive(0.4) {
		t.Fatalf("fraction equal to threshold should activate comeback")
	}
	if tun.ComebackActive(0.41) {
		t.Fatalf("fraction above threshold should not activate comeback")
	}
}
