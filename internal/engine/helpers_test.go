package engine

import (
	"math/rand"
	"testing"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

func testTuning() rules.Tuning {
	return rules.Tuning{
		PlayerMaxHP:         100,
		PlayerStartingArmor: 0,
		MonsterMaxHP:        200,
		WarlockCount:        1,
		MaxEffectsPerPlayer: 10,

		ArmorReductionRate: 0.1,
		ArmorMaxReduction:  0.9,
		ArmorNegativeCap:   0.5,

		CritChance:     0,
		CritMultiplier: 1.5,
		FailChance:     0,
		WildChance:     0,

		CoordinationBonus: 0.1,
		MaxCoordinators:   3,

		ComebackThreshold:        0.25,
		ComebackDamageBonus:      0.2,
		ComebackHealBonus:        0.2,
		ComebackArmorBonus:       0.25,
		ComebackCorruptionResist: 0.3,

		ThreatArmorWeight:    0.5,
		ThreatDamageWeight:   1,
		ThreatHealWeight:     0.8,
		ThreatDecay:          0.7,
		ThreatDeathReduction: 0.5,
		ThreatEpsilon:        0.01,

		MonsterBaseDamage:   15,
		MonsterAgeScaling:   0.1,
		MonsterTargetMemory: 1,

		CorruptionBaseChance:     0,
		CorruptionMaxChance:      0.5,
		CorruptionScaling:        0,
		CorruptionAreaModifier:   1.5,
		CorruptionSingleModifier: 1,
		CorruptionAloneModifier:  0.5,
		CorruptionRoundCap:       1,
		CorruptionActorCap:       1,
		CorruptionCooldown:       2,
		BlockRevealedCorruption:  true,

		DetectionChance:          0,
		DetectionEffectKey:       "exposed",
		DetectionPenaltyDuration: 2,
	}
}

func testEffects() []rules.EffectBehavior {
	return []rules.EffectBehavior{
		{Key: "burn", Name: "Burning", Kind: rules.EffectDamageOverTime, Stackable: true, DefaultMagnitude: 5, DefaultDuration: 3, Priority: 10},
		{Key: "regrowth", Name: "Regrowth", Kind: rules.EffectHealOverTime, Refreshable: true, DefaultMagnitude: 6, DefaultDuration: 3, Priority: 20},
		{Key: "barrier", Name: "Barrier", Kind: rules.EffectShield, Refreshable: true, DefaultMagnitude: 4, DefaultDuration: 3, Priority: 1000, DecayOnHit: 2},
		{Key: "exposed", Name: "Exposed", Kind: rules.EffectVulnerable, Refreshable: true, DefaultMagnitude: 0.25, DefaultDuration: 2, Priority: 500},
		{Key: "sapped", Name: "Sapped", Kind: rules.EffectWeakened, Refreshable: true, DefaultMagnitude: 0.25, DefaultDuration: 2, Priority: 500},
		{Key: "smoke", Name: "Smoke Veil", Kind: rules.EffectStealth, Refreshable: true, DefaultMagnitude: 1, DefaultDuration: 1, Priority: 600},
		{Key: "daze", Name: "Dazed", Kind: rules.EffectStun, DefaultMagnitude: 1, DefaultDuration: 1, Priority: 600},
		{Key: "soulbind", Name: "Soulbind", Kind: rules.EffectRevive, DefaultMagnitude: 30, DefaultDuration: 3, Priority: 1000},
		{Key: "plague", Name: "Plague", Kind: rules.EffectDamageOverTime, DefaultMagnitude: 4, DefaultDuration: 2, Priority: 10, BlocksHealing: true},
	}
}

func testAbilities() []rules.Ability {
	return []rules.Ability{
		{Key: "strike", Name: "Strike", Category: rules.CategoryAttack, Target: rules.TargetSingleOther, Damage: 30, Priority: 1500},
		{Key: "heavy_blow", Name: "Heavy Blow", Category: rules.CategoryAttack, Target: rules.TargetSingleOther, Damage: 40, Priority: 1600, Cooldown: 2},
		{Key: "sweep", Name: "Sweep", Category: rules.CategoryAttack, Target: rules.TargetAllOthers, Damage: 10, Priority: 1700},
		{Key: "mend", Name: "Mend", Category: rules.CategoryHeal, Target: rules.TargetSingleOther, Heal: 25, Priority: 15000},
		{Key: "self_mend", Name: "Inner Light", Category: rules.CategoryHeal, Target: rules.TargetSelf, Heal: 20, Priority: 15500},
		{Key: "guard", Name: "Guard", Category: rules.CategoryDefense, Target: rules.TargetSelf, ArmorGrant: 5, Priority: 50},
		{Key: "smoke_bomb", Name: "Smoke Bomb", Category: rules.CategorySpecial, Target: rules.TargetSelf, EffectKey: "smoke", Priority: 500},
		{Key: "ignite", Name: "Ignite", Category: rules.CategoryAttack, Target: rules.TargetSingleOther, Damage: 10, EffectKey: "burn", Priority: 1550},
	}
}

func newTestRules(t *testing.T, tuning rules.Tuning) *rules.Rules {
	t.Helper()
	rl, _, err := rules.New(testAbilities(), testEffects(), tuning)
	if err != nil {
		t.Fatalf("building test rules: %v", err)
	}
	return rl
}

func newTestGame(players ...game.Player) *game.Game {
	for i := range players {
		if players[i].MaxHP == 0 {
			players[i].MaxHP = 100
			players[i].HP = 100
		}
		if players[i].DamageModifier == 0 {
			players[i].DamageModifier = 1
		}
		players[i].Alive = true
		if players[i].Allegiance == "" {
			players[i].Allegiance = game.AllegianceHero
		}
	}
	return &game.Game{
		Status:              game.StatusInProgress,
		Phase:               game.PhasePlanning,
		Players:             players,
		Monster:             game.Monster{MaxHP: 200, HP: 200},
		Seed:                42,
		StartingPlayerCount: len(players),
	}
}

func submit(g *game.Game, uuid, ability, target string) {
	p := g.FindPlayerByUUID(uuid)
	p.HasSubmittedAction = true
	p.PendingAbilityKey = ability
	p.PendingTargetUUID = target
}

func newContext(g *game.Game, rl *rules.Rules) *roundContext {
	g.RoundCount++
	return newRoundContext(g, rl, rand.New(rand.NewSource(g.Seed+int64(g.RoundCount))))
}
