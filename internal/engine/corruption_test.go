package engine

import (
	"testing"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

func corruptingTuning() rules.Tuning {
	tun := testTuning()
	tun.CorruptionBaseChance = 1
	tun.CorruptionMaxChance = 1
	tun.CorruptionAreaModifier = 1
	tun.CorruptionSingleModifier = 1
	tun.CorruptionAloneModifier = 1
	return tun
}

func countWarlocks(g *game.Game) int {
	n := 0
	for i := range g.Players {
		if g.Players[i].Allegiance == game.AllegianceWarlock {
			n++
		}
	}
	return n
}

func TestCorruptionRoundCap(t *testing.T) {
	tun := corruptingTuning()
	tun.CorruptionRoundCap = 1
	rl := newTestRules(t, tun)
	g := newTestGame(
		game.Player{PlayerUUID: "w1", PlayerName: "W1", Allegiance: game.AllegianceWarlock},
		game.Player{PlayerUUID: "w2", PlayerName: "W2", Allegiance: game.AllegianceWarlock},
		game.Player{PlayerUUID: "h1", PlayerName: "H1"},
		game.Player{PlayerUUID: "h2", PlayerName: "H2"},
		game.Player{PlayerUUID: "h3", PlayerName: "H3"},
	)
	rc := newContext(g, rl)

	rc.runCorruption()

	if countWarlocks(g) != 3 {
		t.Fatalf("round cap 1 allows exactly one conversion, got %d warlocks", countWarlocks(g))
	}
	if rc.conversions != 1 {
		t.Fatalf("expected 1 recorded conversion, got %d", rc.conversions)
	}
}

func TestCorruptionActorCooldown(t *testing.T) {
	rl := newTestRules(t, corruptingTuning())
	g := newTestGame(
		game.Player{PlayerUUID: "w1", PlayerName: "W1", Allegiance: game.AllegianceWarlock},
		game.Player{PlayerUUID: "h1", PlayerName: "H1"},
		game.Player{PlayerUUID: "h2", PlayerName: "H2"},
	)
	g.Players[0].ConvertLockedUntilRound = 5
	rc := newContext(g, rl) // round 1

	rc.runCorruption()

	if countWarlocks(g) != 1 {
		t.Fatal("a warlock on conversion cooldown must not convert")
	}
}

func TestCorruptionStartsCooldownAfterSuccess(t *testing.T) {
	rl := newTestRules(t, corruptingTuning())
	g := newTestGame(
		game.Player{PlayerUUID: "w1", PlayerName: "W1", Allegiance: game.AllegianceWarlock},
		game.Player{PlayerUUID: "h1", PlayerName: "H1"},
		game.Player{PlayerUUID: "h2", PlayerName: "H2"},
	)
	rc := newContext(g, rl) // round 1

	rc.runCorruption()

	w1 := g.FindPlayerByUUID("w1")
	if countWarlocks(g) != 2 {
		t.Fatal("expected a guaranteed conversion")
	}
	// Converted in round 1 with cooldown 2: locked through round 3.
	if w1.ConvertLockedUntilRound != 4 {
		t.Fatalf("expected conversion lock until round 4, got %d", w1.ConvertLockedUntilRound)
	}
	if w1.Stats.Conversions != 1 {
		t.Fatalf("conversion stat not recorded: %d", w1.Stats.Conversions)
	}
}

func TestCorruptionBlockedWhenRevealedThisRound(t *testing.T) {
	rl := newTestRules(t, corruptingTuning())
	g := newTestGame(
		game.Player{PlayerUUID: "w1", PlayerName: "W1", Allegiance: game.AllegianceWarlock},
		game.Player{PlayerUUID: "h1", PlayerName: "H1"},
	)
	rc := newContext(g, rl)
	rc.revealedThisRound["w1"] = true

	rc.runCorruption()

	if countWarlocks(g) != 1 {
		t.Fatal("a warlock exposed this round must not convert")
	}
}

func TestCorruptionSingleTargetConvertsTheVictim(t *testing.T) {
	rl := newTestRules(t, corruptingTuning())
	g := newTestGame(
		game.Player{PlayerUUID: "w1", PlayerName: "W1", Allegiance: game.AllegianceWarlock},
		game.Player{PlayerUUID: "h1", PlayerName: "H1"},
		game.Player{PlayerUUID: "h2", PlayerName: "H2"},
		game.Player{PlayerUUID: "h3", PlayerName: "H3"},
	)
	rc := newContext(g, rl)
	rc.attackShapes["w1"] = rules.TargetSingleOther
	rc.attackTargets["w1"] = "h2"

	rc.runCorruption()

	if g.FindPlayerByUUID("h2").Allegiance != game.AllegianceWarlock {
		t.Fatal("a single-target attack should corrupt its victim")
	}
	if g.FindPlayerByUUID("h1").Allegiance != game.AllegianceHero || g.FindPlayerByUUID("h3").Allegiance != game.AllegianceHero {
		t.Fatal("bystanders must stay uncorrupted")
	}
}

func TestComebackResistBlocksCorruption(t *testing.T) {
	tun := corruptingTuning()
	tun.ComebackCorruptionResist = 1
	rl := newTestRules(t, tun)
	g := newTestGame(
		game.Player{PlayerUUID: "w1", PlayerName: "W1", Allegiance: game.AllegianceWarlock},
		game.Player{PlayerUUID: "h1", PlayerName: "H1"},
	)
	g.StartingPlayerCount = 8 // 2/8 alive: comeback active
	rc := newContext(g, rl)

	rc.runCorruption()

	if countWarlocks(g) != 1 {
		t.Fatal("full comeback resist must block every conversion")
	}
}

func TestCorruptionEventsStayHidden(t *testing.T) {
	rl := newTestRules(t, corruptingTuning())
	g := newTestGame(
		game.Player{PlayerUUID: "w1", PlayerName: "W1", Allegiance: game.AllegianceWarlock},
		game.Player{PlayerUUID: "h1", PlayerName: "H1"},
		game.Player{PlayerUUID: "h2", PlayerName: "H2"},
	)

	if err := ResolveRound(g, rl); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if countWarlocks(g) != 2 {
		t.Fatal("expected a guaranteed conversion")
	}
	for _, ev := range g.LastRoundEvents {
		if ev.Kind == game.EventCorruption {
			t.Fatalf("corruption entry leaked into the visible log: %+v", ev)
		}
	}
	if g.LastRoundSummary != "" {
		for _, ev := range g.LastRoundEvents {
			if ev.Hidden {
				t.Fatal("hidden entry leaked into LastRoundEvents")
			}
		}
	}
}

func TestHealingIdenticalForBothAllegiances(t *testing.T) {
	rl := newTestRules(t, testTuning())
	heal := func(allegiance game.Allegiance) (int, int) {
		g := newTestGame(
			game.Player{PlayerUUID: "p1", PlayerName: "P1"},
			game.Player{PlayerUUID: "p2", PlayerName: "P2", Allegiance: allegiance},
			game.Player{PlayerUUID: "p3", PlayerName: "P3", Allegiance: game.AllegianceWarlock},
		)
		g.Players[1].HP = 40
		submit(g, "p1", "mend", "p2")
		if err := ResolveRound(g, rl); err != nil {
			t.Fatalf("resolve: %v", err)
		}
		return g.FindPlayerByUUID("p2").HP, len(g.LastRoundEvents)
	}

	heroHP, heroEvents := heal(game.AllegianceHero)
	warlockHP, warlockEvents := heal(game.AllegianceWarlock)
	if heroHP != warlockHP {
		t.Fatalf("healing differed by allegiance: hero %d vs warlock %d", heroHP, warlockHP)
	}
	if heroEvents != warlockEvents {
		t.Fatalf("visible event counts differed by allegiance: %d vs %d", heroEvents, warlockEvents)
	}
}

func TestDetectionRevealsWarlock(t *testing.T) {
	tun := testTuning()
	tun.DetectionChance = 1
	rl := newTestRules(t, tun)
	g := newTestGame(
		game.Player{PlayerUUID: "p1", PlayerName: "P1"},
		game.Player{PlayerUUID: "p2", PlayerName: "P2", Allegiance: game.AllegianceWarlock},
	)
	g.Players[1].HP = 40
	submit(g, "p1", "mend", "p2")

	if err := ResolveRound(g, rl); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	p2 := g.FindPlayerByUUID("p2")
	if p2.RevealedUntilRound == 0 {
		t.Fatal("detection should mark the warlock revealed")
	}
	if findEvent(g.LastRoundEvents, game.EventDetection, "p1") == nil {
		t.Fatal("expected a visible detection entry")
	}
	exposed := false
	for _, eff := range p2.Effects {
		if eff.Key == "exposed" {
			exposed = true
		}
	}
	if !exposed {
		t.Fatal("detection should apply the incoming-damage penalty")
	}
}
