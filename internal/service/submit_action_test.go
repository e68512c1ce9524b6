package service

import (
	"testing"
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

type mockRepoSA struct {
	games       map[uint]*game.Game
	updatedGame *game.Game
	statsCalled bool
}

func (m *mockRepoSA) GetGameByID(id uint) (*game.Game, error) {
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrGameNotFound
}

func (m *mockRepoSA) UpdateGame(g *game.Game) error {
	m.updatedGame = g
	return nil
}

func (m *mockRepoSA) UpdateStatsOnGameEnd(g *game.Game, resignedEmail string) error {
	m.statsCalled = true
	return nil
}

func serviceTestRules(t *testing.T) *rules.Rules {
	t.Helper()
	rl, _, err := rules.New(
		[]rules.Ability{
			{Key: "strike", Name: "Strike", Category: rules.CategoryAttack, Target: rules.TargetSingleOther, Damage: 30, Priority: 1500},
			{Key: "mend", Name: "Mend", Category: rules.CategoryHeal, Target: rules.TargetSingleOther, Heal: 25, Priority: 15000},
			{Key: "guard", Name: "Guard", Category: rules.CategoryDefense, Target: rules.TargetSelf, ArmorGrant: 5, Priority: 50},
		},
		[]rules.EffectBehavior{
			{Key: "exposed", Name: "Exposed", Kind: rules.EffectVulnerable, Refreshable: true, DefaultMagnitude: 0.25, DefaultDuration: 2, Priority: 500},
		},
		rules.Tuning{
			PlayerMaxHP: 100, MonsterMaxHP: 200, WarlockCount: 1, MaxEffectsPerPlayer: 10,
			ArmorReductionRate: 0.1, ArmorMaxReduction: 0.9, ArmorNegativeCap: 0.5,
			CritMultiplier: 1.5, ComebackThreshold: 0.25,
			ThreatDecay: 0.7, ThreatDeathReduction: 0.5, ThreatEpsilon: 0.01,
			MonsterBaseDamage: 15, MonsterAgeScaling: 0.1, MonsterTargetMemory: 1,
			CorruptionMaxChance: 0.5, CorruptionRoundCap: 1, CorruptionActorCap: 1, CorruptionCooldown: 2,
			DetectionEffectKey: "exposed", DetectionPenaltyDuration: 2,
		},
	)
	if err != nil {
		t.Fatalf("building test rules: %v", err)
	}
	return rl
}

func inProgressGame() *game.Game {
	g := &game.Game{
		Status: game.StatusInProgress,
		Phase:  game.PhasePlanning,
		Players: []game.Player{
			{PlayerUUID: "p1", PlayerName: "P1", MaxHP: 100, HP: 100, DamageModifier: 1, Alive: true, Allegiance: game.AllegianceHero},
			{PlayerUUID: "p2", PlayerName: "P2", MaxHP: 100, HP: 100, DamageModifier: 1, Alive: true, Allegiance: game.AllegianceWarlock},
		},
		Monster:             game.Monster{MaxHP: 200, HP: 200},
		Seed:                7,
		StartingPlayerCount: 2,
	}
	return g
}

func TestSubmitAction_ResolvesRound(t *testing.T) {
	rl := serviceTestRules(t)
	g := inProgressGame()
	g.ID = 7
	mr := &mockRepoSA{games: map[uint]*game.Game{7: g}}

	_, resolved, err := SubmitAction(mr, rl, 7, "p1", "strike", game.MonsterTargetID, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved {
		t.Fatal("round should not resolve after one of two submissions")
	}

	g2, resolved, err := SubmitAction(mr, rl, 7, "p2", "strike", game.MonsterTargetID, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resolved {
		t.Fatal("expected round to resolve once everyone submitted")
	}
	if g2.RoundCount != 1 {
		t.Fatalf("expected RoundCount=1 after resolution, got %d", g2.RoundCount)
	}
	if mr.updatedGame == nil {
		t.Fatal("the resolved game must be persisted")
	}
}

func TestSubmitAction_CooldownRejected(t *testing.T) {
	rl := serviceTestRules(t)
	g := inProgressGame()
	g.Players[0].Cooldowns = map[string]int{"strike": 5}
	mr := &mockRepoSA{games: map[uint]*game.Game{7: g}}

	_, _, err := SubmitAction(mr, rl, 7, "p1", "strike", game.MonsterTargetID, time.Minute)
	if err != ErrAbilityOnCooldown {
		t.Fatalf("expected ErrAbilityOnCooldown, got %v", err)
	}
}

func TestSubmitAction_TargetValidation(t *testing.T) {
	rl := serviceTestRules(t)
	g := inProgressGame()
	mr := &mockRepoSA{games: map[uint]*game.Game{7: g}}

	// Heals cannot aim at the monster.
	if _, _, err := SubmitAction(mr, rl, 7, "p1", "mend", game.MonsterTargetID, time.Minute); err != ErrInvalidTarget {
		t.Fatalf("expected ErrInvalidTarget for mend on monster, got %v", err)
	}
	// Single-target abilities cannot aim at self.
	if _, _, err := SubmitAction(mr, rl, 7, "p1", "strike", "p1", time.Minute); err != ErrInvalidTarget {
		t.Fatalf("expected ErrInvalidTarget for self strike, got %v", err)
	}
	// Unknown targets are rejected at submission.
	if _, _, err := SubmitAction(mr, rl, 7, "p1", "strike", "ghost", time.Minute); err != ErrInvalidTarget {
		t.Fatalf("expected ErrInvalidTarget for unknown target, got %v", err)
	}
	// Unknown abilities are rejected.
	if _, _, err := SubmitAction(mr, rl, 7, "p1", "fireball", "p2", time.Minute); err != ErrUnknownAbility {
		t.Fatalf("expected ErrUnknownAbility, got %v", err)
	}
}

func TestSubmitAction_DeadPlayerRejected(t *testing.T) {
	rl := serviceTestRules(t)
	g := inProgressGame()
	g.Players[0].Alive = false
	mr := &mockRepoSA{games: map[uint]*game.Game{7: g}}

	if _, _, err := SubmitAction(mr, rl, 7, "p1", "strike", "p2", time.Minute); err != ErrPlayerDead {
		t.Fatalf("expected ErrPlayerDead, got %v", err)
	}
}

func TestSubmitAction_OverwriteWhilePlanning(t *testing.T) {
	rl := serviceTestRules(t)
	g := inProgressGame()
	mr := &mockRepoSA{games: map[uint]*game.Game{7: g}}

	if _, _, err := SubmitAction(mr, rl, 7, "p1", "strike", game.MonsterTargetID, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := SubmitAction(mr, rl, 7, "p1", "guard", "", time.Minute); err != nil {
		t.Fatalf("resubmission while planning should be allowed: %v", err)
	}
	if g.Players[0].PendingAbilityKey != "guard" {
		t.Fatalf("expected the later submission to win, got %q", g.Players[0].PendingAbilityKey)
	}
}

func TestStartGame_AssignsWarlocksAndStats(t *testing.T) {
	rl := serviceTestRules(t)
	g := &game.Game{
		Status: game.StatusLobby,
		Players: []game.Player{
			{PlayerUUID: "p1", PlayerName: "P1"},
			{PlayerUUID: "p2", PlayerName: "P2"},
			{PlayerUUID: "p3", PlayerName: "P3"},
			{PlayerUUID: "p4", PlayerName: "P4"},
		},
	}
	mr := &mockRepoSA{games: map[uint]*game.Game{1: g}}

	if err := StartGame(mr, rl, g, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	warlocks := 0
	for i := range g.Players {
		p := &g.Players[i]
		if p.Allegiance == game.AllegianceWarlock {
			warlocks++
		}
		if p.HP != 100 || p.MaxHP != 100 || !p.Alive {
			t.Fatalf("player %s not initialized: %+v", p.PlayerUUID, p)
		}
	}
	if warlocks != 1 {
		t.Fatalf("expected exactly 1 warlock, got %d", warlocks)
	}
	if g.Status != game.StatusInProgress || g.Phase != game.PhasePlanning {
		t.Fatalf("unexpected state %s/%s", g.Status, g.Phase)
	}
	if g.Monster.HP != 200 {
		t.Fatalf("monster not initialized, HP=%d", g.Monster.HP)
	}
	if g.StartingPlayerCount != 4 {
		t.Fatalf("starting player count %d", g.StartingPlayerCount)
	}
	if g.Seed == 0 {
		t.Fatal("session seed must be set")
	}
}

func TestStartGame_RequiresEnoughPlayers(t *testing.T) {
	rl := serviceTestRules(t)
	g := &game.Game{
		Status: game.StatusLobby,
		Players: []game.Player{
			{PlayerUUID: "p1"}, {PlayerUUID: "p2"},
		},
	}
	mr := &mockRepoSA{games: map[uint]*game.Game{1: g}}

	if err := StartGame(mr, rl, g, time.Minute); err != ErrNotEnoughPlayers {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
}

// mockRepoClone hands out an independent copy per load, the way the real
// database layer does, so stale-copy bugs cannot hide behind shared
// pointers.
type mockRepoClone struct {
	stored *game.Game
	writes []int // RoundCount of every persisted write, in order
}

func cloneGame(g *game.Game) *game.Game {
	cp := *g
	cp.Players = append([]game.Player(nil), g.Players...)
	for i := range cp.Players {
		if len(g.Players[i].Cooldowns) > 0 {
			cd := make(map[string]int, len(g.Players[i].Cooldowns))
			for k, v := range g.Players[i].Cooldowns {
				cd[k] = v
			}
			cp.Players[i].Cooldowns = cd
		}
		cp.Players[i].Effects = append([]game.StatusEffect(nil), g.Players[i].Effects...)
	}
	if len(g.Monster.Threat) > 0 {
		th := make(map[string]float64, len(g.Monster.Threat))
		for k, v := range g.Monster.Threat {
			th[k] = v
		}
		cp.Monster.Threat = th
	}
	cp.Monster.RecentTargets = append([]string(nil), g.Monster.RecentTargets...)
	cp.LastRoundEvents = append([]game.Event(nil), g.LastRoundEvents...)
	return &cp
}

func (m *mockRepoClone) GetGameByID(id uint) (*game.Game, error) {
	if m.stored == nil || m.stored.ID != id {
		return nil, ErrGameNotFound
	}
	return cloneGame(m.stored), nil
}

func (m *mockRepoClone) UpdateGame(g *game.Game) error {
	m.writes = append(m.writes, g.RoundCount)
	m.stored = cloneGame(g)
	return nil
}

func (m *mockRepoClone) UpdateStatsOnGameEnd(*game.Game, string) error { return nil }

func TestTimeoutScannerCannotClobberResolvedRound(t *testing.T) {
	rl := serviceTestRules(t)
	g := inProgressGame()
	g.ID = 7
	mr := &mockRepoClone{stored: cloneGame(g)}

	if _, _, err := SubmitAction(mr, rl, 7, "p1", "strike", game.MonsterTargetID, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The scanner grabs its own copy of the still-collecting round here.
	stale := cloneGame(mr.stored)

	g2, resolved, err := SubmitAction(mr, rl, 7, "p2", "strike", game.MonsterTargetID, time.Minute)
	if err != nil || !resolved {
		t.Fatalf("expected a resolved round, got resolved=%v err=%v", resolved, err)
	}
	if g2.RoundCount != 1 {
		t.Fatalf("expected RoundCount=1 after resolution, got %d", g2.RoundCount)
	}
	monsterHP := mr.stored.Monster.HP

	// The scanner now fires on its stale copy. It must neither resolve the
	// round a second time nor persist planning-phase state over the
	// resolved one.
	stale.ActionDeadline = time.Now().Add(-time.Minute)
	if err := HandleTimedOutGame(mr, rl, stale, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.stored.RoundCount != 1 {
		t.Fatalf("stale write clobbered the resolved round: stored RoundCount=%d", mr.stored.RoundCount)
	}
	if mr.stored.Monster.HP != monsterHP {
		t.Fatalf("round resolved twice: monster HP %d -> %d", monsterHP, mr.stored.Monster.HP)
	}
	if stale.RoundCount != 1 {
		t.Fatalf("the scanner should come away holding resolved state, got round %d", stale.RoundCount)
	}
	for i := 1; i < len(mr.writes); i++ {
		if mr.writes[i] < mr.writes[i-1] {
			t.Fatalf("persisted round counters went backwards: %v", mr.writes)
		}
	}
}
