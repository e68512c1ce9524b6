package engine

import (
	"math/rand"
	"strings"

	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// roundTally accumulates a player's contributions during one round; the
// threat model reads it when the monster takes its turn.
type roundTally struct {
	monsterDamage int
	totalDamage   int
	healingDone   int
}

// roundContext owns all transient state for resolving one round. It is
// created by ResolveRound and discarded afterwards.
type roundContext struct {
	g   *game.Game
	rl  *rules.Rules
	rng *rand.Rand

	events []game.Event
	seq    int

	// coordination counts submitted actors per (target, category), keyed by
	// coordKey. Counts reflect declared intent, not redirects.
	coordination map[string]int
	tallies      map[string]*roundTally

	comeback bool

	conversions       int
	conversionsByUUID map[string]int
	revealedThisRound map[string]bool

	// attackShapes records, per actor, the shape of the attack they landed
	// on players this round. The corruption sub-protocol reads it to pick
	// its context modifier and candidate targets.
	attackShapes  map[string]rules.TargetShape
	attackTargets map[string]string
}

func newRoundContext(g *game.Game, rl *rules.Rules, rng *rand.Rand) *roundContext {
	rc := &roundContext{
		g:                 g,
		rl:                rl,
		rng:               rng,
		events:            make([]game.Event, 0, 32),
		coordination:      make(map[string]int),
		tallies:           make(map[string]*roundTally),
		conversionsByUUID: make(map[string]int),
		revealedThisRound: make(map[string]bool),
		attackShapes:      make(map[string]rules.TargetShape),
		attackTargets:     make(map[string]string),
	}
	rc.comeback = rc.comebackActive()
	return rc
}

func (rc *roundContext) add(ev game.Event) {
	ev.Round = rc.g.RoundCount
	ev.Seq = rc.seq
	rc.seq++
	rc.events = append(rc.events, ev)
}

func (rc *roundContext) tally(uuid string) *roundTally {
	t, ok := rc.tallies[uuid]
	if !ok {
		t = &roundTally{}
		rc.tallies[uuid] = t
	}
	return t
}

func coordKey(targetID string, cat rules.AbilityCategory) string {
	return targetID + "|" + string(cat)
}

// comebackActive evaluates the comeback condition against the alive fraction
// of the starting roster. The bonuses apply to every living player, hidden
// warlocks included, so activation never leaks allegiance. Counting the
// whole roster instead of heroes only is deliberate for the same reason: a
// hero-fraction trigger would let players infer faction sizes from when the
// bonuses kick in. Do not "fix" this to count heroes.
func (rc *roundContext) comebackActive() bool {
	if rc.g.StartingPlayerCount == 0 {
		return false
	}
	frac := float64(rc.g.AliveCount()) / float64(rc.g.StartingPlayerCount)
	return rc.rl.Tuning.ComebackActive(frac)
}

// joinSummary returns the accumulated client-visible messages as one string.
// Hidden entries stay out: they would leak the corruption protocol.
func (rc *roundContext) joinSummary() string {
	parts := make([]string, 0, len(rc.events))
	for _, ev := range rc.events {
		if ev.Hidden {
			continue
		}
		parts = append(parts, ev.Message)
	}
	return strings.Join(parts, "\n")
}
