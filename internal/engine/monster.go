package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/zbonzo/Warlock-sub004/internal/game"
)

// monsterTurn runs the adversary's round: threat accrual from this round's
// tallies, then either a respawn (if the party killed it) or one attack, and
// finally threat decay.
func (rc *roundContext) monsterTurn() {
	rc.accrueThreat()
	m := &rc.g.Monster

	if m.HP <= 0 {
		rc.respawnMonster()
	} else {
		if target := rc.selectMonsterTarget(); target != nil {
			rc.monsterAttack(target)
		}
		m.Age++
	}

	rc.decayThreat()
}

// accrueThreat folds this round's combat tallies into the threat table.
// Threatening the monster directly weighs in with the attacker's armor:
// well-protected aggressors are the ones worth focusing down.
func (rc *roundContext) accrueThreat() {
	t := rc.rl.Tuning
	m := &rc.g.Monster
	if m.Threat == nil {
		m.Threat = make(map[string]float64)
	}
	for uuid, tally := range rc.tallies {
		p := rc.g.FindPlayerByUUID(uuid)
		if p == nil {
			continue
		}
		gain := float64(p.Armor)*float64(tally.monsterDamage)*t.ThreatArmorWeight +
			float64(tally.totalDamage)*t.ThreatDamageWeight +
			float64(tally.healingDone)*t.ThreatHealWeight
		if gain != 0 {
			m.Threat[uuid] += gain
		}
	}
}

// selectMonsterTarget picks at most one victim: highest threat among
// eligible players, skipping stealth and recently hit targets, with a
// lowest-HP fallback when the threat table says nothing useful.
func (rc *roundContext) selectMonsterTarget() *game.Player {
	t := rc.rl.Tuning
	m := &rc.g.Monster

	eligible := make([]*game.Player, 0, len(rc.g.Players))
	for i := range rc.g.Players {
		p := &rc.g.Players[i]
		if !p.Targetable() {
			continue
		}
		if !t.MonsterIgnoresStealth && rc.isStealthed(p) {
			continue
		}
		eligible = append(eligible, p)
	}
	if len(eligible) == 0 {
		return nil
	}

	// Anti-oscillation: drop anyone hit in the last few rounds, unless that
	// would leave nobody.
	if t.MonsterTargetMemory > 0 && len(m.RecentTargets) > 0 {
		recent := make(map[string]bool, len(m.RecentTargets))
		for _, uuid := range m.RecentTargets {
			recent[uuid] = true
		}
		fresh := make([]*game.Player, 0, len(eligible))
		for _, p := range eligible {
			if !recent[p.PlayerUUID] {
				fresh = append(fresh, p)
			}
		}
		if len(fresh) > 0 {
			eligible = fresh
		}
	}

	best := make([]*game.Player, 0, 2)
	bestScore := 0.0
	for _, p := range eligible {
		score := m.Threat[p.PlayerUUID]
		if score < t.ThreatEpsilon {
			continue
		}
		switch {
		case len(best) == 0 || score > bestScore:
			best = append(best[:0], p)
			bestScore = score
		case score == bestScore:
			best = append(best, p)
		}
	}
	if len(best) == 0 {
		return rc.lowestHPTarget(eligible)
	}
	return best[rc.rng.Intn(len(best))]
}

func (rc *roundContext) lowestHPTarget(eligible []*game.Player) *game.Player {
	sort.SliceStable(eligible, func(i, j int) bool { return eligible[i].HP < eligible[j].HP })
	lowest := eligible[0].HP
	n := 0
	for n < len(eligible) && eligible[n].HP == lowest {
		n++
	}
	return eligible[rc.rng.Intn(n)]
}

// monsterAttack deals the age-scaled hit through the target's mitigation.
func (rc *roundContext) monsterAttack(target *game.Player) {
	t := rc.rl.Tuning
	m := &rc.g.Monster

	base := float64(t.MonsterBaseDamage) * (1 + t.MonsterAgeScaling*float64(m.Age))
	h := hit{base: math.Round(base), target: target, variance: 1}
	dmg := runPipeline(rc, damagePipeline, &h)
	rc.decayShieldsOnHit(target)

	target.Stats.TimesTargeted++
	// A fully mitigated hit stays out of the log, matching how player
	// attacks report; the attack still counts for the target window.
	if dmg > 0 {
		rc.add(game.Event{
			Kind:    game.EventMonster,
			Actor:   game.MonsterTargetID,
			Target:  target.PlayerUUID,
			Amount:  dmg,
			Message: fmt.Sprintf("The monster savages %s for %d damage.", target.PlayerName, dmg),
		})
		rc.lowerHP(target, dmg)
	}

	m.RecentTargets = append(m.RecentTargets, target.PlayerUUID)
	if t.MonsterTargetMemory > 0 && len(m.RecentTargets) > t.MonsterTargetMemory {
		m.RecentTargets = m.RecentTargets[len(m.RecentTargets)-t.MonsterTargetMemory:]
	}
}

// respawnMonster brings the adversary back at full strength with its age
// reset and every threat entry cut by the one-time death reduction.
func (rc *roundContext) respawnMonster() {
	m := &rc.g.Monster
	m.HP = m.MaxHP
	m.Age = 0
	m.RecentTargets = nil
	for uuid := range m.Threat {
		m.Threat[uuid] *= rc.rl.Tuning.ThreatDeathReduction
	}
	rc.add(game.Event{
		Kind:    game.EventMonster,
		Actor:   game.MonsterTargetID,
		Message: "The monster collapses... and another crawls from the dark, fresh and furious.",
	})
}

// decayThreat applies the per-round multiplicative decay and prunes entries
// below epsilon. Scores can never go negative here.
func (rc *roundContext) decayThreat() {
	t := rc.rl.Tuning
	m := &rc.g.Monster
	for uuid, score := range m.Threat {
		score *= t.ThreatDecay
		if score < t.ThreatEpsilon {
			delete(m.Threat, uuid)
			continue
		}
		m.Threat[uuid] = score
	}
}
