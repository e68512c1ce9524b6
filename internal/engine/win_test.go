package engine

import (
	"testing"

	"github.com/zbonzo/Warlock-sub004/internal/game"
)

func TestEvaluateWinCondition(t *testing.T) {
	mk := func(states ...[2]bool) *game.Game {
		g := &game.Game{}
		for i, s := range states {
			p := game.Player{PlayerUUID: string(rune('a' + i)), Alive: s[0], Allegiance: game.AllegianceHero}
			if s[1] {
				p.Allegiance = game.AllegianceWarlock
			}
			g.Players = append(g.Players, p)
		}
		return g
	}

	cases := []struct {
		name     string
		g        *game.Game
		winner   string
		finished bool
	}{
		{"mixed survivors keep playing", mk([2]bool{true, false}, [2]bool{true, true}), "", false},
		{"no warlocks left", mk([2]bool{true, false}, [2]bool{false, true}), game.WinnerHeroes, true},
		{"all survivors corrupted", mk([2]bool{false, false}, [2]bool{true, true}), game.WinnerWarlocks, true},
		{"nobody left", mk([2]bool{false, false}, [2]bool{false, true}), game.WinnerDraw, true},
		{"heroes win even with zero alive heroes impossible case", mk([2]bool{false, false}), game.WinnerDraw, true},
	}
	for _, tc := range cases {
		winner, finished := EvaluateWinCondition(tc.g)
		if winner != tc.winner || finished != tc.finished {
			t.Fatalf("%s: got (%q, %v), want (%q, %v)", tc.name, winner, finished, tc.winner, tc.finished)
		}
	}
}

func TestWinEvaluatorIsPure(t *testing.T) {
	g := &game.Game{Players: []game.Player{
		{PlayerUUID: "p1", Alive: true, HP: 50, Allegiance: game.AllegianceHero},
		{PlayerUUID: "p2", Alive: true, HP: 50, Allegiance: game.AllegianceWarlock},
	}}
	EvaluateWinCondition(g)
	for i := range g.Players {
		if !g.Players[i].Alive || g.Players[i].HP != 50 {
			t.Fatal("win evaluation must not mutate state")
		}
	}
	if g.Status != "" || g.Winner != "" {
		t.Fatal("win evaluation must not touch session status")
	}
}