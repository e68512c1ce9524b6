package engine

import "github.com/zbonzo/Warlock-sub004/internal/game"

// EvaluateWinCondition inspects a session and reports the winner, if any.
// It is a pure read: callable before or after a round without side effects.
// Zero survivors is a draw; zero living warlocks is a hero victory; an
// all-warlock survivor set is a warlock victory.
func EvaluateWinCondition(g *game.Game) (winner string, finished bool) {
	alive := g.AliveCount()
	warlocks := g.AliveWarlockCount()
	switch {
	case alive == 0:
		return game.WinnerDraw, true
	case warlocks == 0:
		return game.WinnerHeroes, true
	case warlocks == alive:
		return game.WinnerWarlocks, true
	}
	return "", false
}
