package service

import (
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/logging"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

// HandleTimedOutGame applies timeout resolution for a single game.
// Behavior:
//   - nobody submitted this round -> finish the match for inactivity
//   - otherwise -> resolve the round as-is; players who missed the deadline
//     simply take no action this round
func HandleTimedOutGame(repo GameRepo, rl *rules.Rules, gg *game.Game, actionTimeout time.Duration) error {
	if gg.Status != game.StatusInProgress || gg.Phase != game.PhasePlanning {
		return nil
	}

	submitted := 0
	for i := range gg.Players {
		if gg.Players[i].Alive && gg.Players[i].HasSubmittedAction {
			submitted++
		}
	}

	if submitted == 0 {
		gg.Status = game.StatusFinished
		gg.Phase = game.PhaseResolved
		gg.Winner = ""
		gg.Message = "Match ended due to inactivity"
		gg.LastRoundSummary = "Round timed out: no player submitted an action within the allotted time."
		gg.StatsCounted = true
		gg.ActionDeadline = time.Time{}
		logging.Info("all players timed out; finishing game", logging.Fields{constants.LogFieldGameID: gg.ID})
		return repo.UpdateGame(gg)
	}

	logging.Info("resolving round with missing submissions", logging.Fields{
		constants.LogFieldGameID: gg.ID,
		constants.LogFieldRound:  gg.RoundCount + 1,
	})
	res, err := resolveCollectedRound(repo, rl, gg.ID, gg.RoundCount, actionTimeout)
	if err != nil {
		return err
	}
	// The resolver persisted its own authoritative copy; mirror it back so
	// the caller broadcasts resolved state, and never write gg over it.
	*gg = *res
	return nil
}
