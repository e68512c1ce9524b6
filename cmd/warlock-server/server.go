package main

import (
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/zbonzo/Warlock-sub004/internal/game"
	"github.com/zbonzo/Warlock-sub004/internal/logging"
	"github.com/zbonzo/Warlock-sub004/internal/network"
	"github.com/zbonzo/Warlock-sub004/internal/rules"
	"github.com/zbonzo/Warlock-sub004/internal/service"
	"github.com/zbonzo/Warlock-sub004/internal/storage"
)

// startTimeoutScanner periodically resolves games whose action deadline has
// passed: idle players simply do not act, and a round with no submissions at
// all finishes the match for inactivity. Results are pushed to watchers.
func startTimeoutScanner(repo storage.Repository, rl *rules.Rules, actionTimeout time.Duration, b *network.Broadcaster) {
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			games, err := repo.FindTimedOutGames(now)
			if err != nil {
				logging.Error("timeout scanner failed", err, nil)
				continue
			}
			for _, short := range games {
				gg, err := repo.GetGameByID(short.ID)
				if err != nil {
					continue
				}
				if gg.Status != game.StatusInProgress || gg.Phase != game.PhasePlanning {
					continue
				}
				if err := service.HandleTimedOutGame(repo, rl, gg, actionTimeout); err != nil {
					logging.Error("failed to resolve timed-out game", err, logging.Fields{constants.LogFieldGameID: gg.ID})
					continue
				}
				b.Broadcast(gg.ID, map[string]interface{}{
					"round":   gg.RoundCount,
					"phase":   gg.Phase,
					"status":  gg.Status,
					"winner":  gg.Winner,
					"summary": gg.LastRoundSummary,
					"events":  gg.LastRoundEvents,
				})
			}
		}
	}()
}
