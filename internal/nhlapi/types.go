package nhlapi

import (
	"fmt"
	"time"
)

// Coarse status of a game as provided by the API
type GameState string

const (
	Preview GameState = "Preview"
	Live    GameState = "Live"
	Final   GameState = "Final"
)

// Result of one schedule request. Only the first game of the day is described.
// Zero times mean the value was not present
type Schedule struct {
	TotalGames    int
	GameStart     time.Time
	State         GameState
	LastPeriodEnd time.Time
}

func (schedule *Schedule) HasGame() bool {
	return schedule.TotalGames > 0
}

func (schedule *Schedule) String() string {
	if !schedule.HasGame() {
		return "no games"
	}
	return fmt.Sprintf("%d game(s), first at %s (%s)", schedule.TotalGames, schedule.GameStart.Format(time.RFC3339), schedule.State)
}
