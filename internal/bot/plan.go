package bot

import (
	"time"

	"gameday/internal/nhlapi"
)

// States the poller goes through during a day.
// They are derived again on every cycle, never stored
type PollerState int

const (
	NoGame PollerState = iota
	WaitingForGameStart
	GameInProgress
	GameFinalCooldown
	PostSwitchRefreshWait
)

var stateNames = map[PollerState]string{
	NoGame:                "no game",
	WaitingForGameStart:   "waiting for game start",
	GameInProgress:        "game in progress",
	GameFinalCooldown:     "game final cooldown",
	PostSwitchRefreshWait: "post switch refresh wait",
}

func (state PollerState) String() string {
	return stateNames[state]
}

// All the sleeps of the poller
type Timings struct {
	SleepNoGame   time.Duration // nothing to do until tomorrow
	SleepInGame   time.Duration // polling cycle while the game is on
	SleepEndGame  time.Duration // cooldown between the end of the game and the switch back
	SleepRefresh  time.Duration // after switching back, until the schedule changes day
	TimeThreshold time.Duration // how long before the game the gameday channel opens
}

func DefaultTimings() Timings {
	return Timings{
		SleepNoGame:   24 * time.Hour,
		SleepInGame:   10 * time.Minute,
		SleepEndGame:  150 * time.Minute,
		SleepRefresh:  10 * time.Hour,
		TimeThreshold: time.Hour,
	}
}

// What to do in one cycle.
// Sleep happens before the action of the state (switch), After once it is done
type Plan struct {
	State     PollerState
	Sleep     time.Duration
	After     time.Duration
	UntilGame time.Duration
	SinceEnd  time.Duration
}

// Decide what to do given the latest schedule and the current time.
// Every duration is a function of those two only
func NewPlan(schedule nhlapi.Schedule, now time.Time, timings Timings) Plan {

	if !schedule.HasGame() {
		return Plan{State: NoGame, Sleep: timings.SleepNoGame}
	}

	// Game still to come: wake up right before it to open the gameday channel
	if schedule.GameStart.After(now) {
		untilGame := schedule.GameStart.Sub(now)
		return Plan{
			State:     WaitingForGameStart,
			Sleep:     max(untilGame-timings.TimeThreshold, 0),
			After:     timings.TimeThreshold + timings.SleepInGame,
			UntilGame: untilGame,
		}
	}

	if schedule.State != nhlapi.Final {
		return Plan{State: GameInProgress, Sleep: timings.SleepInGame}
	}

	// Game over. If the cooldown already passed, typically because of a restart,
	// the switch happens right away
	sinceEnd := now.Sub(schedule.LastPeriodEnd)
	return Plan{
		State:    GameFinalCooldown,
		Sleep:    max(timings.SleepEndGame-sinceEnd, 0),
		After:    timings.SleepRefresh,
		SinceEnd: sinceEnd,
	}
}

func (plan Plan) CooldownOver() bool {
	return plan.State == GameFinalCooldown && plan.Sleep == 0
}
