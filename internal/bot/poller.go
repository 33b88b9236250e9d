package bot

import (
	"context"
	"fmt"
	"time"

	"gameday/internal/common"
	"gameday/internal/nhlapi"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ScheduleFetcher interface {
	GetSchedule(ctx context.Context, date time.Time) (nhlapi.Schedule, error)
}

// Poller checks the schedule of the day over and over, and switches
// the channels around the game
type Poller struct {
	schedule ScheduleFetcher
	switcher *Switcher
	discord  Discord
	channels Channels
	timings  Timings
	location *time.Location
	runOnce  bool
	now      func() time.Time
	sleep    func(ctx context.Context, duration time.Duration) error
}

// In run once mode the poller returns once the day is over (no game,
// or channels switched back after the game), and expects an external
// scheduler to start the process again the next day
func NewPoller(schedule ScheduleFetcher, switcher *Switcher, discord Discord, channels Channels, timings Timings, location *time.Location, runOnce bool) *Poller {

	if location == nil {
		location = time.Local
	}
	return &Poller{
		schedule: schedule,
		switcher: switcher,
		discord:  discord,
		channels: channels,
		timings:  timings,
		location: location,
		runOnce:  runOnce,
		now:      time.Now,
		sleep:    common.Sleep,
	}
}

// Run cycles until the context is done, a fatal error happens
// or the day is over in run once mode.
// Transient errors only cost one polling cycle
func (p *Poller) Run(ctx context.Context) error {

	for {
		done, err := p.Cycle(ctx)
		switch {
		case err == nil && done:
			log.Info().Msg("Day is over, stopping")
			return nil
		case err == nil:
			continue
		case ctx.Err() != nil:
			return ctx.Err()
		case common.IsTransient(err):
			log.Warn().Err(err).Msg(fmt.Sprintf("Cycle failed, trying again in %s", p.timings.SleepInGame))
			if err := p.sleep(ctx, p.timings.SleepInGame); err != nil {
				return err
			}
		default:
			log.Error().Err(err).Msg("Cycle failed with a fatal error")
			p.alert(err)
			return err
		}
	}
}

// Execute one cycle: fetch, decide, act and sleep.
// Returns true when the day is over in run once mode
func (p *Poller) Cycle(ctx context.Context) (bool, error) {

	logger := log.With().Str("cycle", uuid.New().String()).Logger()

	now := p.now()
	schedule, err := p.schedule.GetSchedule(ctx, now.In(p.location))
	if err != nil {
		return false, errors.Wrap(err, "could not get schedule")
	}

	plan := NewPlan(schedule, now, p.timings)
	logger.Info().Str("state", plan.State.String()).Msg(fmt.Sprintf("Schedule: %s", &schedule))

	switch plan.State {
	case NoGame:
		return p.noGame(ctx, logger, plan)
	case WaitingForGameStart:
		return false, p.waitForGame(ctx, logger, plan)
	case GameInProgress:
		return false, p.gameInProgress(ctx, logger, plan)
	case GameFinalCooldown:
		return p.gameOver(ctx, logger, plan)
	default:
		return false, errors.Newf("unexpected state %s", plan.State)
	}
}

func (p *Poller) noGame(ctx context.Context, logger zerolog.Logger, plan Plan) (bool, error) {

	logger.Info().Msg("No game scheduled today")
	if err := p.notify(ctx, NoGameToday()); err != nil {
		return false, err
	}
	if p.runOnce {
		return true, nil
	}
	logger.Info().Msg(fmt.Sprintf("Sleeping for %s and coming back tomorrow", plan.Sleep))
	return false, p.sleep(ctx, plan.Sleep)
}

func (p *Poller) waitForGame(ctx context.Context, logger zerolog.Logger, plan Plan) error {

	if err := p.notify(ctx, GameToday(plan.UntilGame)); err != nil {
		return err
	}

	logger.Info().Msg(fmt.Sprintf("Sleeping for %s (game time - %s) to switch the channels", plan.Sleep, p.timings.TimeThreshold))
	if err := p.sleep(ctx, plan.Sleep); err != nil {
		return err
	}
	if err := p.switcher.SwitchToGameday(ctx); err != nil {
		return err
	}

	logger.Info().Msg(fmt.Sprintf("Sleeping for %s to start checking again", plan.After))
	return p.sleep(ctx, plan.After)
}

func (p *Poller) gameInProgress(ctx context.Context, logger zerolog.Logger, plan Plan) error {

	// Started during the game with the daily channel still open
	daily, err := p.switcher.InMode(ctx, ModeDaily)
	if err != nil {
		return err
	}
	if daily {
		logger.Warn().Msg("Game in progress but the daily channel is open")
		if err := p.switcher.SwitchToGameday(ctx); err != nil {
			return err
		}
	}

	logger.Info().Msg(fmt.Sprintf("Game is not final, checking again in %s", plan.Sleep))
	return p.sleep(ctx, plan.Sleep)
}

func (p *Poller) gameOver(ctx context.Context, logger zerolog.Logger, plan Plan) (bool, error) {

	if plan.CooldownOver() {
		// Channels may have been switched back already before a restart
		daily, err := p.switcher.InMode(ctx, ModeDaily)
		if err != nil {
			return false, err
		}
		if daily {
			logger.Info().Msg("Game over and channels already switched back")
		} else {
			if err := p.notify(ctx, GameEndedSwitchNow(p.timings.SleepEndGame)); err != nil {
				return false, err
			}
		}
	} else {
		if err := p.notify(ctx, GameEndedWaiting(p.timings.SleepEndGame, plan.Sleep)); err != nil {
			return false, err
		}
		logger.Info().Msg(fmt.Sprintf("Game ended %s ago, sleeping for %s", plan.SinceEnd.Round(time.Second), plan.Sleep))
	}

	if err := p.sleep(ctx, plan.Sleep); err != nil {
		return false, err
	}
	if err := p.switcher.SwitchToDaily(ctx); err != nil {
		return false, err
	}

	if p.runOnce {
		return true, nil
	}
	logger.Info().Str("state", PostSwitchRefreshWait.String()).Msg(fmt.Sprintf("Channels are switched, sleeping for %s for the schedule to refresh", plan.After))
	return false, p.sleep(ctx, plan.After)
}

func (p *Poller) notify(ctx context.Context, response Response) error {
	return common.Retry(ctx, p.switcher.retry, "send notification", func() error {
		return response.Send(p.channels.Notifications, p.discord)
	})
}

// Best effort, the poller is stopping anyway
func (p *Poller) alert(err error) {
	if p.channels.Alerts == "" {
		return
	}
	if sendErr := FatalAlert(err).Send(p.channels.Alerts, p.discord); sendErr != nil {
		log.Error().Err(sendErr).Msg("Could not send alert")
	}
}
