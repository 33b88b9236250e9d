package bot

import (
	"context"
	"fmt"
	"time"

	"gameday/internal/common"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// Where the last applied mode is remembered across restarts
type ModeStore interface {
	GetMode(ctx context.Context) (ModeRecord, bool, error)
	SetMode(ctx context.Context, mode ChannelMode, at time.Time) (ModeRecord, error)
}

// Switcher opens one of the two channels for the everyone role and closes the other.
// A switch is made of four remote steps, executed in order and retried one by one.
// The mode is only recorded once all of them succeeded
type Switcher struct {
	discord   Discord
	channels  Channels
	store     ModeStore
	retry     common.RetryPolicy
	threshold time.Duration
	cooldown  time.Duration
	now       func() time.Time
}

func NewSwitcher(discord Discord, channels Channels, store ModeStore, retry common.RetryPolicy, timings Timings) *Switcher {
	return &Switcher{
		discord:   discord,
		channels:  channels,
		store:     store,
		retry:     retry,
		threshold: timings.TimeThreshold,
		cooldown:  timings.SleepEndGame,
		now:       time.Now,
	}
}

func (sw *Switcher) SwitchToGameday(ctx context.Context) error {
	log.Info().Msg("Switching permissions to the gameday channel")
	return sw.switchTo(ctx, ModeGameday)
}

func (sw *Switcher) SwitchToDaily(ctx context.Context) error {
	log.Info().Msg("Switching permissions to the daily channel")
	return sw.switchTo(ctx, ModeDaily)
}

// Report whether the channels are known to be in the provided mode
func (sw *Switcher) InMode(ctx context.Context, mode ChannelMode) (bool, error) {
	if sw.store == nil {
		return false, nil
	}
	record, ok, err := sw.store.GetMode(ctx)
	if err != nil {
		return false, err
	}
	return ok && record.Mode == mode, nil
}

func (sw *Switcher) switchTo(ctx context.Context, mode ChannelMode) error {

	// Nothing to do if the channels were already switched before a restart
	already, err := sw.InMode(ctx, mode)
	if err != nil {
		return err
	}
	if already {
		log.Info().Msg(fmt.Sprintf("Channels are already in %s mode, nothing to do", mode))
		return nil
	}

	var closing, opening string
	var closingMessage, openingMessage Response
	switch mode {
	case ModeGameday:
		closing, opening = sw.channels.Daily, sw.channels.Gameday
		closingMessage, openingMessage = DailyClosed(sw.channels.Gameday, sw.threshold), GamedayOpened(sw.cooldown)
	case ModeDaily:
		closing, opening = sw.channels.Gameday, sw.channels.Daily
		closingMessage, openingMessage = GamedayClosed(sw.channels.Daily), DailyOpened()
	default:
		return errors.Newf("channel mode %q not understood", mode)
	}

	steps := []struct {
		what string
		run  func() error
	}{
		{fmt.Sprintf("announce closing of channel %s", closing), func() error { return closingMessage.Send(closing, sw.discord) }},
		{fmt.Sprintf("close channel %s", closing), func() error { return sw.setSendMessages(closing, false) }},
		{fmt.Sprintf("announce opening of channel %s", opening), func() error { return openingMessage.Send(opening, sw.discord) }},
		{fmt.Sprintf("open channel %s", opening), func() error { return sw.setSendMessages(opening, true) }},
	}
	for i, step := range steps {
		if err := common.Retry(ctx, sw.retry, step.what, step.run); err != nil {
			return errors.Wrapf(err, "switch to %s mode stopped at step %d of %d", mode, i+1, len(steps))
		}
	}

	if sw.store == nil {
		return nil
	}
	record, err := sw.store.SetMode(ctx, mode, sw.now())
	if err != nil {
		return err
	}
	log.Info().Str("transition", record.TransitionId.String()).Msg(fmt.Sprintf("Channels switched to %s mode", mode))
	return nil
}

// Overwrite the permissions of the everyone role on the channel
// so that it can or cannot send messages
func (sw *Switcher) setSendMessages(channelId string, allowed bool) error {

	var allow, deny int64
	if allowed {
		allow = discordgo.PermissionSendMessages
	} else {
		deny = discordgo.PermissionSendMessages
	}
	err := sw.discord.ChannelPermissionSet(channelId, sw.channels.Role, discordgo.PermissionOverwriteTypeRole, allow, deny)
	return chatError(err, "could not set permissions on channel %s", channelId)
}
