package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gameday/internal/common"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

const presence = "the channel permissions."

type Bot struct {
	token     string
	guildId   string
	channels  Channels
	database  DatabaseBot
	schedule  ScheduleFetcher
	timings   Timings
	location  *time.Location
	retry     common.RetryPolicy
	runOnce   bool
	ready     chan struct{}
	readyOnce sync.Once
}

type BotConfig struct {
	Token      string
	GuildId    string
	Channels   Channels
	DbFilename string
	Timings    Timings
	Location   *time.Location
	Retry      common.RetryPolicy
	RunOnce    bool
}

func CreateBot(ctx context.Context, config BotConfig, schedule ScheduleFetcher) (*Bot, error) {

	// Database with the last channel mode
	database, err := CreateDatabaseBot(ctx, config.DbFilename)
	if err != nil {
		return nil, err
	}
	if record, ok, err := database.GetMode(ctx); err != nil {
		database.Close()
		return nil, err
	} else if ok {
		log.Info().Str("transition", record.TransitionId.String()).Msg(fmt.Sprintf("Channels were last switched to %s mode at %s", record.Mode, record.ChangedAt.Format(time.RFC3339)))
	} else {
		log.Info().Msg("No channel mode recorded yet")
	}

	return &Bot{
		token:    config.Token,
		guildId:  config.GuildId,
		channels: config.Channels,
		database: database,
		schedule: schedule,
		timings:  config.Timings,
		location: config.Location,
		retry:    config.Retry,
		runOnce:  config.RunOnce,
		ready:    make(chan struct{}),
	}, nil
}

// Connect to discord and run the poller until the process is interrupted,
// the poller stops with a fatal error or the day is over in run once mode
func (bot *Bot) Run(ctx context.Context) error {

	defer bot.database.Close()

	// Create session
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return errors.Wrap(err, "could not create discord session")
	}
	discord.Identify.Intents = discordgo.IntentsGuilds

	// Event handler
	discord.AddHandler(bot.onReady)

	// Open session
	if err := discord.Open(); err != nil {
		return errors.Wrap(err, "could not open discord session")
	}
	defer discord.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wait until discord is ready before touching any channel
	select {
	case <-ctx.Done():
		log.Info().Msg("Interrupted before discord was ready")
		return nil
	case <-bot.ready:
	}

	switcher := NewSwitcher(discord, bot.channels, &bot.database, bot.retry, bot.timings)
	poller := NewPoller(bot.schedule, switcher, discord, bot.channels, bot.timings, bot.location, bot.runOnce)

	log.Info().Msg("Starting game state checks")
	err = poller.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("Interrupted, stopping")
		return nil
	}
	return err
}

func (bot *Bot) onReady(discord *discordgo.Session, ready *discordgo.Ready) {

	guildName := bot.guildId
	if guild, err := discord.State.Guild(bot.guildId); err == nil {
		guildName = guild.Name
	} else if guild, err := discord.Guild(bot.guildId); err == nil {
		guildName = guild.Name
	} else {
		log.Warn().Err(err).Msg(fmt.Sprintf("Could not find guild %s", bot.guildId))
	}
	log.Info().Msg(fmt.Sprintf("%s is connected to the %s server (id: %s)", ready.User.Username, guildName, bot.guildId))

	if err := discord.UpdateWatchStatus(0, presence); err != nil {
		log.Warn().Err(err).Msg("Could not update presence")
	}

	bot.readyOnce.Do(func() { close(bot.ready) })
}
