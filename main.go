// Gameday keeps two channels of a discord server in sync with the schedule of
// an NHL team: the daily channel is closed and the gameday channel opened one
// hour before the game, and it goes back the other way a while after the game.
//
// With RUN_ONCE=true the process exits once the day is over and must be
// started again every day by an external scheduler (cron, systemd timer).
package main

import (
	"context"
	"os"

	"gameday/internal/bot"
	"gameday/internal/common"
	"gameday/internal/config"
	"gameday/internal/nhlapi"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	ctx := context.Background()
	retry := common.NewRetryPolicy(cfg.FetchRetries)

	// Schedule API
	schedule := nhlapi.NewScheduleApi(cfg.NhlApiUrl, cfg.TeamId, cfg.ScheduleTimeout, retry)

	// Create bot
	b, err := bot.CreateBot(ctx, bot.BotConfig{
		Token:   cfg.DiscordToken,
		GuildId: cfg.GuildId,
		Channels: bot.Channels{
			Notifications: cfg.ChannelNotifications,
			Alerts:        cfg.ChannelTesting,
			Daily:         cfg.ChannelDaily,
			Gameday:       cfg.ChannelGameday,
			Role:          cfg.RoleEveryone,
		},
		DbFilename: cfg.DatabaseFile,
		Timings: bot.Timings{
			SleepNoGame:   cfg.SleepNoGame,
			SleepInGame:   cfg.SleepInGame,
			SleepEndGame:  cfg.SleepEndGame,
			SleepRefresh:  cfg.SleepRefresh,
			TimeThreshold: cfg.TimeThreshold,
		},
		Location: cfg.Location,
		Retry:    retry,
		RunOnce:  cfg.RunOnce,
	}, &schedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create discord bot")
	}

	// Run bot
	if err := b.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Bot stopped")
	}
}
