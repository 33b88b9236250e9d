package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is read once at startup from the environment.
// A .env file in the working directory is loaded first if present
type Config struct {
	DiscordToken         string `validate:"required"`
	GuildId              string `validate:"required,numeric"`
	RoleEveryone         string `validate:"required,numeric"`
	ChannelNotifications string `validate:"required,numeric"`
	ChannelTesting       string `validate:"required,numeric"`
	ChannelDaily         string `validate:"required,numeric"`
	ChannelGameday       string `validate:"required,numeric"`

	NhlApiUrl       string `validate:"required,url"`
	TeamId          int    `validate:"gt=0"`
	Timezone        string
	Location        *time.Location
	ScheduleTimeout time.Duration `validate:"gt=0s"`
	FetchRetries    int           `validate:"gte=1"`

	SleepNoGame   time.Duration `validate:"gt=0s"`
	SleepInGame   time.Duration `validate:"gt=0s"`
	SleepEndGame  time.Duration `validate:"gte=0s"`
	SleepRefresh  time.Duration `validate:"gt=0s"`
	TimeThreshold time.Duration `validate:"gte=0s"`

	RunOnce      bool
	DatabaseFile string `validate:"required"`
	LogLevel     zerolog.Level
}

func Load() (Config, error) {

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "could not load .env file")
	}

	var err error
	var config Config

	config.DiscordToken = getEnv("DISCORD_TOKEN", "")
	config.GuildId = getEnv("DISCORD_GUILD", "")
	config.RoleEveryone = getEnv("DISCORD_ROLE_EVERYONE", "")
	config.ChannelNotifications = getEnv("DISCORD_CHANNEL_NOTIFICATIONS", "")
	config.ChannelTesting = getEnv("DISCORD_CHANNEL_TESTING", "")
	config.ChannelDaily = getEnv("DISCORD_CHANNEL_DEVILSDAILY", "")
	config.ChannelGameday = getEnv("DISCORD_CHANNEL_GAMEDAY", "")

	config.NhlApiUrl = getEnv("NHL_API_URL", "http://statsapi.web.nhl.com/api/v1")
	if config.TeamId, err = getEnvAsInt("NHL_TEAM_ID", 1); err != nil {
		return Config{}, err
	}
	config.Timezone = getEnv("SCHEDULE_TIMEZONE", "Local")
	if config.Location, err = time.LoadLocation(config.Timezone); err != nil {
		return Config{}, errors.Wrapf(err, "parse SCHEDULE_TIMEZONE")
	}
	if config.ScheduleTimeout, err = getEnvAsDuration("SCHEDULE_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if config.FetchRetries, err = getEnvAsInt("FETCH_RETRIES", 3); err != nil {
		return Config{}, err
	}

	// Sleep timers
	if config.SleepNoGame, err = getEnvAsDuration("SLEEP_NO_GAME", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if config.SleepInGame, err = getEnvAsDuration("SLEEP_IN_GAME", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if config.SleepEndGame, err = getEnvAsDuration("SLEEP_END_GAME", 150*time.Minute); err != nil {
		return Config{}, err
	}
	if config.SleepRefresh, err = getEnvAsDuration("SLEEP_REFRESH", 10*time.Hour); err != nil {
		return Config{}, err
	}
	if config.TimeThreshold, err = getEnvAsDuration("TIME_THRESHOLD", time.Hour); err != nil {
		return Config{}, err
	}

	if config.RunOnce, err = getEnvAsBool("RUN_ONCE", false); err != nil {
		return Config{}, err
	}
	config.DatabaseFile = getEnv("DATABASE_FILE", "data/gameday.db")
	if config.LogLevel, err = zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, errors.Wrap(err, "parse LOG_LEVEL")
	}

	if err := validator.New().Struct(config); err != nil {
		return Config{}, errors.Wrap(err, "invalid configuration")
	}
	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Wrapf(err, "parse %s", key)
	}
	return value, nil
}
