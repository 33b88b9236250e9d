package bot

import (
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Use "red" color for the alerts
const color int = 0xCE1126

func NoGameToday() Response {
	return ResponseString{"@here There is no game scheduled today - see you tomorrow!"}
}

func GameToday(untilGame time.Duration) Response {

	hours := int(math.Round(untilGame.Hours()))
	content := fmt.Sprintf("@here I have detected that there is a game today. I will sleep for about %d hours, ", hours)
	content += "switch the channels and then finish sleeping until game time. See you later!"
	return ResponseString{content}
}

func GameEndedSwitchNow(cooldown time.Duration) Response {

	content := fmt.Sprintf("@here I have detected that today's game has ended and %s has passed. ", FormatHours(cooldown))
	content += "I will switch the channels now!"
	return ResponseString{content}
}

func GameEndedWaiting(cooldown time.Duration, remaining time.Duration) Response {

	content := "@here I have detected that today's game has ended. "
	content += fmt.Sprintf("I will be back in a maximum of %s (exactly - %d seconds) ", FormatHours(cooldown), int64(remaining.Seconds()))
	content += "to switch the channels back."
	return ResponseString{content}
}

func DailyClosed(gamedayChannel string, threshold time.Duration) Response {
	untilGame := "One hour"
	if threshold != time.Hour {
		untilGame = FormatHours(threshold)
	}
	return ResponseString{fmt.Sprintf("%s until game time - this channel is now **closed**. Please use %s!", untilGame, mention(gamedayChannel))}
}

func GamedayOpened(cooldown time.Duration) Response {
	return ResponseString{fmt.Sprintf("This channel is now **open** until about %s after the end of the game.", FormatHours(cooldown))}
}

func GamedayClosed(dailyChannel string) Response {
	return ResponseString{fmt.Sprintf("Game over - this channel is now **closed**. Please head back over to %s!", mention(dailyChannel))}
}

func DailyOpened() Response {
	return ResponseString{"This channel is now **open** until next game."}
}

func FatalAlert(err error) Response {

	embed := discordgo.MessageEmbed{
		Title:       "Channel manager stopped",
		Description: "The channels will not be switched until the bot is restarted.",
		Color:       color,
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Reason",
		Value:  fmt.Sprintf("`%s`", err),
		Inline: false,
	})
	return ResponseEmbed{embed}
}

// 2h30m0s becomes "2.5 hours"
func FormatHours(duration time.Duration) string {
	hours := duration.Hours()
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%s hours", trimFloat(hours))
}

func trimFloat(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d", int64(value))
	}
	return fmt.Sprintf("%.1f", value)
}
