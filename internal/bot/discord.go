package bot

import (
	"gameday/internal/common"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
)

// The part of the discord session the bot needs.
// *discordgo.Session satisfies it
type Discord interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error
}

// Ids of everything the bot touches inside the guild
type Channels struct {
	Notifications string
	Alerts        string
	Daily         string
	Gameday       string
	Role          string
}

// Classify an error returned by discord.
// REST errors carry a status code, anything else is a problem reaching discord
func chatError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Wrapf(err, format, args...)
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return common.StatusError(restErr.Response.StatusCode, wrapped)
	}
	return common.Transient(wrapped)
}

func mention(channelId string) string {
	return "<#" + channelId + ">"
}
