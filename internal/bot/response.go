package bot

import (
	"github.com/bwmarrin/discordgo"
)

type ResponseString struct {
	string
}
type ResponseEmbed struct {
	discordgo.MessageEmbed
}

type Response interface {
	Send(channelid string, discord Discord) error
}

func (response ResponseString) Send(channelid string, discord Discord) error {
	_, err := discord.ChannelMessageSend(channelid, response.string)
	return chatError(err, "could not send message to channel %s", channelid)
}

func (response ResponseEmbed) Send(channelid string, discord Discord) error {
	_, err := discord.ChannelMessageSendEmbed(channelid, &response.MessageEmbed)
	return chatError(err, "could not send embed to channel %s", channelid)
}

func (response ResponseString) String() string {
	return response.string
}
