package bot

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"gameday/internal/common"
	"gameday/internal/nhlapi"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testChannels = Channels{
	Notifications: "100",
	Alerts:        "101",
	Daily:         "200",
	Gameday:       "300",
	Role:          "900",
}

var fastRetry = common.RetryPolicy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

type sentMessage struct {
	channel string
	content string
	embed   *discordgo.MessageEmbed
}

// Records what the bot does on discord. Permissions are tracked per channel
// as whether the role can send messages
type fakeDiscord struct {
	messages        []sentMessage
	canSend         map[string]bool
	targets         []string
	permissionCalls int
	failSends       []error
	failPermissions []error
}

func newFakeDiscord() *fakeDiscord {
	return &fakeDiscord{canSend: map[string]bool{testChannels.Daily: true, testChannels.Gameday: false}}
}

func (d *fakeDiscord) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := pop(&d.failSends); err != nil {
		return nil, err
	}
	d.messages = append(d.messages, sentMessage{channel: channelID, content: content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (d *fakeDiscord) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := pop(&d.failSends); err != nil {
		return nil, err
	}
	d.messages = append(d.messages, sentMessage{channel: channelID, embed: embed})
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (d *fakeDiscord) ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error {
	d.permissionCalls++
	if err := pop(&d.failPermissions); err != nil {
		return err
	}
	d.targets = append(d.targets, targetID)
	d.canSend[channelID] = allow&discordgo.PermissionSendMessages != 0 && deny&discordgo.PermissionSendMessages == 0
	return nil
}

func (d *fakeDiscord) contents(channel string) []string {
	contents := []string{}
	for _, message := range d.messages {
		if message.channel == channel && message.embed == nil {
			contents = append(contents, message.content)
		}
	}
	return contents
}

func (d *fakeDiscord) embeds(channel string) []*discordgo.MessageEmbed {
	embeds := []*discordgo.MessageEmbed{}
	for _, message := range d.messages {
		if message.channel == channel && message.embed != nil {
			embeds = append(embeds, message.embed)
		}
	}
	return embeds
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func restError(status int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: status, Status: http.StatusText(status)}}
}

type scheduleMock struct {
	mock.Mock
}

func (m *scheduleMock) GetSchedule(ctx context.Context, date time.Time) (nhlapi.Schedule, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(nhlapi.Schedule), args.Error(1)
}

func newTestDatabase(t *testing.T) *DatabaseBot {
	t.Helper()
	db, err := CreateDatabaseBot(context.Background(), filepath.Join(t.TempDir(), "gameday.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &db
}

func mustParse(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return parsed
}
