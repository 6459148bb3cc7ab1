package hybrid

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/hybrid/hybridtest"
)

const (
	botID     = "100"
	authorID  = "200"
	guildID   = "300"
	channelID = "400"
	messageID = "500"
)

var _ Session = (*hybridtest.Session)(nil)

func newFakeSession() *hybridtest.Session { return hybridtest.NewSession(botID) }

// testState returns a cache holding one guild with one text channel, the bot
// and the author as members. @everyone may view, send and read history.
func testState(t *testing.T) *discordgo.State {
	t.Helper()
	st := discordgo.NewState()
	st.User = &discordgo.User{ID: botID, Username: "bot"}

	guild := &discordgo.Guild{
		ID:              guildID,
		Name:            "guild",
		OwnerID:         "owner",
		PreferredLocale: "de",
		Roles: []*discordgo.Role{{
			ID:          guildID,
			Name:        "@everyone",
			Permissions: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		}},
	}
	if err := st.GuildAdd(guild); err != nil {
		t.Fatalf("GuildAdd: %v", err)
	}
	if err := st.ChannelAdd(&discordgo.Channel{ID: channelID, GuildID: guildID, Name: "general", Type: discordgo.ChannelTypeGuildText}); err != nil {
		t.Fatalf("ChannelAdd: %v", err)
	}
	for _, u := range []*discordgo.User{st.User, {ID: authorID, Username: "author"}} {
		if err := st.MemberAdd(&discordgo.Member{GuildID: guildID, User: u}); err != nil {
			t.Fatalf("MemberAdd: %v", err)
		}
	}
	return st
}

func testMessage() *discordgo.Message {
	return &discordgo.Message{
		ID:        messageID,
		ChannelID: channelID,
		GuildID:   guildID,
		Content:   "!ping",
		Author:    &discordgo.User{ID: authorID, Username: "author"},
		Member:    &discordgo.Member{},
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func slashInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "175928847299117063",
		AppID:     botID,
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   guildID,
		ChannelID: channelID,
		Token:     "token",
		Version:   1,
		Locale:    discordgo.EnglishUS,
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: authorID, Username: "author"},
			Permissions: discordgo.PermissionSendMessages,
		},
		Data: discordgo.ApplicationCommandInteractionData{
			ID:          "cmd-1",
			Name:        name,
			CommandType: discordgo.ChatApplicationCommand,
			Options:     opts,
		},
	}
}

func newMessageContext(t *testing.T, s *hybridtest.Session) *Context {
	t.Helper()
	c, err := New(s, testState(t), Origin{Message: testMessage()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func newInteractionContext(t *testing.T, s *hybridtest.Session, i *discordgo.Interaction) *Context {
	t.Helper()
	c, err := New(s, testState(t), Origin{Interaction: i})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}
