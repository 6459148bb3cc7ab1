package hybrid

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

const everyonePerms = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory

func TestAppPermissionsFromCache(t *testing.T) {
	c := newMessageContext(t, newFakeSession())

	perms, ok := c.AppPermissions()
	if !ok {
		t.Fatal("AppPermissions() absent with a full cache")
	}
	if perms != everyonePerms {
		t.Errorf("AppPermissions() = %d, want %d", perms, everyonePerms)
	}
	if c.Pinnable() || c.Deletable() {
		t.Error("bot without Manage Messages reported Pinnable or Deletable")
	}
	if c.Editable() {
		t.Error("Editable() = true for a message the bot did not write")
	}
}

func TestAppPermissionsWithoutBotMember(t *testing.T) {
	st := testState(t)
	if err := st.MemberRemove(&discordgo.Member{GuildID: guildID, User: &discordgo.User{ID: botID}}); err != nil {
		t.Fatal(err)
	}
	c, err := New(newFakeSession(), st, Origin{Message: testMessage()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.AppPermissions(); ok {
		t.Error("AppPermissions() present without the bot member")
	}
	if !c.IsRepliable() {
		t.Error("unknown permissions should not block replies")
	}
}

func TestOwnBotMessage(t *testing.T) {
	st := testState(t)
	m := testMessage()
	m.Author = &discordgo.User{ID: botID}
	c, err := New(newFakeSession(), st, Origin{Message: m})
	if err != nil {
		t.Fatal(err)
	}
	if !c.Editable() || !c.Deletable() {
		t.Errorf("Editable() = %v, Deletable() = %v for the bot's own message", c.Editable(), c.Deletable())
	}
}

func TestMemberPermissions(t *testing.T) {
	c := newInteractionContext(t, newFakeSession(), slashInteraction("ping"))
	if p, ok := c.MemberPermissions(); !ok || p != discordgo.PermissionSendMessages {
		t.Errorf("interaction MemberPermissions() = %d, %v", p, ok)
	}

	m := newMessageContext(t, newFakeSession())
	if p, ok := m.MemberPermissions(); !ok || p != everyonePerms {
		t.Errorf("message MemberPermissions() = %d, %v", p, ok)
	}

	dm := testMessage()
	dm.GuildID = ""
	d, err := New(newFakeSession(), testState(t), Origin{Message: dm})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.MemberPermissions(); ok {
		t.Error("MemberPermissions() present in a DM")
	}
}

const newsChannelID = "401"

func TestMessageCapabilities(t *testing.T) {
	tests := []struct {
		name      string
		channel   string
		dm        bool
		own       bool
		moderator bool
		uncached  bool
		flags     discordgo.MessageFlags

		wantCrosspost, wantPin, wantDelete bool
	}{
		{name: "text channel moderator", channel: channelID, moderator: true, wantPin: true, wantDelete: true},
		{name: "text channel own", channel: channelID, own: true, wantDelete: true},
		{name: "news foreign moderator", channel: newsChannelID, moderator: true, wantCrosspost: true, wantPin: true, wantDelete: true},
		{name: "news foreign", channel: newsChannelID},
		{name: "news own", channel: newsChannelID, own: true, wantCrosspost: true, wantDelete: true},
		{name: "news already crossposted", channel: newsChannelID, own: true, flags: discordgo.MessageFlagsCrossPosted, wantDelete: true},
		{name: "news own bot uncached", channel: newsChannelID, own: true, uncached: true, wantDelete: true},
		{name: "news moderator bot uncached", channel: newsChannelID, moderator: true, uncached: true},
		{name: "direct message", channel: "dm", dm: true, wantPin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testState(t)
			if err := st.ChannelAdd(&discordgo.Channel{ID: newsChannelID, GuildID: guildID, Name: "news", Type: discordgo.ChannelTypeGuildNews}); err != nil {
				t.Fatal(err)
			}
			if tt.moderator {
				if err := st.RoleAdd(guildID, &discordgo.Role{ID: "mod", Name: "mod", Permissions: discordgo.PermissionManageMessages}); err != nil {
					t.Fatal(err)
				}
				if err := st.MemberAdd(&discordgo.Member{GuildID: guildID, User: st.User, Roles: []string{"mod"}}); err != nil {
					t.Fatal(err)
				}
			}
			if tt.uncached {
				if err := st.MemberRemove(&discordgo.Member{GuildID: guildID, User: st.User}); err != nil {
					t.Fatal(err)
				}
			}

			m := testMessage()
			m.ChannelID = tt.channel
			m.Flags = tt.flags
			if tt.dm {
				m.GuildID = ""
				m.Member = nil
			}
			if tt.own {
				m.Author = &discordgo.User{ID: botID}
			}
			c, err := New(newFakeSession(), st, Origin{Message: m})
			if err != nil {
				t.Fatal(err)
			}

			if got := c.Crosspostable(); got != tt.wantCrosspost {
				t.Errorf("Crosspostable() = %v, want %v", got, tt.wantCrosspost)
			}
			if got := c.Pinnable(); got != tt.wantPin {
				t.Errorf("Pinnable() = %v, want %v", got, tt.wantPin)
			}
			if got := c.Deletable(); got != tt.wantDelete {
				t.Errorf("Deletable() = %v, want %v", got, tt.wantDelete)
			}
		})
	}
}
