package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/internal/storage"
	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
	"github.com/keshon/discord-hybrid/pkg/hybrid/hybridtest"
)

const (
	botID     = "100"
	userID    = "200"
	guildID   = "300"
	channelID = "400"
)

type testCommand struct {
	cmd.Func
	group string
	perms []int64
	ran   int
}

func (c *testCommand) Group() string            { return c.group }
func (c *testCommand) UserPermissions() []int64 { return c.perms }

func newTestCommand() *testCommand {
	tc := &testCommand{}
	tc.CommandName = "relay"
	tc.RunFunc = func(context.Context, *cmd.Invocation) error {
		tc.ran++
		return nil
	}
	return tc
}

type fakeStore struct {
	disabled map[string]bool
	records  []storage.CommandHistoryRecord
	guilds   []string
	err      error
}

func (f *fakeStore) IsGroupDisabled(guildID, group string) (bool, error) {
	return f.disabled[group], f.err
}

func (f *fakeStore) AppendCommand(guildID string, r storage.CommandHistoryRecord) error {
	f.guilds = append(f.guilds, guildID)
	f.records = append(f.records, r)
	return f.err
}

func interaction(guild string, perms int64, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	i := &discordgo.Interaction{
		ID:        "1",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   guild,
		ChannelID: channelID,
		Data:      discordgo.ApplicationCommandInteractionData{Name: "relay", Options: opts},
	}
	u := &discordgo.User{ID: userID, Username: "ann"}
	if guild != "" {
		i.Member = &discordgo.Member{User: u, Permissions: perms}
	} else {
		i.User = u
	}
	return i
}

func message(guild string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "500",
		ChannelID: channelID,
		GuildID:   guild,
		Content:   "!relay a b",
		Author:    &discordgo.User{ID: userID, Username: "ann"},
	}
}

func invoke(t *testing.T, s *hybridtest.Session, origin hybrid.Origin, c cmd.Command, args ...string) error {
	t.Helper()
	hc, err := hybrid.New(s, nil, origin)
	if err != nil {
		t.Fatalf("hybrid.New: %v", err)
	}
	return c.Run(context.Background(), &cmd.Invocation{Name: "relay", Args: args, Context: hc})
}

func TestWithGuildOnly(t *testing.T) {
	tests := []struct {
		name    string
		origin  hybrid.Origin
		wantRan int
	}{
		{"guild interaction", hybrid.Origin{Interaction: interaction(guildID, 0)}, 1},
		{"dm interaction", hybrid.Origin{Interaction: interaction("", 0)}, 0},
		{"guild message", hybrid.Origin{Message: message(guildID)}, 1},
		{"dm message", hybrid.Origin{Message: message("")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := hybridtest.NewSession(botID)
			tc := newTestCommand()
			if err := invoke(t, s, tt.origin, cmd.Apply(tc, WithGuildOnly())); err != nil {
				t.Fatalf("run: %v", err)
			}
			if tc.ran != tt.wantRan {
				t.Fatalf("expected %d runs, got %d", tt.wantRan, tc.ran)
			}
			if tt.wantRan == 0 && len(s.Calls) != 1 {
				t.Fatalf("expected one notice, got calls %v", s.Calls)
			}
		})
	}
}

func TestWithUserPermissionCheck(t *testing.T) {
	tests := []struct {
		name      string
		perms     int64
		required  []int64
		developer string
		wantRan   int
	}{
		{"no requirement", 0, nil, "", 1},
		{"has one of", discordgo.PermissionManageMessages, []int64{discordgo.PermissionBanMembers, discordgo.PermissionManageMessages}, "", 1},
		{"missing", discordgo.PermissionSendMessages, []int64{discordgo.PermissionManageGuild}, "", 0},
		{"administrator", discordgo.PermissionAdministrator, []int64{discordgo.PermissionManageGuild}, "", 1},
		{"developer", 0, []int64{discordgo.PermissionManageGuild}, userID, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := hybridtest.NewSession(botID)
			tc := newTestCommand()
			tc.perms = tt.required
			c := cmd.Apply(tc, WithUserPermissionCheck(tt.developer))

			if err := invoke(t, s, hybrid.Origin{Interaction: interaction(guildID, tt.perms)}, c); err != nil {
				t.Fatalf("run: %v", err)
			}
			if tc.ran != tt.wantRan {
				t.Fatalf("expected %d runs, got %d", tt.wantRan, tc.ran)
			}
			if tt.wantRan == 0 {
				resp := s.Responses[0]
				if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
					t.Fatal("expected an ephemeral notice")
				}
				if !strings.Contains(resp.Data.Embeds[0].Description, "Manage Server") {
					t.Fatalf("expected permission name in notice, got %q", resp.Data.Embeds[0].Description)
				}
			}
		})
	}
}

func TestWithUserPermissionCheckUnknownPermissions(t *testing.T) {
	tc := newTestCommand()
	tc.perms = []int64{discordgo.PermissionManageGuild}
	c := cmd.Apply(tc, WithUserPermissionCheck(""))

	// a guild message without a cache has no resolvable permissions
	err := invoke(t, hybridtest.NewSession(botID), hybrid.Origin{Message: message(guildID)}, c)
	if err == nil {
		t.Fatal("expected error")
	}
	if tc.ran != 0 {
		t.Fatal("command ran without known permissions")
	}
}

func TestWithGroupAccessCheck(t *testing.T) {
	store := &fakeStore{disabled: map[string]bool{"fun": true}}

	for _, group := range []string{"fun", "admin", ""} {
		tc := newTestCommand()
		tc.group = group
		c := cmd.Apply(tc, WithGroupAccessCheck(store))
		if err := invoke(t, hybridtest.NewSession(botID), hybrid.Origin{Message: message(guildID)}, c); err != nil {
			t.Fatalf("run: %v", err)
		}
		want := 1
		if group == "fun" {
			want = 0
		}
		if tc.ran != want {
			t.Fatalf("group %q: expected %d runs, got %d", group, want, tc.ran)
		}
	}
}

func TestWithCommandLogger(t *testing.T) {
	store := &fakeStore{}
	boom := errors.New("boom")
	tc := newTestCommand()
	tc.RunFunc = func(context.Context, *cmd.Invocation) error { return boom }
	c := cmd.Apply(tc, WithCommandLogger(store))

	err := invoke(t, hybridtest.NewSession(botID), hybrid.Origin{Message: message(guildID)}, c, "a", "b")
	if !errors.Is(err, boom) {
		t.Fatalf("expected command error, got %v", err)
	}

	opt := &discordgo.ApplicationCommandInteractionDataOption{Name: "text", Type: discordgo.ApplicationCommandOptionString, Value: "hi"}
	if err := invoke(t, hybridtest.NewSession(botID), hybrid.Origin{Interaction: interaction(guildID, 0, opt)}, c); !errors.Is(err, boom) {
		t.Fatalf("expected command error, got %v", err)
	}

	if len(store.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(store.records))
	}
	msg, ix := store.records[0], store.records[1]
	if msg.Origin != "message" || msg.Param != "a b" || msg.Username != "ann" || msg.Command != "relay" {
		t.Fatalf("unexpected message record %+v", msg)
	}
	if ix.Origin != "interaction" || ix.Param != "text:hi" || ix.UserID != userID {
		t.Fatalf("unexpected interaction record %+v", ix)
	}
	if store.guilds[0] != guildID {
		t.Fatalf("expected guild %s, got %s", guildID, store.guilds[0])
	}
}

func TestWithRecover(t *testing.T) {
	tc := newTestCommand()
	tc.RunFunc = func(context.Context, *cmd.Invocation) error { panic("kaboom") }
	c := cmd.Apply(tc, WithRecover())

	err := invoke(t, hybridtest.NewSession(botID), hybrid.Origin{Message: message(guildID)}, c)
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("expected panic as error, got %v", err)
	}
}
