package hybrid

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestOptionsResolve(t *testing.T) {
	i := slashInteraction("mod", &discordgo.ApplicationCommandInteractionDataOption{
		Name: "user",
		Type: discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name: "warn",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "target", Type: discordgo.ApplicationCommandOptionUser, Value: "u1"},
				{Name: "where", Type: discordgo.ApplicationCommandOptionChannel, Value: "c1"},
				{Name: "role", Type: discordgo.ApplicationCommandOptionRole, Value: "r1"},
				{Name: "days", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(7)},
				{Name: "ratio", Type: discordgo.ApplicationCommandOptionNumber, Value: 0.5},
				{Name: "silent", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
				{Name: "reason", Type: discordgo.ApplicationCommandOptionString, Value: "spam", Focused: true},
			},
		}},
	})
	data := i.Data.(discordgo.ApplicationCommandInteractionData)
	data.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{
		Users:    map[string]*discordgo.User{"u1": {ID: "u1", Username: "target"}},
		Members:  map[string]*discordgo.Member{"u1": {Nick: "t"}},
		Channels: map[string]*discordgo.Channel{"c1": {ID: "c1", Name: "rules"}},
		Roles:    map[string]*discordgo.Role{"r1": {ID: "r1", Name: "mods"}},
	}
	i.Data = data
	c := newInteractionContext(t, newFakeSession(), i)
	o := c.Options()

	if o.SubcommandGroup() != "user" || o.Subcommand() != "warn" || o.Len() != 7 {
		t.Fatalf("hoisting: group %q sub %q len %d", o.SubcommandGroup(), o.Subcommand(), o.Len())
	}
	if u, ok := o.User("target"); !ok || u.Username != "target" {
		t.Errorf("User() = %v, %v", u, ok)
	}
	if m, ok := o.Member("target"); !ok || m.Nick != "t" {
		t.Errorf("Member() = %v, %v", m, ok)
	}
	if ch, ok := o.Channel("where"); !ok || ch.Name != "rules" {
		t.Errorf("Channel() = %v, %v", ch, ok)
	}
	if r, ok := o.Role("role"); !ok || r.Name != "mods" {
		t.Errorf("Role() = %v, %v", r, ok)
	}
	if n, ok := o.Int("days"); !ok || n != 7 {
		t.Errorf("Int() = %d, %v", n, ok)
	}
	if f, ok := o.Float("ratio"); !ok || f != 0.5 {
		t.Errorf("Float() = %v, %v", f, ok)
	}
	if b, ok := o.Bool("silent"); !ok || !b {
		t.Errorf("Bool() = %v, %v", b, ok)
	}
	if s, ok := o.String("reason"); !ok || s != "spam" {
		t.Errorf("String() = %q, %v", s, ok)
	}
	if f, ok := o.Focused(); !ok || f.Name != "reason" {
		t.Errorf("Focused() = %v, %v", f, ok)
	}

	// wrong type or missing name
	if _, ok := o.String("days"); ok {
		t.Error("String() accepted an integer option")
	}
	if _, ok := o.User("where"); ok {
		t.Error("User() accepted a channel option")
	}
	if _, ok := o.Get("nope"); ok {
		t.Error("Get() found a missing option")
	}
}

func TestZeroOptions(t *testing.T) {
	var o Options
	if o.Len() != 0 || len(o.All()) != 0 {
		t.Error("zero Options is not empty")
	}
	if _, ok := o.Attachment("file"); ok {
		t.Error("zero Options resolved an attachment")
	}
}
