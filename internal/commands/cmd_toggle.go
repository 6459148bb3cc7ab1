package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

type groupWriter interface {
	DisableGroup(guildID, group string) error
	EnableGroup(guildID, group string) error
}

type ToggleCommand struct {
	registry *cmd.Registry
	groups   groupWriter
	onToggle func(guildID, group string)
}

func (c *ToggleCommand) Name() string        { return "cmd-toggle" }
func (c *ToggleCommand) Description() string { return "Enable or disable a group of commands" }
func (c *ToggleCommand) Aliases() []string   { return []string{"toggle"} }
func (c *ToggleCommand) Group() string       { return groupCore }

func (c *ToggleCommand) UserPermissions() []int64 {
	return []int64{discordgo.PermissionManageGuild}
}

func (c *ToggleCommand) SlashDefinition() *discordgo.ApplicationCommand {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, g := range groups(c.registry) {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: g, Value: g})
	}

	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "group",
				Description: "Command group to toggle",
				Required:    true,
				Choices:     choices,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "state",
				Description: "Enable or disable",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Enable", Value: "enable"},
					{Name: "Disable", Value: "disable"},
				},
			},
		},
	}
}

func (c *ToggleCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	hc := inv.Context
	guildID := hc.GuildID()

	group := strings.ToLower(wordArg(inv, "group", 0))
	state := strings.ToLower(wordArg(inv, "state", 1))

	known := groups(c.registry)
	if !slices.Contains(known, group) || (state != "enable" && state != "disable") {
		_, err := hc.ReplyEphemeral(ctx, fmt.Sprintf(
			"Usage: `cmd-toggle <group> <enable|disable>`\nGroups: `%s`", strings.Join(known, "`, `")))
		return err
	}
	if group == groupCore && state == "disable" {
		_, err := hc.ReplyEphemeral(ctx, "You can't disable the `core` group. It's the backbone of the bot.")
		return err
	}

	var err error
	if state == "disable" {
		err = c.groups.DisableGroup(guildID, group)
	} else {
		err = c.groups.EnableGroup(guildID, group)
	}
	if err != nil {
		return fmt.Errorf("%s group %s: %w", state, group, err)
	}

	if c.onToggle != nil {
		c.onToggle(guildID, group)
	}

	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Group `%s` %sd.", group, state),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Use cmd-status to check which groups are disabled."},
	}
	_, err = hc.Reply(ctx, &hybrid.Response{Embeds: []*discordgo.MessageEmbed{embed}, Ephemeral: true})
	return err
}
