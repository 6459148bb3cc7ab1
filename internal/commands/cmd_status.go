package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

type groupReader interface {
	DisabledGroups(guildID string) ([]string, error)
}

type StatusCommand struct {
	registry *cmd.Registry
	groups   groupReader
}

func (c *StatusCommand) Name() string { return "cmd-status" }
func (c *StatusCommand) Description() string {
	return "Check which command groups are enabled or disabled"
}
func (c *StatusCommand) Aliases() []string { return []string{"groups"} }
func (c *StatusCommand) Group() string     { return groupCore }

func (c *StatusCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *StatusCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	hc := inv.Context

	disabledGroups, err := c.groups.DisabledGroups(hc.GuildID())
	if err != nil {
		return fmt.Errorf("read disabled groups: %w", err)
	}
	disabledMap := make(map[string]bool, len(disabledGroups))
	for _, g := range disabledGroups {
		disabledMap[g] = true
	}

	var enabled, disabled []string
	for _, group := range groups(c.registry) {
		if disabledMap[group] {
			disabled = append(disabled, fmt.Sprintf("`%s`", group))
		} else {
			enabled = append(enabled, fmt.Sprintf("`%s`", group))
		}
	}
	if len(disabled) == 0 {
		disabled = []string{"_none_"}
	}
	if len(enabled) == 0 {
		enabled = []string{"_none_"}
	}

	embed := &discordgo.MessageEmbed{
		Title: "Commands Status",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Disabled", Value: strings.Join(disabled, ", ")},
			{Name: "Enabled", Value: strings.Join(enabled, ", ")},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use cmd-toggle to manage groups. The core group can't be disabled.",
		},
	}
	_, err = hc.Reply(ctx, &hybrid.Response{Embeds: []*discordgo.MessageEmbed{embed}, Ephemeral: true})
	return err
}
