package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

type HelpCommand struct {
	registry *cmd.Registry
	prefix   string
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Get a list of available commands" }
func (c *HelpCommand) Aliases() []string   { return []string{"h", "commands"} }
func (c *HelpCommand) Group() string       { return groupCore }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HelpCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	embed := &discordgo.MessageEmbed{
		Title:       "Help",
		Description: c.render(),
		Color:       embedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Commands work as /slash commands, with the %q prefix or by mentioning the bot.", c.prefix),
		},
	}
	_, err := inv.Context.Reply(ctx, &hybrid.Response{Embeds: []*discordgo.MessageEmbed{embed}, Ephemeral: true})
	return err
}

// render lists the commands grouped by their group, in name order.
func (c *HelpCommand) render() string {
	byGroup := make(map[string][]cmd.Command)
	for _, command := range c.registry.All() {
		group := "other"
		if g, ok := cmd.As[cmd.Grouped](command); ok && g.Group() != "" {
			group = g.Group()
		}
		byGroup[group] = append(byGroup[group], command)
	}

	var b strings.Builder
	order := groups(c.registry)
	if _, ok := byGroup["other"]; ok {
		order = append(order, "other")
	}
	for _, group := range order {
		fmt.Fprintf(&b, "**%s**\n", group)
		for _, command := range byGroup[group] {
			fmt.Fprintf(&b, "`%s%s` - %s", c.prefix, command.Name(), command.Description())
			if a, ok := cmd.As[cmd.Aliased](command); ok && len(a.Aliases()) > 0 {
				fmt.Fprintf(&b, " _(aliases: %s)_", strings.Join(a.Aliases(), ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
