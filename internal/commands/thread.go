package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
)

const threadArchiveMinutes = 1440

type ThreadCommand struct{}

func (c *ThreadCommand) Name() string        { return "thread" }
func (c *ThreadCommand) Description() string { return "Start a thread here" }
func (c *ThreadCommand) Group() string       { return groupTools }

func (c *ThreadCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Thread name",
				MaxLength:   100,
			},
		},
	}
}

func (c *ThreadCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	hc := inv.Context

	name := textArg(inv, "name")
	if name == "" {
		name = "Thread"
		if u := hc.Author(); u != nil {
			name = "Thread by " + u.Username
		}
	}

	th, err := hc.StartThread(ctx, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: threadArchiveMinutes,
	})
	if err != nil {
		return fmt.Errorf("start thread: %w", err)
	}
	if th == nil {
		_, err = hc.ReplyEphemeral(ctx, "Threads can't be started in this channel.")
		return err
	}

	_, err = hc.ReplyEphemeral(ctx, fmt.Sprintf("🧵 Started <#%s>.", th.ID))
	return err
}
