package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

type PingCommand struct {
	latency func() time.Duration
}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Check bot latency" }
func (c *PingCommand) Aliases() []string   { return []string{"latency"} }
func (c *PingCommand) Group() string       { return groupCore }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

// Run answers first and then edits the answer with the measured round trip,
// so both origins go through the whole reply lifecycle.
func (c *PingCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	hc := inv.Context

	start := time.Now()
	if _, err := hc.ReplyContent(ctx, "🏓 Pinging..."); err != nil {
		return err
	}
	rtt := time.Since(start)

	msg := fmt.Sprintf("🏓 Pong! Round trip: `%dms`", rtt.Milliseconds())
	if c.latency != nil {
		msg += fmt.Sprintf(", gateway: `%dms`", c.latency().Milliseconds())
	}
	_, err := hc.EditReply(ctx, hybrid.Text(msg))
	return err
}
