package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

type AttachmentsCommand struct{}

func (c *AttachmentsCommand) Name() string        { return "attachments" }
func (c *AttachmentsCommand) Description() string { return "Describe the files sent with the command" }
func (c *AttachmentsCommand) Aliases() []string   { return []string{"files"} }
func (c *AttachmentsCommand) Group() string       { return groupTools }

func (c *AttachmentsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionAttachment,
				Name:        "file",
				Description: "File to describe",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionAttachment,
				Name:        "extra",
				Description: "Another file",
			},
		},
	}
}

func (c *AttachmentsCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	hc := inv.Context

	var files []*discordgo.MessageAttachment
	for a := range hc.Attachments().Values() {
		if a != nil {
			files = append(files, a)
		}
	}
	if len(files) == 0 {
		_, err := hc.ReplyEphemeral(ctx, "No attachments found.")
		return err
	}

	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "`%s` %s, %s\n", f.Filename, humanSize(f.Size), contentType(f))
	}
	_, err := hc.Reply(ctx, &hybrid.Response{
		Content: fmt.Sprintf("📎 %d attachment(s):\n%s", len(files), b.String()),
	})
	return err
}

func contentType(a *discordgo.MessageAttachment) string {
	if a.ContentType == "" {
		return "unknown type"
	}
	return a.ContentType
}

func humanSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
