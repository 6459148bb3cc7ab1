package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/internal/storage"
	"github.com/keshon/discord-hybrid/pkg/cmd"
)

const (
	discordMaxMessageLength = 2000
	codeLeftBlockWrapper    = "```md"
	codeRightBlockWrapper   = "```"
)

var maxContentLength = discordMaxMessageLength - len(codeLeftBlockWrapper) - len(codeRightBlockWrapper) - 2

type historyReader interface {
	CommandHistory(guildID string) ([]storage.CommandHistoryRecord, error)
}

type LogCommand struct {
	history historyReader
}

func (c *LogCommand) Name() string        { return "cmd-log" }
func (c *LogCommand) Description() string { return "Review recently used commands" }
func (c *LogCommand) Aliases() []string   { return []string{"log"} }
func (c *LogCommand) Group() string       { return groupCore }

func (c *LogCommand) UserPermissions() []int64 {
	return []int64{discordgo.PermissionManageGuild}
}

func (c *LogCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *LogCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	hc := inv.Context

	records, err := c.history.CommandHistory(hc.GuildID())
	if err != nil {
		return fmt.Errorf("read command history: %w", err)
	}
	if len(records) == 0 {
		_, err := hc.ReplyEphemeral(ctx, "No command logs found.")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-19s\t%-15s\t%-12s\t%s\n", "# Datetime", "# Username", "# Channel", "# Command")

	// newest first
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		line := fmt.Sprintf(
			"%-19s\t%-15s\t#%-12s\t%s\n",
			r.Datetime.Format("2006-01-02 15:04:05"),
			r.Username,
			r.ChannelName,
			commandLine(r),
		)
		if b.Len()+len(line) > maxContentLength {
			break
		}
		b.WriteString(line)
	}

	_, err = hc.ReplyEphemeral(ctx, codeLeftBlockWrapper+"\n"+b.String()+codeRightBlockWrapper)
	return err
}

func commandLine(r storage.CommandHistoryRecord) string {
	sigil := "/"
	if r.Origin == "message" {
		sigil = "!"
	}
	if r.Param == "" {
		return sigil + r.Command
	}
	return sigil + r.Command + " " + r.Param
}
