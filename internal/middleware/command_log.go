package middleware

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/keshon/discord-hybrid/internal/storage"
	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

// WithCommandLogger records every run in the guild's command history once
// the command returns, whatever its outcome.
func WithCommandLogger(history HistoryStore) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			err := c.Run(ctx, inv)

			record := historyRecord(c.Name(), inv)
			if e := history.AppendCommand(inv.Context.GuildID(), record); e != nil {
				log.Printf("[WARN] Failed to log command %s: %v", c.Name(), e)
			}
			return err
		})
	}
}

func historyRecord(name string, inv *cmd.Invocation) storage.CommandHistoryRecord {
	hc := inv.Context
	record := storage.CommandHistoryRecord{
		ChannelID: hc.ChannelID(),
		Command:   name,
		Param:     param(inv),
		Origin:    hc.Kind().String(),
		Datetime:  time.Now(),
	}
	if u := hc.Author(); u != nil {
		record.UserID = u.ID
		record.Username = u.Username
	}
	if ch := hc.Channel(); ch != nil {
		record.ChannelName = ch.Name
	}
	if g := hc.Guild(); g != nil {
		record.GuildName = g.Name
	}
	return record
}

// param is what followed the command name: message arguments, or the
// options of a slash command.
func param(inv *cmd.Invocation) string {
	if inv.Context.Kind() == hybrid.KindMessage {
		return strings.Join(inv.Args, " ")
	}
	parts := strings.Fields(inv.Context.Content())
	if len(parts) <= 1 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}
