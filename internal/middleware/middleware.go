// Package middleware holds the command decorators the bot applies to every
// command. They read the invocation through hybrid.Context, so one code path
// serves prefixed messages and slash commands alike.
package middleware

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/internal/storage"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

// HistoryStore records command runs.
type HistoryStore interface {
	AppendCommand(guildID string, record storage.CommandHistoryRecord) error
}

// GroupStore tells which command groups a guild switched off.
type GroupStore interface {
	IsGroupDisabled(guildID, group string) (bool, error)
}

// notify tells the invoking user msg, privately where Discord allows it.
func notify(ctx context.Context, hc *hybrid.Context, msg string) {
	_, err := hc.Send(ctx, &hybrid.Response{
		Embeds:    []*discordgo.MessageEmbed{{Description: msg}},
		Ephemeral: true,
	})
	if err != nil {
		log.Printf("[WARN] Failed to notify %s in channel %s: %v", hc.Kind(), hc.ChannelID(), err)
	}
}
