package discord

import (
	"context"
	"log"
)

type SystemEventType string

const (
	SystemEventRefreshCommands SystemEventType = "refresh_commands"
)

type SystemEvent struct {
	Type    SystemEventType
	GuildID string
	Target  string
}

var systemEventBus = make(chan SystemEvent, 16)

func PublishSystemEvent(evt SystemEvent) {
	select {
	case systemEventBus <- evt:
	default:
		log.Printf("[WARN] System event bus full, dropping %s for %s", evt.Type, evt.GuildID)
	}
}

// RefreshGroup asks the bot to re-register the guild's commands after a
// group was toggled.
func RefreshGroup(guildID, group string) {
	PublishSystemEvent(SystemEvent{Type: SystemEventRefreshCommands, GuildID: guildID, Target: "group:" + group})
}

func (b *Bot) handleSystemEvents(ctx context.Context) {
	for {
		select {
		case ev := <-systemEventBus:
			switch ev.Type {
			case SystemEventRefreshCommands:
				log.Printf("[INFO] Refreshing commands for guild %s (target: %s)", ev.GuildID, ev.Target)
				if b.cfg.IsBlacklisted(ev.GuildID) || !b.cfg.InitSlashCommands {
					continue
				}
				b.startSync(b.dg.State.User.ID, ev.GuildID)
			}
		case <-ctx.Done():
			return
		}
	}
}
