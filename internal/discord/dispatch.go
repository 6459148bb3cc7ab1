package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

const errorColor = 0xd9534f

// commandTimeout matches the lifetime of an interaction token.
const commandTimeout = 15 * time.Minute

// onMessageCreate takes messages from the raw event stream so the Context
// also sees payload fields discordgo does not decode.
func (b *Bot) onMessageCreate(s *discordgo.Session, e *discordgo.Event) {
	m, ok := e.Struct.(*discordgo.MessageCreate)
	if !ok || m.Author == nil || m.Author.Bot {
		return
	}

	name, args, ok := ParseCommand(m.Content, b.cfg.CommandPrefix, s.State.User.ID)
	if !ok {
		return
	}

	hc, err := hybrid.FromEvent(s, e)
	if err != nil {
		log.Println("[WARN] Dropping message:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	Dispatch(ctx, b.registry, &cmd.Invocation{Name: name, Args: args, Context: hc})
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		log.Printf("[DEBUG] Ignoring interaction type: %s", i.Type)
		return
	}

	hc, err := hybrid.FromInteractionCreate(s, i)
	if err != nil {
		log.Println("[WARN] Dropping interaction:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if !Dispatch(ctx, b.registry, &cmd.Invocation{Name: hc.CommandName(), Context: hc}) {
		log.Printf("[WARN] Unknown command: %s", hc.CommandName())
		if _, err := hc.ReplyEphemeral(ctx, "This command is no longer available."); err != nil {
			log.Println("[WARN] Failed to answer unknown command:", err)
		}
	}
}

// Dispatch runs the command called inv.Name and reports its error back to
// the user. It returns false when no such command exists.
func Dispatch(ctx context.Context, r *cmd.Registry, inv *cmd.Invocation) bool {
	c := r.Get(inv.Name)
	if c == nil {
		return false
	}

	if err := c.Run(ctx, inv); err != nil {
		log.Printf("[ERR] Error running command %s: %v", c.Name(), err)
		reportError(ctx, inv.Context, err)
	}
	return true
}

func reportError(ctx context.Context, hc *hybrid.Context, err error) {
	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Error running command: %v", err),
		Color:       errorColor,
	}
	if _, e := hc.Send(ctx, &hybrid.Response{Embeds: []*discordgo.MessageEmbed{embed}, Ephemeral: true}); e != nil {
		log.Printf("[WARN] Failed to report error in channel %s: %v", hc.ChannelID(), e)
	}
}

// ParseCommand splits a message that starts with prefix or a mention of the
// bot into the command name and its arguments.
func ParseCommand(content, prefix, botID string) (name string, args []string, ok bool) {
	content = strings.TrimSpace(content)

	switch {
	case prefix != "" && strings.HasPrefix(content, prefix):
		content = content[len(prefix):]
	case botID != "" && strings.HasPrefix(content, "<@"+botID+">"):
		content = strings.TrimPrefix(content, "<@"+botID+">")
	case botID != "" && strings.HasPrefix(content, "<@!"+botID+">"):
		content = strings.TrimPrefix(content, "<@!"+botID+">")
	default:
		return "", nil, false
	}

	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}
