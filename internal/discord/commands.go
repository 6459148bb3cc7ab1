package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/retrylimit"
)

type commandAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

type hashStore interface {
	CommandHashes(guildID string) (map[string]string, error)
	SetCommandHashes(guildID string, hashes map[string]string) error
}

// syncer keeps the application commands Discord knows about in line with
// local definitions, skipping commands whose definition hash is unchanged.
type syncer struct {
	api     commandAPI
	hashes  hashStore
	limiter *retrylimit.AdaptiveLimiter
	appID   string
}

func (s *syncer) call(ctx context.Context, fn func() error) error {
	return retrylimit.WithRetry(ctx, fn, s.limiter)
}

// sync deletes remote commands missing from defs and creates the ones that
// changed or are missing remotely. An empty guildID syncs global commands.
func (s *syncer) sync(ctx context.Context, guildID string, defs []*discordgo.ApplicationCommand) error {
	var remote []*discordgo.ApplicationCommand
	err := s.call(ctx, func() error {
		var err error
		remote, err = s.api.ApplicationCommands(s.appID, guildID, discordgo.WithContext(ctx))
		return err
	})
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}

	cached, err := s.hashes.CommandHashes(guildID)
	if err != nil {
		log.Printf("[WARN] [%s] Command hashes unreadable, re-registering all: %v", guildID, err)
		cached = make(map[string]string)
	}

	wanted := make(map[string]*discordgo.ApplicationCommand, len(defs))
	for _, d := range defs {
		wanted[d.Name] = d
	}
	registered := make(map[string]bool, len(remote))

	var errs []error
	for _, rc := range remote {
		if _, ok := wanted[rc.Name]; ok {
			registered[rc.Name] = true
			continue
		}
		log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, rc.Name)
		err := s.call(ctx, func() error {
			return s.api.ApplicationCommandDelete(s.appID, guildID, rc.ID, discordgo.WithContext(ctx))
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", rc.Name, err))
			continue
		}
		delete(cached, rc.Name)
	}

	for _, d := range defs {
		h := hashCommand(d)
		if registered[d.Name] && cached[d.Name] == h {
			continue
		}
		err := s.call(ctx, func() error {
			_, err := s.api.ApplicationCommandCreate(s.appID, guildID, d, discordgo.WithContext(ctx))
			return err
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("register %s: %w", d.Name, err))
			delete(cached, d.Name)
			continue
		}
		log.Printf("[DONE] [%s] Registered: %s", guildID, d.Name)
		cached[d.Name] = h
	}

	for name := range cached {
		if _, ok := wanted[name]; !ok {
			delete(cached, name)
		}
	}
	if err := s.hashes.SetCommandHashes(guildID, cached); err != nil {
		errs = append(errs, fmt.Errorf("save command hashes: %w", err))
	}
	return errors.Join(errs...)
}

// definitions lists the slash definitions of r, minus the commands of the
// groups in disabled.
func definitions(r *cmd.Registry, disabled []string) []*discordgo.ApplicationCommand {
	off := make(map[string]bool, len(disabled))
	for _, g := range disabled {
		off[g] = true
	}

	var defs []*discordgo.ApplicationCommand
	for _, c := range r.All() {
		if g, ok := cmd.As[cmd.Grouped](c); ok && off[g.Group()] {
			continue
		}
		sp, ok := cmd.As[cmd.SlashProvider](c)
		if !ok {
			continue
		}
		def := sp.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}

// syncGuild registers the guild's slash commands, leaving out disabled
// groups.
func (b *Bot) syncGuild(ctx context.Context, appID, guildID string) error {
	disabled, err := b.storage.DisabledGroups(guildID)
	if err != nil {
		log.Printf("[WARN] [%s] Failed to read disabled groups: %v", guildID, err)
	}

	s := &syncer{api: b.dg, hashes: b.storage, limiter: b.limiter, appID: appID}
	if err := s.sync(ctx, guildID, definitions(b.registry, disabled)); err != nil {
		log.Printf("[ERR] [%s] Failed to register slash commands: %v", guildID, err)
		return err
	}
	log.Printf("[INFO] [%s] Slash commands in sync (rate %.1f/s)", guildID, b.limiter.CurrentLimit())
	return nil
}
