package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/keshon/discord-hybrid/internal/config"
	"github.com/keshon/discord-hybrid/internal/storage"
	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/jobmgr"
	"github.com/keshon/discord-hybrid/pkg/retrylimit"
)

// Bot connects the command registry to a Discord gateway session.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	registry *cmd.Registry
	limiter  *retrylimit.AdaptiveLimiter
	// background command syncs, one per guild
	jobs *jobmgr.Manager
	// ctx lives as long as Run
	ctx context.Context
}

func NewBot(cfg *config.Config, store *storage.Storage, registry *cmd.Registry) *Bot {
	rps := rate.Limit(cfg.RegisterRPS)
	return &Bot{
		cfg:      cfg,
		storage:  store,
		registry: registry,
		limiter:  retrylimit.NewAdaptiveLimiter(rps, 1, rps*4, 1, 0.5),
		jobs: jobmgr.NewManager(func(msg string) {
			log.Println("[DEBUG] Job", msg)
		}),
		ctx: context.Background(),
	}
}

// Run opens the gateway session and blocks until ctx ends.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg
	b.ctx = ctx

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	go b.handleSystemEvents(ctx)

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	b.jobs.StopAll()
	return nil
}

// Latency is the gateway heartbeat latency, zero before the first heartbeat.
func (b *Bot) Latency() time.Duration {
	if b.dg == nil {
		return 0
	}
	return b.dg.HeartbeatLatency()
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, g := range r.Guilds {
		b.leaveIfBlacklisted(s, g.ID)
	}
	if !b.cfg.InitSlashCommands {
		log.Println("[INFO] Registering slash commands skipped")
	}
	log.Printf("[INFO] ✅ Discord bot %v is running.", r.User.Username)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot is in guild: %s (%s)", g.Guild.ID, g.Guild.Name)
	if b.leaveIfBlacklisted(s, g.Guild.ID) {
		return
	}
	if b.cfg.InitSlashCommands {
		b.startSync(s.State.User.ID, g.Guild.ID)
	}
}

// startSync registers the guild's commands in the background unless a sync
// for it is already running.
func (b *Bot) startSync(appID, guildID string) {
	err := b.jobs.StartAsync(b.ctx, "sync:"+guildID, func(ctx context.Context) error {
		return b.syncGuild(ctx, appID, guildID)
	})
	if errors.Is(err, jobmgr.ErrRunning) {
		log.Printf("[DEBUG] [%s] Command sync already running", guildID)
	}
}

func (b *Bot) leaveIfBlacklisted(s *discordgo.Session, guildID string) bool {
	if !b.cfg.IsBlacklisted(guildID) {
		return false
	}
	log.Printf("[INFO] Leaving blacklisted guild: %s", guildID)
	if err := s.GuildLeave(guildID); err != nil {
		log.Printf("[ERR] Failed to leave guild %s: %v", guildID, err)
	}
	return true
}
