package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/discord-hybrid/internal/commands"
	"github.com/keshon/discord-hybrid/internal/config"
	"github.com/keshon/discord-hybrid/internal/discord"
	"github.com/keshon/discord-hybrid/internal/storage"
	"github.com/keshon/discord-hybrid/pkg/cmd"
)

func main() {
	log.Println("[INFO] Starting discord-hybrid bot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal("[ERR] ", err)
	}

	store, err := storage.New(ctx, cfg.StoragePath)
	if err != nil {
		log.Fatal("[ERR] ", err)
	}
	defer store.Close()

	bot := discord.NewBot(cfg, store, cmd.DefaultRegistry)
	commands.Register(commands.Deps{
		Registry:      cmd.DefaultRegistry,
		Store:         store,
		Prefix:        cfg.CommandPrefix,
		DeveloperID:   cfg.DeveloperID,
		Latency:       bot.Latency,
		OnGroupToggle: discord.RefreshGroup,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
