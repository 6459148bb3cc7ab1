package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

const (
	appName        = "discord-hybrid"
	appDescription = "One set of commands for prefixed messages and slash commands."
	aboutBanner    = "./assets/about-banner.webp"
)

type AboutCommand struct {
	banner string
}

func (c *AboutCommand) Name() string        { return "about" }
func (c *AboutCommand) Description() string { return "Discover the origin of this bot" }
func (c *AboutCommand) Aliases() []string   { return []string{"info"} }
func (c *AboutCommand) Group() string       { return groupCore }

func (c *AboutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *AboutCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	embed := &discordgo.MessageEmbed{
		Title:       "ℹ️ About " + appName,
		Description: appDescription,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Repository", Value: "https://github.com/keshon/discord-hybrid"},
			{Name: "Release", Value: release(debug.ReadBuildInfo())},
		},
	}
	resp := &hybrid.Response{Embeds: []*discordgo.MessageEmbed{embed}, Ephemeral: true}

	// the banner is optional
	if f, err := os.Open(c.banner); err == nil {
		defer f.Close()
		name := filepath.Base(c.banner)
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + name}
		resp.Files = []*discordgo.File{{Name: name, Reader: f}}
	}

	_, err := inv.Context.Reply(ctx, resp)
	return err
}

// release describes the running build: module version, commit date and Go
// version, as far as the binary records them.
func release(info *debug.BuildInfo, ok bool) string {
	if !ok || info == nil {
		return "unknown"
	}

	version := info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	date := ""
	for _, s := range info.Settings {
		if s.Key == "vcs.time" {
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				date = t.Format("2006-01-02")
			}
		}
	}

	out := version
	if date != "" {
		out += " " + date
	}
	return fmt.Sprintf("%s (Go %s)", out, strings.TrimPrefix(info.GoVersion, "go"))
}
