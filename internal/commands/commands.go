// Package commands holds the bot's built-in commands. Each one is written
// once against hybrid.Context and serves both prefixed messages and slash
// commands.
package commands

import (
	"slices"
	"strings"
	"time"

	"github.com/keshon/discord-hybrid/internal/middleware"
	"github.com/keshon/discord-hybrid/internal/storage"
	"github.com/keshon/discord-hybrid/pkg/cmd"
)

const embedColor = 0xb01e66

const (
	groupCore  = "core"
	groupTools = "tools"
)

// Store is the persistence the commands and their middleware need.
type Store interface {
	middleware.HistoryStore
	middleware.GroupStore
	CommandHistory(guildID string) ([]storage.CommandHistoryRecord, error)
	DisableGroup(guildID, group string) error
	EnableGroup(guildID, group string) error
	DisabledGroups(guildID string) ([]string, error)
}

type Deps struct {
	Registry    *cmd.Registry
	Store       Store
	Prefix      string
	DeveloperID string
	// Latency reports the gateway heartbeat latency. Optional.
	Latency func() time.Duration
	// OnGroupToggle runs after a guild enabled or disabled a group. Optional.
	OnGroupToggle func(guildID, group string)
}

// Register wraps every built-in command with the standard middleware chain
// and adds it to d.Registry.
func Register(d Deps) {
	chain := func(extra ...cmd.Middleware) []cmd.Middleware {
		mws := []cmd.Middleware{
			middleware.WithRecover(),
			middleware.WithGroupAccessCheck(d.Store),
		}
		mws = append(mws, extra...)
		return append(mws,
			middleware.WithUserPermissionCheck(d.DeveloperID),
			middleware.WithCommandLogger(d.Store),
		)
	}
	anywhere := chain()
	guildOnly := chain(middleware.WithGuildOnly())

	for _, c := range []cmd.Command{
		&PingCommand{latency: d.Latency},
		&SayCommand{},
		&AttachmentsCommand{},
		&HelpCommand{registry: d.Registry, prefix: d.Prefix},
		&AboutCommand{banner: aboutBanner},
	} {
		d.Registry.Register(cmd.Apply(c, anywhere...))
	}

	for _, c := range []cmd.Command{
		&ThreadCommand{},
		&LogCommand{history: d.Store},
		&StatusCommand{registry: d.Registry, groups: d.Store},
		&ToggleCommand{registry: d.Registry, groups: d.Store, onToggle: d.OnGroupToggle},
	} {
		d.Registry.Register(cmd.Apply(c, guildOnly...))
	}
}

// textArg reads a free text argument: the named option of a slash command,
// or every word after the name of a prefixed message.
func textArg(inv *cmd.Invocation, option string) string {
	if inv.Context.IsInteraction() {
		s, _ := inv.Context.Options().String(option)
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.Join(inv.Args, " "))
}

// wordArg reads the n-th positional argument of a message, or the named
// option of a slash command.
func wordArg(inv *cmd.Invocation, option string, n int) string {
	if inv.Context.IsInteraction() {
		s, _ := inv.Context.Options().String(option)
		return s
	}
	if n < len(inv.Args) {
		return inv.Args[n]
	}
	return ""
}

// groups returns the distinct command groups known to r, sorted.
func groups(r *cmd.Registry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range r.All() {
		g, ok := cmd.As[cmd.Grouped](c)
		if !ok || g.Group() == "" || seen[g.Group()] {
			continue
		}
		seen[g.Group()] = true
		out = append(out, g.Group())
	}
	slices.Sort(out)
	return out
}
