package cmd

import (
	"sort"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// DefaultRegistry is the registry the bot dispatches from.
var DefaultRegistry = NewRegistry()

// Registry stores commands by name and alias. Names are case-insensitive.
// It does not dispatch; the bot looks commands up and runs them.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	aliases  map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds c under its name and, when it is Aliased, its aliases.
// A later command with the same name replaces the earlier one.
func (r *Registry) Register(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(c.Name())
	r.commands[name] = c
	if a, ok := As[Aliased](c); ok {
		for _, alias := range a.Aliases() {
			r.aliases[strings.ToLower(alias)] = name
		}
	}
}

// Get returns the command called name or aliased as name, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(name)
	if c, ok := r.commands[name]; ok {
		return c
	}
	if target, ok := r.aliases[name]; ok {
		return r.commands[target]
	}
	return nil
}

// All returns every command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

// Slash returns the definitions of every SlashProvider, sorted by name.
func (r *Registry) Slash() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range r.All() {
		if sp, ok := As[SlashProvider](c); ok {
			if def := sp.SlashDefinition(); def != nil {
				defs = append(defs, def)
			}
		}
	}
	return defs
}
