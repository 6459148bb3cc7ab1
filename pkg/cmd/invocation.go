// Package cmd is the command core shared by prefixed messages and slash
// commands. A command has a name, a description and Run; it reads its input
// and answers through the hybrid.Context it is handed and never needs to know
// which of the two invoked it. Registration with Discord is discovered through
// the optional provider interfaces below.
package cmd

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

// Invocation is one call of a command.
type Invocation struct {
	// Name is what the user typed, an alias for prefixed messages.
	Name string
	// Args holds the words after the name of a prefixed message. Slash
	// commands leave it empty and read Context.Options instead.
	Args []string
	// Context is the event the command answers.
	Context *hybrid.Context
}

// Command is the contract every command implements.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// SlashProvider commands are registered as application commands.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Aliased commands answer to extra names when invoked by message.
type Aliased interface {
	Aliases() []string
}

// Grouped commands belong to a named group shown in help and logs.
type Grouped interface {
	Group() string
}

// PermissionProvider commands require the member to hold at least one of
// the returned permission bits.
type PermissionProvider interface {
	UserPermissions() []int64
}

// As finds the first layer of c, outermost first, that implements T.
// Middleware hides provider interfaces behind Wrapped, so adapters use As
// instead of a plain type assertion.
func As[T any](c Command) (T, bool) {
	for c != nil {
		if v, ok := c.(T); ok {
			return v, true
		}
		u, ok := c.(Unwrappable)
		if !ok {
			break
		}
		c = u.Unwrap()
	}
	var zero T
	return zero, false
}
