package middleware

import (
	"context"

	"github.com/keshon/discord-hybrid/pkg/cmd"
)

// WithGuildOnly refuses to run the command in direct messages.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if !inv.Context.InGuild() {
				notify(ctx, inv.Context, "This command can only be used in a server.")
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}
