package middleware

import (
	"context"
	"log"

	"github.com/keshon/discord-hybrid/pkg/cmd"
)

// WithGroupAccessCheck skips commands whose group the guild disabled.
func WithGroupAccessCheck(groups GroupStore) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			g, ok := cmd.As[cmd.Grouped](c)
			if !ok || g.Group() == "" || !inv.Context.InGuild() {
				return c.Run(ctx, inv)
			}

			disabled, err := groups.IsGroupDisabled(inv.Context.GuildID(), g.Group())
			if err != nil {
				log.Printf("[WARN] Group check for %s failed, allowing: %v", c.Name(), err)
				return c.Run(ctx, inv)
			}
			if disabled {
				notify(ctx, inv.Context, "This command is disabled on this server.\nUse `groups` to see which groups are disabled.")
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}
