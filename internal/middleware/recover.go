package middleware

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/keshon/discord-hybrid/pkg/cmd"
)

// WithRecover turns a panic inside the command into an error.
func WithRecover() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[ERR] Command %s panicked: %v\n%s", c.Name(), r, debug.Stack())
					err = fmt.Errorf("command %s panicked: %v", c.Name(), r)
				}
			}()
			return c.Run(ctx, inv)
		})
	}
}
