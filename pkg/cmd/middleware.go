package cmd

import "context"

// Middleware decorates a command: logging, permission checks, recovery.
type Middleware func(Command) Command

// Apply wraps c with mws. The first middleware runs first.
func Apply(c Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}

// Func adapts a plain function to Command. Handy for small commands and tests.
type Func struct {
	CommandName        string
	CommandDescription string
	RunFunc            func(ctx context.Context, inv *Invocation) error
}

func (f *Func) Name() string        { return f.CommandName }
func (f *Func) Description() string { return f.CommandDescription }

func (f *Func) Run(ctx context.Context, inv *Invocation) error {
	if f.RunFunc == nil {
		return nil
	}
	return f.RunFunc(ctx, inv)
}
