package hybrid

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Collectors listen on the gateway through Session.AddHandler. They watch
// the origin message together with the replies sent before the collector
// started, and stop when ctx ends.

// collect turns pushes from a gateway handler into a channel that is closed
// once ctx ends. register installs the handler and returns its remover.
func collect[T any](ctx context.Context, register func(push func(T)) func()) <-chan T {
	in := make(chan T)
	out := make(chan T)
	remove := register(func(v T) {
		select {
		case in <- v:
		case <-ctx.Done():
		}
	})
	go func() {
		defer close(out)
		defer remove()
		for {
			select {
			case v := <-in:
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// watchedMessages is the origin message id and the ids of sent replies.
func (c *Context) watchedMessages() map[string]bool {
	ids := map[string]bool{c.origin.Message.ID: true}
	for el := c.replies.Front(); el != nil; el = el.Next() {
		if el.Value != nil && el.Value.ID != "" {
			ids[el.Value.ID] = true
		}
	}
	return ids
}

// CollectMessageComponents streams button and select menu interactions on the
// message or its replies that pass filter (nil accepts all). The channel is
// closed when ctx ends. Interactions have no message to watch and get nil.
func (c *Context) CollectMessageComponents(ctx context.Context, filter func(*discordgo.Interaction) bool) <-chan *discordgo.Interaction {
	if c.kind != KindMessage {
		return nil
	}
	ids := c.watchedMessages()
	return collect(ctx, func(push func(*discordgo.Interaction)) func() {
		return c.s.AddHandler(func(_ *discordgo.Session, e *discordgo.InteractionCreate) {
			i := e.Interaction
			if i == nil || i.Type != discordgo.InteractionMessageComponent || i.Message == nil || !ids[i.Message.ID] {
				return
			}
			if filter == nil || filter(i) {
				push(i)
			}
		})
	})
}

// CollectReactions streams reactions added to the message or its replies
// that pass filter (nil accepts all). The channel is closed when ctx ends.
// Interactions get nil.
func (c *Context) CollectReactions(ctx context.Context, filter func(*discordgo.MessageReaction) bool) <-chan *discordgo.MessageReaction {
	if c.kind != KindMessage {
		return nil
	}
	ids := c.watchedMessages()
	return collect(ctx, func(push func(*discordgo.MessageReaction)) func() {
		return c.s.AddHandler(func(_ *discordgo.Session, e *discordgo.MessageReactionAdd) {
			r := e.MessageReaction
			if r == nil || !ids[r.MessageID] {
				return
			}
			if filter == nil || filter(r) {
				push(r)
			}
		})
	})
}

// AwaitMessageComponent waits for the first component interaction accepted
// by CollectMessageComponents. It returns ctx's error when ctx ends first,
// and nil for interactions.
func (c *Context) AwaitMessageComponent(ctx context.Context, filter func(*discordgo.Interaction) bool) (*discordgo.Interaction, error) {
	if c.kind != KindMessage {
		return nil, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	i, ok := <-c.CollectMessageComponents(ctx, filter)
	if !ok {
		return nil, ctx.Err()
	}
	return i, nil
}

// AwaitReactions gathers limit reactions accepted by CollectReactions. When ctx
// ends first it returns the reactions gathered so far with ctx's error. A
// limit below 1 gathers until ctx ends. Interactions return nil.
func (c *Context) AwaitReactions(ctx context.Context, limit int, filter func(*discordgo.MessageReaction) bool) ([]*discordgo.MessageReaction, error) {
	if c.kind != KindMessage {
		return nil, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var got []*discordgo.MessageReaction
	for r := range c.CollectReactions(ctx, filter) {
		got = append(got, r)
		if limit > 0 && len(got) >= limit {
			return got, nil
		}
	}
	return got, ctx.Err()
}

// AwaitModalSubmit waits for the invoking user to submit a modal in the
// interaction's channel, usually the one shown with ShowModal. filter may
// narrow it further, for example by custom id. Messages cannot show modals
// and return nil.
func (c *Context) AwaitModalSubmit(ctx context.Context, filter func(*discordgo.Interaction) bool) (*discordgo.Interaction, error) {
	if c.kind != KindInteraction {
		return nil, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	channelID := c.ChannelID()
	userID := ""
	if u := c.Author(); u != nil {
		userID = u.ID
	}
	submits := collect(ctx, func(push func(*discordgo.Interaction)) func() {
		return c.s.AddHandler(func(_ *discordgo.Session, e *discordgo.InteractionCreate) {
			i := e.Interaction
			if i == nil || i.Type != discordgo.InteractionModalSubmit || i.ChannelID != channelID {
				return
			}
			if u := interactionUser(i); u == nil || u.ID != userID {
				return
			}
			if filter == nil || filter(i) {
				push(i)
			}
		})
	})
	i, ok := <-submits
	if !ok {
		return nil, ctx.Err()
	}
	return i, nil
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
