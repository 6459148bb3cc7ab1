package hybrid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// The operations below only exist for messages. On an interaction they do
// nothing and report false or nil without an error.

// Pin pins the message. reason goes to the audit log when not empty.
func (c *Context) Pin(ctx context.Context, reason string) (bool, error) {
	if c.kind != KindMessage {
		return false, nil
	}
	m := c.origin.Message
	if err := c.s.ChannelMessagePin(m.ChannelID, m.ID, auditOptions(ctx, reason)...); err != nil {
		return false, err
	}
	return true, nil
}

// Unpin unpins the message.
func (c *Context) Unpin(ctx context.Context, reason string) (bool, error) {
	if c.kind != KindMessage {
		return false, nil
	}
	m := c.origin.Message
	if err := c.s.ChannelMessageUnpin(m.ChannelID, m.ID, auditOptions(ctx, reason)...); err != nil {
		return false, err
	}
	return true, nil
}

// React adds emoji to the message. Custom emojis use the "name:id" form.
func (c *Context) React(ctx context.Context, emoji string) (bool, error) {
	if c.kind != KindMessage {
		return false, nil
	}
	m := c.origin.Message
	if err := c.s.MessageReactionAdd(m.ChannelID, m.ID, emoji, discordgo.WithContext(ctx)); err != nil {
		return false, err
	}
	return true, nil
}

// Edit changes the message itself. Only the bot's own messages can be edited.
func (c *Context) Edit(ctx context.Context, r *Response) (*discordgo.Message, error) {
	if c.kind != KindMessage {
		return nil, nil
	}
	m := c.origin.Message
	return c.s.ChannelMessageEditComplex(orEmpty(r).messageEdit(m.ChannelID, m.ID), discordgo.WithContext(ctx))
}

// RemoveAttachments strips every attachment from the message.
func (c *Context) RemoveAttachments(ctx context.Context) (*discordgo.Message, error) {
	if c.kind != KindMessage {
		return nil, nil
	}
	m := c.origin.Message
	edit := discordgo.NewMessageEdit(m.ChannelID, m.ID)
	edit.Attachments = &[]*discordgo.MessageAttachment{}
	return c.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
}

// flagsEdit is a message PATCH body whose flags field is sent even when zero.
// discordgo.MessageEdit omits it then, which leaves the flags untouched.
type flagsEdit struct {
	Flags discordgo.MessageFlags `json:"flags"`
}

// SuppressEmbeds hides or restores the link embeds of the message.
func (c *Context) SuppressEmbeds(ctx context.Context, suppress bool) (*discordgo.Message, error) {
	if c.kind != KindMessage {
		return nil, nil
	}
	m := c.origin.Message
	flags := m.Flags &^ discordgo.MessageFlagsSuppressEmbeds
	if suppress {
		flags |= discordgo.MessageFlagsSuppressEmbeds
	}
	body, err := c.s.RequestWithBucketID(http.MethodPatch,
		discordgo.EndpointChannelMessage(m.ChannelID, m.ID),
		flagsEdit{Flags: flags},
		discordgo.EndpointChannelMessage(m.ChannelID, ""),
		discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	var edited discordgo.Message
	if err := discordgo.Unmarshal(body, &edited); err != nil {
		return nil, fmt.Errorf("decode edited message: %w", err)
	}
	return &edited, nil
}

// Crosspost publishes an announcement channel message to following channels.
func (c *Context) Crosspost(ctx context.Context) (*discordgo.Message, error) {
	if c.kind != KindMessage {
		return nil, nil
	}
	m := c.origin.Message
	return c.s.ChannelMessageCrosspost(m.ChannelID, m.ID, discordgo.WithContext(ctx))
}

// Delete deletes the message itself, not a reply.
func (c *Context) Delete(ctx context.Context) (bool, error) {
	if c.kind != KindMessage {
		return false, nil
	}
	m := c.origin.Message
	if err := c.s.ChannelMessageDelete(m.ChannelID, m.ID, discordgo.WithContext(ctx)); err != nil {
		return false, err
	}
	return true, nil
}

// Fetch reads the message again from Discord.
func (c *Context) Fetch(ctx context.Context) (*discordgo.Message, error) {
	if c.kind != KindMessage {
		return nil, nil
	}
	m := c.origin.Message
	return c.s.ChannelMessage(m.ChannelID, m.ID, discordgo.WithContext(ctx))
}

// FetchReference reads the message this one replies to, crossposts or
// announces as pinned. nil when there is no reference.
func (c *Context) FetchReference(ctx context.Context) (*discordgo.Message, error) {
	ref := c.Reference()
	if ref == nil || ref.MessageID == "" {
		return nil, nil
	}
	channelID := ref.ChannelID
	if channelID == "" {
		channelID = c.ChannelID()
	}
	return c.s.ChannelMessage(channelID, ref.MessageID, discordgo.WithContext(ctx))
}

// FetchWebhook reads the webhook that posted the message, nil when a user
// posted it.
func (c *Context) FetchWebhook(ctx context.Context) (*discordgo.Webhook, error) {
	id := c.WebhookID()
	if id == "" {
		return nil, nil
	}
	return c.s.Webhook(id, discordgo.WithContext(ctx))
}

// ResolveComponent finds a component of the message by custom id.
func (c *Context) ResolveComponent(customID string) discordgo.MessageComponent {
	if c.kind != KindMessage {
		return nil
	}
	return findComponent(c.origin.Message.Components, customID)
}

func findComponent(components []discordgo.MessageComponent, customID string) discordgo.MessageComponent {
	for _, comp := range components {
		switch v := comp.(type) {
		case *discordgo.ActionsRow:
			if found := findComponent(v.Components, customID); found != nil {
				return found
			}
		case discordgo.ActionsRow:
			if found := findComponent(v.Components, customID); found != nil {
				return found
			}
		case *discordgo.Button:
			if v.CustomID == customID {
				return v
			}
		case discordgo.Button:
			if v.CustomID == customID {
				return v
			}
		case *discordgo.SelectMenu:
			if v.CustomID == customID {
				return v
			}
		case discordgo.SelectMenu:
			if v.CustomID == customID {
				return v
			}
		case *discordgo.TextInput:
			if v.CustomID == customID {
				return v
			}
		case discordgo.TextInput:
			if v.CustomID == customID {
				return v
			}
		}
	}
	return nil
}

// StartThread opens a thread. A message becomes the thread's starter
// message. An interaction has no message to start from, so the thread is
// created directly in its channel; nil is returned when that channel cannot
// hold threads.
func (c *Context) StartThread(ctx context.Context, data *discordgo.ThreadStart) (*discordgo.Channel, error) {
	if data == nil {
		data = &discordgo.ThreadStart{}
	}
	if c.kind == KindMessage {
		m := c.origin.Message
		return c.s.MessageThreadStartComplex(m.ChannelID, m.ID, data, discordgo.WithContext(ctx))
	}

	ch, err := c.resolveChannel(ctx)
	if err != nil {
		return nil, err
	}
	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
	default:
		return nil, nil
	}
	if data.Type == 0 {
		data.Type = discordgo.ChannelTypeGuildPublicThread
		if ch.Type == discordgo.ChannelTypeGuildNews {
			data.Type = discordgo.ChannelTypeGuildNewsThread
		}
	}
	return c.s.ThreadStartComplex(ch.ID, data, discordgo.WithContext(ctx))
}

func auditOptions(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	return opts
}
