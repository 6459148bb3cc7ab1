package hybrid

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Response is the payload of a reply, follow-up or reply edit. Ephemeral only
// applies to interactions; a channel message is always public.
type Response struct {
	Content         string
	Embeds          []*discordgo.MessageEmbed
	Components      []discordgo.MessageComponent
	Files           []*discordgo.File
	AllowedMentions *discordgo.MessageAllowedMentions
	TTS             bool
	Ephemeral       bool
}

// Text is a plain text Response.
func Text(content string) *Response { return &Response{Content: content} }

func (r *Response) flags() discordgo.MessageFlags {
	if r.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

func (r *Response) messageSend() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         r.Content,
		Embeds:          r.Embeds,
		Components:      r.Components,
		Files:           r.Files,
		AllowedMentions: r.AllowedMentions,
		TTS:             r.TTS,
	}
}

func (r *Response) interactionData() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:         r.Content,
		Embeds:          r.Embeds,
		Components:      r.Components,
		Files:           r.Files,
		AllowedMentions: r.AllowedMentions,
		TTS:             r.TTS,
		Flags:           r.flags(),
	}
}

func (r *Response) webhookParams() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content:         r.Content,
		Embeds:          r.Embeds,
		Components:      r.Components,
		Files:           r.Files,
		AllowedMentions: r.AllowedMentions,
		TTS:             r.TTS,
		Flags:           r.flags(),
	}
}

// webhookEdit and messageEdit only touch the fields that are set; an empty
// Content keeps the old text.
func (r *Response) webhookEdit() *discordgo.WebhookEdit {
	edit := &discordgo.WebhookEdit{
		Files:           r.Files,
		AllowedMentions: r.AllowedMentions,
	}
	if r.Content != "" {
		content := r.Content
		edit.Content = &content
	}
	if r.Embeds != nil {
		embeds := r.Embeds
		edit.Embeds = &embeds
	}
	if r.Components != nil {
		components := r.Components
		edit.Components = &components
	}
	return edit
}

func (r *Response) messageEdit(channelID, messageID string) *discordgo.MessageEdit {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	if r.Content != "" {
		edit.SetContent(r.Content)
	}
	if r.Embeds != nil {
		edit.SetEmbeds(r.Embeds)
	}
	if r.Components != nil {
		components := r.Components
		edit.Components = &components
	}
	edit.Files = r.Files
	edit.AllowedMentions = r.AllowedMentions
	return edit
}

func orEmpty(r *Response) *Response {
	if r == nil {
		return &Response{}
	}
	return r
}

func (c *Context) handled() bool { return c.Deferred() || c.Replied() }

// hasResponse tells whether there is a first reply to follow up on, edit,
// delete or fetch.
func (c *Context) hasResponse() error {
	if !c.handled() {
		return ErrNotHandled
	}
	if c.ix.modal {
		return ErrModalShown
	}
	return nil
}

// Defer acknowledges the event before the real reply is ready. Interactions
// get a deferred response ("Bot is thinking..."); messages get a typing
// indicator in their channel.
func (c *Context) Defer(ctx context.Context) error {
	return c.deferReply(ctx, false)
}

// DeferEphemeral is Defer with a private pending reply. Messages ignore the
// ephemeral part.
func (c *Context) DeferEphemeral(ctx context.Context) error {
	return c.deferReply(ctx, true)
}

func (c *Context) deferReply(ctx context.Context, ephemeral bool) error {
	if c.handled() {
		return ErrAlreadyHandled
	}

	if c.kind == KindMessage {
		if err := c.s.ChannelTyping(c.origin.Message.ChannelID, discordgo.WithContext(ctx)); err != nil {
			return err
		}
		c.deferred = true
		return nil
	}

	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := c.s.InteractionRespond(c.origin.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	c.ix.deferred = true
	c.ix.ephemeral = ephemeral
	return nil
}

// Reply sends the first reply. Messages get an inline reply which is tracked
// for later edits. Interactions return a nil message; use FetchReply to read
// the response back.
func (c *Context) Reply(ctx context.Context, r *Response) (*discordgo.Message, error) {
	if c.handled() {
		return nil, ErrAlreadyHandled
	}
	r = orEmpty(r)

	if c.kind == KindMessage {
		return c.sendReply(ctx, r)
	}

	err := c.s.InteractionRespond(c.origin.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: r.interactionData(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	c.ix.replied = true
	c.ix.ephemeral = r.Ephemeral
	return nil, nil
}

// FollowUp sends an additional reply after Defer or Reply.
func (c *Context) FollowUp(ctx context.Context, r *Response) (*discordgo.Message, error) {
	if err := c.hasResponse(); err != nil {
		return nil, err
	}
	r = orEmpty(r)

	if c.kind == KindMessage {
		return c.sendReply(ctx, r)
	}
	return c.s.FollowupMessageCreate(c.origin.Interaction, true, r.webhookParams(), discordgo.WithContext(ctx))
}

// EditReply changes the first reply. On a message that was only deferred it
// sends the first reply instead.
func (c *Context) EditReply(ctx context.Context, r *Response) (*discordgo.Message, error) {
	if err := c.hasResponse(); err != nil {
		return nil, err
	}
	r = orEmpty(r)

	if c.kind == KindMessage {
		if !c.Replied() {
			return c.sendReply(ctx, r)
		}
		first := c.replies.Front().Value
		if first == nil {
			return nil, nil
		}
		return c.s.ChannelMessageEditComplex(r.messageEdit(c.replyChannelID(first), first.ID), discordgo.WithContext(ctx))
	}

	msg, err := c.s.InteractionResponseEdit(c.origin.Interaction, r.webhookEdit(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	c.ix.replied = true
	return msg, nil
}

// DeleteReply removes the first reply. Ephemeral interaction replies cannot
// be deleted. A message that was only deferred has nothing to delete.
func (c *Context) DeleteReply(ctx context.Context) error {
	if err := c.hasResponse(); err != nil {
		return err
	}
	if c.Ephemeral() {
		return ErrEphemeral
	}

	if c.kind == KindMessage {
		if !c.Replied() {
			return nil
		}
		first := c.replies.Front().Value
		if first == nil {
			return nil
		}
		return c.s.ChannelMessageDelete(c.replyChannelID(first), first.ID, discordgo.WithContext(ctx))
	}
	return c.s.InteractionResponseDelete(c.origin.Interaction, discordgo.WithContext(ctx))
}

// FetchReply reads the first reply back from Discord. It returns nil for a
// message that was only deferred.
func (c *Context) FetchReply(ctx context.Context) (*discordgo.Message, error) {
	if err := c.hasResponse(); err != nil {
		return nil, err
	}

	if c.kind == KindMessage {
		if !c.Replied() {
			return nil, nil
		}
		first := c.replies.Front().Value
		if first == nil {
			return nil, nil
		}
		ch, err := c.resolveChannel(ctx)
		if err != nil {
			return nil, err
		}
		return c.s.ChannelMessage(ch.ID, first.ID, discordgo.WithContext(ctx))
	}
	return c.s.InteractionResponse(c.origin.Interaction, discordgo.WithContext(ctx))
}

// Replies lists the replies this Context sent to a message, oldest first.
// Deleting a reply on Discord does not remove it from the list.
func (c *Context) Replies() []*discordgo.Message {
	out := make([]*discordgo.Message, 0, c.replies.Len())
	for el := c.replies.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// sendReply posts an inline reply to the origin message and records it.
func (c *Context) sendReply(ctx context.Context, r *Response) (*discordgo.Message, error) {
	m := c.origin.Message
	send := r.messageSend()
	send.Reference = m.Reference()

	reply, err := c.s.ChannelMessageSendComplex(m.ChannelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	key := uuid.NewString()
	if reply != nil && reply.ID != "" {
		key = reply.ID
	}
	c.replies.Set(key, reply)
	return reply, nil
}

func (c *Context) replyChannelID(reply *discordgo.Message) string {
	if reply.ChannelID != "" {
		return reply.ChannelID
	}
	return c.origin.Message.ChannelID
}

// resolveChannel returns the event's channel from the cache, fetching it when
// the cache does not have it.
func (c *Context) resolveChannel(ctx context.Context) (*discordgo.Channel, error) {
	if ch := c.Channel(); ch != nil {
		return ch, nil
	}
	return c.s.Channel(c.ChannelID(), discordgo.WithContext(ctx))
}

// ShowModal answers an interaction with a modal. Messages cannot show
// modals and return false. The interaction then counts as replied, but has no
// response message: FollowUp, EditReply, DeleteReply and FetchReply return
// ErrModalShown. The modal submit arrives as a new interaction.
func (c *Context) ShowModal(ctx context.Context, modal *discordgo.InteractionResponseData) (bool, error) {
	if c.kind != KindInteraction {
		return false, nil
	}
	if c.handled() {
		return false, ErrAlreadyHandled
	}
	err := c.s.InteractionRespond(c.origin.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: modal,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return false, err
	}
	c.ix.replied = true
	c.ix.modal = true
	return true, nil
}

// Send replies when nothing was sent yet and follows up otherwise. Error
// reports and notices that may come at any point of a command use it.
func (c *Context) Send(ctx context.Context, r *Response) (*discordgo.Message, error) {
	if c.handled() {
		return c.FollowUp(ctx, r)
	}
	return c.Reply(ctx, r)
}

// ReplyContent replies with plain text.
func (c *Context) ReplyContent(ctx context.Context, content string) (*discordgo.Message, error) {
	return c.Reply(ctx, Text(content))
}

// ReplyEmbed replies with a single embed.
func (c *Context) ReplyEmbed(ctx context.Context, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return c.Reply(ctx, &Response{Embeds: []*discordgo.MessageEmbed{embed}})
}

// ReplyEphemeral replies privately to interactions and publicly to messages.
func (c *Context) ReplyEphemeral(ctx context.Context, content string) (*discordgo.Message, error) {
	return c.Reply(ctx, &Response{Content: content, Ephemeral: true})
}

// FollowUpContent sends a plain text follow-up.
func (c *Context) FollowUpContent(ctx context.Context, content string) (*discordgo.Message, error) {
	return c.FollowUp(ctx, Text(content))
}

// EditReplyContent replaces the text of the first reply.
func (c *Context) EditReplyContent(ctx context.Context, content string) (*discordgo.Message, error) {
	return c.EditReply(ctx, Text(content))
}
