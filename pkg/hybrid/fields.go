package hybrid

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/elliotchance/orderedmap/v3"
	"golang.org/x/text/language"
)

// ID is the message id or the interaction id.
func (c *Context) ID() string {
	switch c.kind {
	case KindMessage:
		return c.origin.Message.ID
	default:
		return c.origin.Interaction.ID
	}
}

func (c *Context) ChannelID() string {
	switch c.kind {
	case KindMessage:
		return c.origin.Message.ChannelID
	default:
		return c.origin.Interaction.ChannelID
	}
}

// GuildID is empty in direct messages.
func (c *Context) GuildID() string {
	switch c.kind {
	case KindMessage:
		return c.origin.Message.GuildID
	default:
		return c.origin.Interaction.GuildID
	}
}

// ApplicationID is the interaction's application, or the application attached
// to the message (activity invites, interaction responses). Empty otherwise.
func (c *Context) ApplicationID() string {
	switch c.kind {
	case KindMessage:
		if app := c.origin.Message.Application; app != nil {
			return app.ID
		}
		return ""
	default:
		return c.origin.Interaction.AppID
	}
}

// CreatedAt is when the message was sent or the interaction was created.
func (c *Context) CreatedAt() time.Time {
	switch c.kind {
	case KindMessage:
		return c.origin.Message.Timestamp
	default:
		t, err := discordgo.SnowflakeTimestamp(c.origin.Interaction.ID)
		if err != nil {
			return time.Time{}
		}
		return t
	}
}

// CreatedTimestamp is CreatedAt in Unix milliseconds.
func (c *Context) CreatedTimestamp() int64 {
	t := c.CreatedAt()
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Author is the message author or the user who triggered the interaction.
func (c *Context) Author() *discordgo.User {
	switch c.kind {
	case KindMessage:
		return c.origin.Message.Author
	default:
		i := c.origin.Interaction
		if i.Member != nil && i.Member.User != nil {
			return i.Member.User
		}
		return i.User
	}
}

// User is an alias of Author.
func (c *Context) User() *discordgo.User { return c.Author() }

// Member is the guild member behind the event. Message members are partial:
// Discord omits the embedded user.
func (c *Context) Member() *discordgo.Member {
	switch c.kind {
	case KindMessage:
		return c.origin.Message.Member
	default:
		return c.origin.Interaction.Member
	}
}

// Channel is the cached channel of the event, or nil when not cached.
func (c *Context) Channel() *discordgo.Channel {
	ch, err := c.state.Channel(c.ChannelID())
	if err != nil {
		return nil
	}
	return ch
}

// Guild is the cached guild of the event, or nil in DMs or when not cached.
func (c *Context) Guild() *discordgo.Guild {
	guildID := c.GuildID()
	if guildID == "" {
		return nil
	}
	g, err := c.state.Guild(guildID)
	if err != nil {
		return nil
	}
	return g
}

// Content is the message text, or the slash command rendered as text.
func (c *Context) Content() string {
	switch c.kind {
	case KindMessage:
		return c.origin.Message.Content
	default:
		return c.commandString()
	}
}

// CleanContent is Content with user mentions replaced by names.
func (c *Context) CleanContent() string {
	switch c.kind {
	case KindMessage:
		return c.origin.Message.ContentWithMentionsReplaced()
	default:
		return c.commandString()
	}
}

// String returns Content.
func (c *Context) String() string { return c.Content() }

func (c *Context) commandData() (discordgo.ApplicationCommandInteractionData, bool) {
	if c.kind != KindInteraction {
		return discordgo.ApplicationCommandInteractionData{}, false
	}
	i := c.origin.Interaction
	if i.Type != discordgo.InteractionApplicationCommand && i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return discordgo.ApplicationCommandInteractionData{}, false
	}
	data, ok := i.Data.(discordgo.ApplicationCommandInteractionData)
	return data, ok
}

func (c *Context) CommandID() string {
	data, _ := c.commandData()
	return data.ID
}

func (c *Context) CommandName() string {
	data, _ := c.commandData()
	return data.Name
}

// CommandType is 0 unless the origin is an application command.
func (c *Context) CommandType() discordgo.ApplicationCommandType {
	data, _ := c.commandData()
	return data.CommandType
}

// Options resolves command options. Messages get an empty resolver.
func (c *Context) Options() *Options {
	data, ok := c.commandData()
	if !ok {
		return &Options{}
	}
	return newOptions(&data)
}

// Attachments maps message attachments by id, in upload order. For
// interactions it maps every attachment option by option name, in option
// order; the value is nil when Discord did not resolve the upload.
func (c *Context) Attachments() *orderedmap.OrderedMap[string, *discordgo.MessageAttachment] {
	out := orderedmap.NewOrderedMap[string, *discordgo.MessageAttachment]()
	switch c.kind {
	case KindMessage:
		for _, a := range c.origin.Message.Attachments {
			if a != nil {
				out.Set(a.ID, a)
			}
		}
	default:
		opts := c.Options()
		for _, opt := range opts.hoisted {
			if opt.Type != discordgo.ApplicationCommandOptionAttachment {
				continue
			}
			a, _ := opts.Attachment(opt.Name)
			out.Set(opt.Name, a)
		}
	}
	return out
}

// Nonce is the nonce the sending client attached to the message. It is only
// known for contexts built with FromEvent; interactions have none.
func (c *Context) Nonce() string {
	if c.kind != KindMessage {
		return ""
	}
	return c.nonce
}

// Partial reports whether the message carries nothing but its ids, as
// delivered by events for messages missing from the cache. Interactions are
// never partial.
func (c *Context) Partial() bool {
	if c.kind != KindMessage {
		return false
	}
	m := c.origin.Message
	return m.Author == nil && m.Timestamp.IsZero()
}

// GroupActivityApplication is the application of a Rich Presence activity
// invite; nil for other messages and for interactions.
func (c *Context) GroupActivityApplication() *discordgo.MessageApplication {
	if c.kind != KindMessage {
		return nil
	}
	return c.origin.Message.Application
}

// Mentions returns the message mentions; interactions get an empty set.
func (c *Context) Mentions() *Mentions {
	if c.kind != KindMessage {
		return &Mentions{}
	}
	return newMentions(c.origin.Message)
}

func (c *Context) Components() []discordgo.MessageComponent {
	if c.kind != KindMessage || c.origin.Message.Components == nil {
		return []discordgo.MessageComponent{}
	}
	return c.origin.Message.Components
}

func (c *Context) Embeds() []*discordgo.MessageEmbed {
	if c.kind != KindMessage || c.origin.Message.Embeds == nil {
		return []*discordgo.MessageEmbed{}
	}
	return c.origin.Message.Embeds
}

func (c *Context) Reactions() []*discordgo.MessageReactions {
	if c.kind != KindMessage || c.origin.Message.Reactions == nil {
		return []*discordgo.MessageReactions{}
	}
	return c.origin.Message.Reactions
}

func (c *Context) Stickers() []*discordgo.StickerItem {
	if c.kind != KindMessage || c.origin.Message.StickerItems == nil {
		return []*discordgo.StickerItem{}
	}
	return c.origin.Message.StickerItems
}

func (c *Context) Activity() *discordgo.MessageActivity {
	if c.kind != KindMessage {
		return nil
	}
	return c.origin.Message.Activity
}

func (c *Context) EditedAt() *time.Time {
	if c.kind != KindMessage {
		return nil
	}
	return c.origin.Message.EditedTimestamp
}

func (c *Context) Reference() *discordgo.MessageReference {
	if c.kind != KindMessage {
		return nil
	}
	return c.origin.Message.MessageReference
}

// Thread is the thread started from the message.
func (c *Context) Thread() *discordgo.Channel {
	if c.kind != KindMessage {
		return nil
	}
	return c.origin.Message.Thread
}

func (c *Context) HasThread() bool { return c.Thread() != nil }

// MessageInteraction is the interaction a bot message answers.
func (c *Context) MessageInteraction() *discordgo.MessageInteraction {
	if c.kind != KindMessage {
		return nil
	}
	return c.origin.Message.Interaction
}

func (c *Context) Flags() discordgo.MessageFlags {
	if c.kind != KindMessage {
		return 0
	}
	return c.origin.Message.Flags
}

func (c *Context) Pinned() bool {
	return c.kind == KindMessage && c.origin.Message.Pinned
}

func (c *Context) TTS() bool {
	return c.kind == KindMessage && c.origin.Message.TTS
}

// System reports messages Discord generated itself, such as pin notices.
func (c *Context) System() bool {
	if c.kind != KindMessage {
		return false
	}
	switch c.origin.Message.Type {
	case discordgo.MessageTypeDefault, discordgo.MessageTypeReply,
		discordgo.MessageTypeChatInputCommand, discordgo.MessageTypeContextMenuCommand:
		return false
	default:
		return true
	}
}

// MessageType is the message type; 0 (default) for interactions.
func (c *Context) MessageType() discordgo.MessageType {
	if c.kind != KindMessage {
		return 0
	}
	return c.origin.Message.Type
}

// InteractionType is the interaction type; 0 for messages.
func (c *Context) InteractionType() discordgo.InteractionType {
	if c.kind != KindInteraction {
		return 0
	}
	return c.origin.Interaction.Type
}

func (c *Context) WebhookID() string {
	if c.kind != KindMessage {
		return ""
	}
	return c.origin.Message.WebhookID
}

// URL links to the message; empty for interactions.
func (c *Context) URL() string {
	if c.kind != KindMessage {
		return ""
	}
	m := c.origin.Message
	guild := m.GuildID
	if guild == "" {
		guild = "@me"
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guild, m.ChannelID, m.ID)
}

func (c *Context) Token() string {
	if c.kind != KindInteraction {
		return ""
	}
	return c.origin.Interaction.Token
}

func (c *Context) Version() int {
	if c.kind != KindInteraction {
		return 0
	}
	return c.origin.Interaction.Version
}

// Locale is the invoking user's client locale. Messages carry none.
func (c *Context) Locale() discordgo.Locale {
	if c.kind != KindInteraction {
		return ""
	}
	return c.origin.Interaction.Locale
}

// GuildLocale is the guild's preferred locale, or "" outside guilds.
func (c *Context) GuildLocale() discordgo.Locale {
	switch c.kind {
	case KindMessage:
		if g := c.Guild(); g != nil {
			return discordgo.Locale(g.PreferredLocale)
		}
		return ""
	default:
		if l := c.origin.Interaction.GuildLocale; l != nil {
			return *l
		}
		return ""
	}
}

// Language picks the best known language for the event: the user locale,
// then the guild locale, then language.Und.
func (c *Context) Language() language.Tag {
	for _, l := range []discordgo.Locale{c.Locale(), c.GuildLocale()} {
		if l == "" {
			continue
		}
		if tag, err := language.Parse(string(l)); err == nil {
			return tag
		}
	}
	return language.Und
}

// Ephemeral reports whether the interaction reply is only visible to the
// invoking user. Always false for messages.
func (c *Context) Ephemeral() bool {
	return c.kind == KindInteraction && c.ix.ephemeral
}

// Deferred reports whether Defer succeeded. For messages that means the
// typing indicator was sent.
func (c *Context) Deferred() bool {
	if c.kind == KindMessage {
		return c.deferred
	}
	return c.ix.deferred
}

// Replied reports whether a reply was sent through this Context.
func (c *Context) Replied() bool {
	if c.kind == KindMessage {
		return c.replies.Len() > 0
	}
	return c.ix.replied
}

// InGuild reports whether the event happened in a guild.
func (c *Context) InGuild() bool { return c.GuildID() != "" }

// InCachedGuild reports whether the event happened in a guild present in the cache.
func (c *Context) InCachedGuild() bool { return c.InGuild() && c.Guild() != nil }

// InRawGuild reports whether the event came from a guild missing from the cache.
func (c *Context) InRawGuild() bool {
	return c.InGuild() && c.Guild() == nil && c.Member() != nil
}
