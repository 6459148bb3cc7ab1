package hybrid

import "github.com/bwmarrin/discordgo"

// AppPermissions returns what the bot may do in the event's channel. For a
// message it is computed from the cache and reported absent (ok false) when
// the bot member or the channel is not cached.
func (c *Context) AppPermissions() (perms int64, ok bool) {
	if c.kind == KindInteraction {
		return c.origin.Interaction.AppPermissions, true
	}

	self := c.selfID()
	guildID := c.GuildID()
	if self == "" || guildID == "" {
		return 0, false
	}
	if _, err := c.state.Member(guildID, self); err != nil {
		return 0, false
	}
	if c.Channel() == nil {
		return 0, false
	}
	p, err := c.state.UserChannelPermissions(self, c.ChannelID())
	if err != nil {
		return 0, false
	}
	return p, true
}

// MemberPermissions returns what the invoking member may do in the channel,
// absent outside guilds or when the member cannot be resolved.
func (c *Context) MemberPermissions() (perms int64, ok bool) {
	if c.kind == KindInteraction {
		m := c.origin.Interaction.Member
		if m == nil {
			return 0, false
		}
		return m.Permissions, true
	}

	m := c.origin.Message
	if m.GuildID == "" || m.Author == nil {
		return 0, false
	}
	if m.Member != nil {
		if p, err := c.state.MessagePermissions(m); err == nil {
			return p, true
		}
	}
	p, err := c.state.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return 0, false
	}
	return p, true
}

// appHas reports whether the bot holds all bits in the channel. An unknown
// permission set counts as missing.
func (c *Context) appHas(bits int64) bool {
	p, ok := c.AppPermissions()
	return ok && p&bits == bits
}

func (c *Context) authoredBySelf() bool {
	if c.kind != KindMessage {
		return false
	}
	a := c.origin.Message.Author
	self := c.selfID()
	return a != nil && self != "" && a.ID == self
}

// Editable reports whether the bot can edit the message: only its own.
func (c *Context) Editable() bool {
	return c.authoredBySelf()
}

// Deletable reports whether the bot can delete the message.
func (c *Context) Deletable() bool {
	if c.kind != KindMessage {
		return false
	}
	if c.authoredBySelf() {
		return true
	}
	return c.GuildID() != "" && c.appHas(discordgo.PermissionManageMessages)
}

// Pinnable reports whether the bot can pin the message.
func (c *Context) Pinnable() bool {
	if c.kind != KindMessage || c.System() {
		return false
	}
	if c.GuildID() == "" {
		return true
	}
	return c.appHas(discordgo.PermissionViewChannel | discordgo.PermissionManageMessages | discordgo.PermissionReadMessageHistory)
}

// Crosspostable reports whether the bot can publish the message to channels
// following an announcement channel.
func (c *Context) Crosspostable() bool {
	if c.kind != KindMessage {
		return false
	}
	m := c.origin.Message
	ch := c.Channel()
	if ch == nil || ch.Type != discordgo.ChannelTypeGuildNews {
		return false
	}
	if m.Type != discordgo.MessageTypeDefault || m.Flags&discordgo.MessageFlagsCrossPosted != 0 {
		return false
	}
	bits := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages)
	if !c.authoredBySelf() {
		bits |= discordgo.PermissionManageMessages
	}
	return c.appHas(bits)
}

// IsRepliable reports whether the event can be answered. Pings and
// autocomplete interactions cannot; messages can unless the cache shows the
// bot lacks Send Messages in the channel.
func (c *Context) IsRepliable() bool {
	if c.kind == KindInteraction {
		switch c.origin.Interaction.Type {
		case discordgo.InteractionPing, discordgo.InteractionApplicationCommandAutocomplete:
			return false
		default:
			return true
		}
	}
	p, ok := c.AppPermissions()
	if !ok {
		return true
	}
	return p&discordgo.PermissionSendMessages != 0
}
