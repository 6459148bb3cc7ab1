package hybrid

import "github.com/bwmarrin/discordgo"

// Type predicates. A message answers false to all of them.

// IsCommand reports an application command of any kind.
func (c *Context) IsCommand() bool {
	return c.InteractionType() == discordgo.InteractionApplicationCommand
}

// IsChatInputCommand reports a slash command.
func (c *Context) IsChatInputCommand() bool {
	return c.IsCommand() && c.CommandType() == discordgo.ChatApplicationCommand
}

// IsContextMenuCommand reports a user or message context menu command.
func (c *Context) IsContextMenuCommand() bool {
	return c.IsUserContextMenuCommand() || c.IsMessageContextMenuCommand()
}

func (c *Context) IsUserContextMenuCommand() bool {
	return c.IsCommand() && c.CommandType() == discordgo.UserApplicationCommand
}

func (c *Context) IsMessageContextMenuCommand() bool {
	return c.IsCommand() && c.CommandType() == discordgo.MessageApplicationCommand
}

func (c *Context) IsAutocomplete() bool {
	return c.InteractionType() == discordgo.InteractionApplicationCommandAutocomplete
}

func (c *Context) IsModalSubmit() bool {
	return c.InteractionType() == discordgo.InteractionModalSubmit
}

func (c *Context) IsMessageComponent() bool {
	return c.InteractionType() == discordgo.InteractionMessageComponent
}

func (c *Context) componentType() (discordgo.ComponentType, bool) {
	if !c.IsMessageComponent() {
		return 0, false
	}
	data, ok := c.origin.Interaction.Data.(discordgo.MessageComponentInteractionData)
	if !ok {
		return 0, false
	}
	return data.ComponentType, true
}

func (c *Context) IsButton() bool {
	t, ok := c.componentType()
	return ok && t == discordgo.ButtonComponent
}

// IsSelectMenu reports any select menu: string, user, role, mentionable or channel.
func (c *Context) IsSelectMenu() bool {
	t, ok := c.componentType()
	if !ok {
		return false
	}
	switch t {
	case discordgo.SelectMenuComponent, discordgo.UserSelectMenuComponent, discordgo.RoleSelectMenuComponent,
		discordgo.MentionableSelectMenuComponent, discordgo.ChannelSelectMenuComponent:
		return true
	default:
		return false
	}
}
