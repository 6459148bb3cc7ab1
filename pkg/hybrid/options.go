package hybrid

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Options resolves slash command options by name. Subcommand and subcommand
// group layers are flattened away; the zero value resolves nothing.
type Options struct {
	group      string
	subcommand string
	hoisted    []*discordgo.ApplicationCommandInteractionDataOption
	resolved   *discordgo.ApplicationCommandInteractionDataResolved
}

func newOptions(data *discordgo.ApplicationCommandInteractionData) *Options {
	o := &Options{resolved: data.Resolved}
	opts := data.Options

	if len(opts) > 0 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup {
		o.group = opts[0].Name
		opts = opts[0].Options
	}
	if len(opts) > 0 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		o.subcommand = opts[0].Name
		opts = opts[0].Options
	}
	o.hoisted = opts
	return o
}

// SubcommandGroup is the invoked subcommand group, or "".
func (o *Options) SubcommandGroup() string { return o.group }

// Subcommand is the invoked subcommand, or "".
func (o *Options) Subcommand() string { return o.subcommand }

func (o *Options) Len() int { return len(o.hoisted) }

// All returns the options in the order Discord sent them.
func (o *Options) All() []*discordgo.ApplicationCommandInteractionDataOption {
	out := make([]*discordgo.ApplicationCommandInteractionDataOption, len(o.hoisted))
	copy(out, o.hoisted)
	return out
}

// Get returns the raw option called name.
func (o *Options) Get(name string) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, opt := range o.hoisted {
		if opt.Name == name {
			return opt, true
		}
	}
	return nil, false
}

// Focused returns the option the user is typing in during autocomplete.
func (o *Options) Focused() (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, opt := range o.hoisted {
		if opt.Focused {
			return opt, true
		}
	}
	return nil, false
}

func (o *Options) String(name string) (string, bool) {
	opt, ok := o.Get(name)
	if !ok {
		return "", false
	}
	v, ok := opt.Value.(string)
	return v, ok
}

func (o *Options) Int(name string) (int64, bool) {
	opt, ok := o.Get(name)
	if !ok {
		return 0, false
	}
	switch v := opt.Value.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func (o *Options) Float(name string) (float64, bool) {
	opt, ok := o.Get(name)
	if !ok {
		return 0, false
	}
	switch v := opt.Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (o *Options) Bool(name string) (bool, bool) {
	opt, ok := o.Get(name)
	if !ok {
		return false, false
	}
	v, ok := opt.Value.(bool)
	return v, ok
}

// snowflake returns the id stored in an option of one of the given types.
func (o *Options) snowflake(name string, types ...discordgo.ApplicationCommandOptionType) (string, bool) {
	opt, ok := o.Get(name)
	if !ok {
		return "", false
	}
	for _, t := range types {
		if opt.Type == t {
			id, ok := opt.Value.(string)
			return id, ok
		}
	}
	return "", false
}

func (o *Options) User(name string) (*discordgo.User, bool) {
	id, ok := o.snowflake(name, discordgo.ApplicationCommandOptionUser, discordgo.ApplicationCommandOptionMentionable)
	if !ok || o.resolved == nil {
		return nil, false
	}
	u, ok := o.resolved.Users[id]
	return u, ok
}

func (o *Options) Member(name string) (*discordgo.Member, bool) {
	id, ok := o.snowflake(name, discordgo.ApplicationCommandOptionUser, discordgo.ApplicationCommandOptionMentionable)
	if !ok || o.resolved == nil {
		return nil, false
	}
	m, ok := o.resolved.Members[id]
	return m, ok
}

func (o *Options) Channel(name string) (*discordgo.Channel, bool) {
	id, ok := o.snowflake(name, discordgo.ApplicationCommandOptionChannel)
	if !ok || o.resolved == nil {
		return nil, false
	}
	ch, ok := o.resolved.Channels[id]
	return ch, ok
}

func (o *Options) Role(name string) (*discordgo.Role, bool) {
	id, ok := o.snowflake(name, discordgo.ApplicationCommandOptionRole, discordgo.ApplicationCommandOptionMentionable)
	if !ok || o.resolved == nil {
		return nil, false
	}
	r, ok := o.resolved.Roles[id]
	return r, ok
}

// Attachment returns the uploaded file behind an attachment option.
func (o *Options) Attachment(name string) (*discordgo.MessageAttachment, bool) {
	id, ok := o.snowflake(name, discordgo.ApplicationCommandOptionAttachment)
	if !ok || o.resolved == nil {
		return nil, false
	}
	a, ok := o.resolved.Attachments[id]
	return a, ok
}

// commandString renders an application command the way a user would type it,
// e.g. "/config set channel:123". Other interactions render as "".
func (c *Context) commandString() string {
	data, ok := c.commandData()
	if !ok {
		return ""
	}
	o := newOptions(&data)
	parts := []string{data.Name}
	if o.group != "" {
		parts = append(parts, o.group)
	}
	if o.subcommand != "" {
		parts = append(parts, o.subcommand)
	}
	for _, opt := range o.hoisted {
		parts = append(parts, fmt.Sprintf("%s:%v", opt.Name, opt.Value))
	}
	return "/" + strings.Join(parts, " ")
}
