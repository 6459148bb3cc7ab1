package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
)

type SayCommand struct{}

func (c *SayCommand) Name() string        { return "say" }
func (c *SayCommand) Description() string { return "Repeat a message" }
func (c *SayCommand) Aliases() []string   { return []string{"echo"} }
func (c *SayCommand) Group() string       { return groupTools }

func (c *SayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "What to say",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "hidden",
				Description: "Only you can see the answer",
			},
		},
	}
}

func (c *SayCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	hc := inv.Context

	text := textArg(inv, "text")
	if text == "" {
		_, err := hc.ReplyEphemeral(ctx, "Nothing to say. Usage: `say <text>`")
		return err
	}

	hidden, _ := hc.Options().Bool("hidden")
	var err error
	if hidden {
		err = hc.DeferEphemeral(ctx)
	} else {
		err = hc.Defer(ctx)
	}
	if err != nil {
		return err
	}

	// no pings from repeated text
	_, err = hc.EditReply(ctx, &hybrid.Response{
		Content:         text,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
	return err
}
