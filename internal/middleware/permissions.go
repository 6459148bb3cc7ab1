package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/pkg/cmd"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionCreateInstantInvite:    "Create Instant Invite",
	discordgo.PermissionKickMembers:            "Kick Members",
	discordgo.PermissionBanMembers:             "Ban Members",
	discordgo.PermissionAdministrator:          "Administrator",
	discordgo.PermissionManageChannels:         "Manage Channels",
	discordgo.PermissionManageGuild:            "Manage Server",
	discordgo.PermissionAddReactions:           "Add Reactions",
	discordgo.PermissionViewAuditLogs:          "View Audit Logs",
	discordgo.PermissionViewChannel:            "View Channel",
	discordgo.PermissionSendMessages:           "Send Messages",
	discordgo.PermissionSendTTSMessages:        "Send TTS Messages",
	discordgo.PermissionManageMessages:         "Manage Messages",
	discordgo.PermissionEmbedLinks:             "Embed Links",
	discordgo.PermissionAttachFiles:            "Attach Files",
	discordgo.PermissionReadMessageHistory:     "Read Message History",
	discordgo.PermissionMentionEveryone:        "Mention Everyone",
	discordgo.PermissionUseExternalEmojis:      "Use External Emojis",
	discordgo.PermissionUseApplicationCommands: "Use Application Commands",
	discordgo.PermissionManageThreads:          "Manage Threads",
	discordgo.PermissionCreatePublicThreads:    "Create Public Threads",
	discordgo.PermissionCreatePrivateThreads:   "Create Private Threads",
	discordgo.PermissionSendMessagesInThreads:  "Send Messages in Threads",
	discordgo.PermissionChangeNickname:         "Change Nickname",
	discordgo.PermissionManageNicknames:        "Manage Nicknames",
	discordgo.PermissionManageRoles:            "Manage Roles",
	discordgo.PermissionManageWebhooks:         "Manage Webhooks",
	discordgo.PermissionManageEvents:           "Manage Events",
	discordgo.PermissionModerateMembers:        "Moderate Members",
}

// WithUserPermissionCheck runs PermissionProvider commands only for members
// holding at least one of the listed permissions. Administrators and the
// developer always pass. Direct messages carry no permissions and pass too.
func WithUserPermissionCheck(developerID string) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			hc := inv.Context

			pp, ok := cmd.As[cmd.PermissionProvider](c)
			if !ok || len(pp.UserPermissions()) == 0 || !hc.InGuild() {
				return c.Run(ctx, inv)
			}
			if u := hc.Author(); u != nil && developerID != "" && u.ID == developerID {
				return c.Run(ctx, inv)
			}

			memberPerms, ok := hc.MemberPermissions()
			if !ok {
				return fmt.Errorf("failed to get user permissions in channel %s", hc.ChannelID())
			}
			if memberPerms&discordgo.PermissionAdministrator != 0 {
				return c.Run(ctx, inv)
			}

			required := pp.UserPermissions()
			for _, p := range required {
				if memberPerms&p != 0 {
					return c.Run(ctx, inv)
				}
			}

			allowed := make([]string, 0, len(required))
			for _, p := range required {
				name := PermissionNames[p]
				if name == "" {
					name = fmt.Sprintf("0x%x", p)
				}
				allowed = append(allowed, name)
			}
			notify(ctx, hc, fmt.Sprintf(
				"You need at least one of the following permissions to run this command:\n`%s`",
				strings.Join(allowed, "`, `"),
			))
			return nil
		})
	}
}
