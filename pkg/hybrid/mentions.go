package hybrid

import "github.com/bwmarrin/discordgo"

// Mentions lists what a message mentions. Interactions carry no mentions, so
// their Mentions is empty but usable.
type Mentions struct {
	Users       []*discordgo.User
	Roles       []string
	Channels    []*discordgo.Channel
	Everyone    bool
	RepliedUser *discordgo.User
}

func newMentions(m *discordgo.Message) *Mentions {
	out := &Mentions{
		Users:    m.Mentions,
		Roles:    m.MentionRoles,
		Channels: m.MentionChannels,
		Everyone: m.MentionEveryone,
	}
	if m.Type == discordgo.MessageTypeReply && m.ReferencedMessage != nil {
		out.RepliedUser = m.ReferencedMessage.Author
	}
	return out
}

// HasUser reports whether userID is mentioned directly or replied to.
func (m *Mentions) HasUser(userID string) bool {
	if m.RepliedUser != nil && m.RepliedUser.ID == userID {
		return true
	}
	for _, u := range m.Users {
		if u != nil && u.ID == userID {
			return true
		}
	}
	return false
}

func (m *Mentions) HasRole(roleID string) bool {
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

func (m *Mentions) HasChannel(channelID string) bool {
	for _, ch := range m.Channels {
		if ch != nil && ch.ID == channelID {
			return true
		}
	}
	return false
}

// Has reports whether member is mentioned by user, by one of its roles or
// through @everyone.
func (m *Mentions) Has(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	if m.Everyone {
		return true
	}
	if member.User != nil && m.HasUser(member.User.ID) {
		return true
	}
	for _, r := range member.Roles {
		if m.HasRole(r) {
			return true
		}
	}
	return false
}

// Empty reports whether nothing is mentioned.
func (m *Mentions) Empty() bool {
	return len(m.Users) == 0 && len(m.Roles) == 0 && len(m.Channels) == 0 && !m.Everyone && m.RepliedUser == nil
}
