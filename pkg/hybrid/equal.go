package hybrid

import "github.com/bwmarrin/discordgo"

// Equals compares against another *Context or a *discordgo.Message. Only two
// messages can be equal; anything involving an interaction is not.
func (c *Context) Equals(other any) bool {
	if c.kind != KindMessage {
		return false
	}
	switch o := other.(type) {
	case *Context:
		if o == nil || o.kind != KindMessage {
			return false
		}
		return MessagesEqual(c.origin.Message, o.origin.Message)
	case *discordgo.Message:
		return MessagesEqual(c.origin.Message, o)
	default:
		return false
	}
}

// MessagesEqual reports whether a and b are the same message with the same
// visible state: id, author, content, TTS, attachments and embed count.
// Reactions and pin state are not compared.
func MessagesEqual(a, b *discordgo.Message) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Content != b.Content || a.TTS != b.TTS {
		return false
	}
	if userID(a.Author) != userID(b.Author) {
		return false
	}
	if len(a.Embeds) != len(b.Embeds) || len(a.Attachments) != len(b.Attachments) {
		return false
	}
	for i := range a.Attachments {
		if attachmentID(a.Attachments[i]) != attachmentID(b.Attachments[i]) {
			return false
		}
	}
	return true
}

func userID(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func attachmentID(a *discordgo.MessageAttachment) string {
	if a == nil {
		return ""
	}
	return a.ID
}
