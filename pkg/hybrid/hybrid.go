// Package hybrid puts the two ways a Discord bot receives a command, a plain
// message and an interaction, behind one Context. Handlers read the author,
// channel and content and reply, defer, edit or follow up without branching on
// which of the two produced the event.
//
// Every accessor is defined for both origins. When an origin has no notion of
// a field the accessor returns a neutral value (false, "", 0, nil or an empty
// collection); it never fails because a concept is missing. Failed requests
// are a different matter: errors from Discord are returned unchanged.
//
// A Context is built once per inbound event and handled to completion by a
// single goroutine. It is not safe for concurrent use. Calling two reply
// methods at the same time on one Context leaves its reply state undefined.
package hybrid

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/elliotchance/orderedmap/v3"
)

var (
	// ErrAlreadyHandled is returned by Defer and Reply once the event was deferred or replied to.
	ErrAlreadyHandled = errors.New("hybrid: reply has already been sent or deferred")
	// ErrNotHandled is returned by FollowUp, EditReply, DeleteReply and FetchReply before any Defer or Reply.
	ErrNotHandled = errors.New("hybrid: reply has not been sent or deferred")
	// ErrEphemeral is returned by DeleteReply when the interaction reply is ephemeral.
	ErrEphemeral = errors.New("hybrid: ephemeral replies cannot be deleted")
	// ErrModalShown is returned by FollowUp, EditReply, DeleteReply and FetchReply
	// after ShowModal: a modal answers the interaction without a response message.
	ErrModalShown = errors.New("hybrid: interaction was answered with a modal")
	// ErrInvalidOrigin is returned by New unless exactly one origin is set.
	ErrInvalidOrigin = errors.New("hybrid: origin must be exactly one of message or interaction")
)

// Kind tells which origin a Context wraps.
type Kind int

const (
	KindMessage Kind = iota + 1
	KindInteraction
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindInteraction:
		return "interaction"
	default:
		return "unknown"
	}
}

// Origin is the event a Context adapts. Exactly one field must be set.
type Origin struct {
	Message     *discordgo.Message
	Interaction *discordgo.Interaction
}

func (o Origin) kind() (Kind, error) {
	switch {
	case o.Message != nil && o.Interaction == nil:
		return KindMessage, nil
	case o.Interaction != nil && o.Message == nil:
		return KindInteraction, nil
	default:
		return 0, ErrInvalidOrigin
	}
}

// Session is the part of the Discord REST client a Context talks to.
// *discordgo.Session satisfies it.
type Session interface {
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessagePin(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessageUnpin(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessageCrosspost(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageThreadStartComplex(channelID, messageID string, data *discordgo.ThreadStart, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ThreadStartComplex(channelID string, data *discordgo.ThreadStart, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	Webhook(webhookID string, options ...discordgo.RequestOption) (*discordgo.Webhook, error)

	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponse(interaction *discordgo.Interaction, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)

	// RequestWithBucketID sends bodies the typed helpers cannot express,
	// such as a zero flags field.
	RequestWithBucketID(method, urlStr string, data interface{}, bucketID string, options ...discordgo.RequestOption) ([]byte, error)
	// AddHandler registers a gateway event handler and returns its remover.
	AddHandler(handler interface{}) func()
}

var _ Session = (*discordgo.Session)(nil)

// interactionState mirrors what Discord knows about an interaction callback.
// discordgo keeps none of it on *discordgo.Interaction.
type interactionState struct {
	deferred  bool
	replied   bool
	ephemeral bool
	// modal is set when the reply was a modal, which leaves no message to
	// follow up on or edit.
	modal bool
}

// Context is a message or an interaction seen through one API.
type Context struct {
	origin Origin
	kind   Kind

	s     Session
	state *discordgo.State

	// message origin only
	deferred bool
	replies  *orderedmap.OrderedMap[string, *discordgo.Message]
	// nonce is only known when the Context was built from the raw event
	nonce string

	// interaction origin only
	ix interactionState
}

// New wraps origin. state may be nil; accessors that need the cache then
// report their neutral value.
func New(s Session, state *discordgo.State, origin Origin) (*Context, error) {
	kind, err := origin.kind()
	if err != nil {
		return nil, err
	}
	return &Context{
		origin:  origin,
		kind:    kind,
		s:       s,
		state:   state,
		replies: orderedmap.NewOrderedMap[string, *discordgo.Message](),
	}, nil
}

// FromMessage wraps a received message.
func FromMessage(s *discordgo.Session, m *discordgo.Message) (*Context, error) {
	return New(s, s.State, Origin{Message: m})
}

// FromMessageCreate wraps a MESSAGE_CREATE event.
func FromMessageCreate(s *discordgo.Session, e *discordgo.MessageCreate) (*Context, error) {
	if e == nil {
		return nil, ErrInvalidOrigin
	}
	return FromMessage(s, e.Message)
}

// FromInteraction wraps a received interaction.
func FromInteraction(s *discordgo.Session, i *discordgo.Interaction) (*Context, error) {
	return New(s, s.State, Origin{Interaction: i})
}

// FromInteractionCreate wraps an INTERACTION_CREATE event.
func FromInteractionCreate(s *discordgo.Session, e *discordgo.InteractionCreate) (*Context, error) {
	if e == nil {
		return nil, ErrInvalidOrigin
	}
	return FromInteraction(s, e.Interaction)
}

// FromEvent wraps a raw MESSAGE_CREATE or INTERACTION_CREATE gateway event.
// Unlike FromMessageCreate it also keeps the fields discordgo does not decode
// into *discordgo.Message, such as the nonce.
func FromEvent(s *discordgo.Session, e *discordgo.Event) (*Context, error) {
	return newFromEvent(s, s.State, e)
}

func newFromEvent(s Session, state *discordgo.State, e *discordgo.Event) (*Context, error) {
	if e == nil {
		return nil, ErrInvalidOrigin
	}
	switch ev := e.Struct.(type) {
	case *discordgo.MessageCreate:
		c, err := New(s, state, Origin{Message: ev.Message})
		if err != nil {
			return nil, err
		}
		c.nonce = decodeNonce(e.RawData)
		return c, nil
	case *discordgo.InteractionCreate:
		return New(s, state, Origin{Interaction: ev.Interaction})
	default:
		return nil, fmt.Errorf("%w: unsupported event %s", ErrInvalidOrigin, e.Type)
	}
}

// decodeNonce reads the nonce of a raw message payload. Discord sends it as
// a string or an integer.
func decodeNonce(raw json.RawMessage) string {
	var payload struct {
		Nonce json.RawMessage `json:"nonce"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Nonce) == 0 || string(payload.Nonce) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(payload.Nonce, &str); err == nil {
		return str
	}
	return string(payload.Nonce)
}

func (c *Context) Kind() Kind { return c.kind }

func (c *Context) IsMessage() bool { return c.kind == KindMessage }

func (c *Context) IsInteraction() bool { return c.kind == KindInteraction }

// Message returns the wrapped message, or nil for an interaction.
func (c *Context) Message() *discordgo.Message { return c.origin.Message }

// Interaction returns the wrapped interaction, or nil for a message.
func (c *Context) Interaction() *discordgo.Interaction { return c.origin.Interaction }

// Session returns the REST client the Context was built with.
func (c *Context) Session() Session { return c.s }

// State returns the gateway cache, possibly nil.
func (c *Context) State() *discordgo.State { return c.state }

// selfID is the bot user id from the cache, or "" when unknown.
func (c *Context) selfID() string {
	if c.state == nil || c.state.User == nil {
		return ""
	}
	return c.state.User.ID
}
