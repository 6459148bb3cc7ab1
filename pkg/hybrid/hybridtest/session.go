// Package hybridtest provides a fake Discord REST client for testing code
// built on hybrid.Context.
package hybridtest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ErrUnknownMessage is returned for message ids the fake never stored.
var ErrUnknownMessage = errors.New("unknown message")

// Session is an in-memory Discord REST client. It stores what is sent and
// records every call so tests can assert on both.
type Session struct {
	// BotID authors every message the fake sends.
	BotID string

	Messages map[string]*discordgo.Message
	Channels map[string]*discordgo.Channel
	// Calls lists the methods called, in order.
	Calls []string
	// Fail makes the named method return the error without doing anything.
	Fail map[string]error

	Responses []*discordgo.InteractionResponse
	// Original is the current interaction response message.
	Original  *discordgo.Message
	Followups []*discordgo.WebhookParams
	Threads   []string
	// Requests holds the raw REST requests, bodies as sent on the wire.
	Requests []Request

	seq int

	mu       sync.Mutex
	handlers map[int]interface{}
	nextID   int
}

// Request is one call of RequestWithBucketID.
type Request struct {
	Method string
	URL    string
	Body   []byte
}

func NewSession(botID string) *Session {
	return &Session{
		BotID:    botID,
		Messages: make(map[string]*discordgo.Message),
		Channels: make(map[string]*discordgo.Channel),
		Fail:     make(map[string]error),
	}
}

func (f *Session) record(name string) error {
	f.Calls = append(f.Calls, name)
	return f.Fail[name]
}

// Called counts the calls of method name.
func (f *Session) Called(name string) int {
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// NewMessage stores a message from the bot and returns it.
func (f *Session) NewMessage(channelID, content string) *discordgo.Message {
	f.seq++
	m := &discordgo.Message{
		ID:        fmt.Sprintf("9%03d", f.seq),
		ChannelID: channelID,
		Content:   content,
		Author:    &discordgo.User{ID: f.BotID},
		Timestamp: time.Now(),
	}
	f.Messages[m.ID] = m
	return m
}

func clone(m *discordgo.Message) *discordgo.Message {
	c := *m
	return &c
}

func (f *Session) ChannelTyping(channelID string, _ ...discordgo.RequestOption) error {
	return f.record("ChannelTyping")
}

func (f *Session) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if err := f.record("Channel"); err != nil {
		return nil, err
	}
	ch, ok := f.Channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	return ch, nil
}

func (f *Session) ChannelMessage(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.record("ChannelMessage"); err != nil {
		return nil, err
	}
	m, ok := f.Messages[messageID]
	if !ok || m.ChannelID != channelID {
		return nil, ErrUnknownMessage
	}
	return clone(m), nil
}

func (f *Session) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.record("ChannelMessageSendComplex"); err != nil {
		return nil, err
	}
	m := f.NewMessage(channelID, data.Content)
	m.MessageReference = data.Reference
	m.Embeds = data.Embeds
	return clone(m), nil
}

func (f *Session) ChannelMessageEditComplex(e *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.record("ChannelMessageEditComplex"); err != nil {
		return nil, err
	}
	m, ok := f.Messages[e.ID]
	if !ok || m.ChannelID != e.Channel {
		return nil, ErrUnknownMessage
	}
	if e.Content != nil {
		m.Content = *e.Content
	}
	if e.Embeds != nil {
		m.Embeds = *e.Embeds
	}
	if e.Attachments != nil {
		m.Attachments = *e.Attachments
	}
	// flags is omitempty on the wire, so zero leaves them as they were
	if e.Flags != 0 {
		m.Flags = e.Flags
	}
	return clone(m), nil
}

func (f *Session) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	if err := f.record("ChannelMessageDelete"); err != nil {
		return err
	}
	if _, ok := f.Messages[messageID]; !ok {
		return ErrUnknownMessage
	}
	delete(f.Messages, messageID)
	return nil
}

func (f *Session) ChannelMessagePin(channelID, messageID string, _ ...discordgo.RequestOption) error {
	return f.record("ChannelMessagePin")
}

func (f *Session) ChannelMessageUnpin(channelID, messageID string, _ ...discordgo.RequestOption) error {
	return f.record("ChannelMessageUnpin")
}

func (f *Session) ChannelMessageCrosspost(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.record("ChannelMessageCrosspost"); err != nil {
		return nil, err
	}
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *Session) MessageReactionAdd(channelID, messageID, emojiID string, _ ...discordgo.RequestOption) error {
	return f.record("MessageReactionAdd")
}

func (f *Session) MessageThreadStartComplex(channelID, messageID string, data *discordgo.ThreadStart, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if err := f.record("MessageThreadStartComplex"); err != nil {
		return nil, err
	}
	f.Threads = append(f.Threads, data.Name)
	return &discordgo.Channel{ID: "thread-" + messageID, ParentID: channelID, Name: data.Name, Type: discordgo.ChannelTypeGuildPublicThread}, nil
}

func (f *Session) ThreadStartComplex(channelID string, data *discordgo.ThreadStart, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if err := f.record("ThreadStartComplex"); err != nil {
		return nil, err
	}
	f.Threads = append(f.Threads, data.Name)
	return &discordgo.Channel{ID: "thread-" + channelID, ParentID: channelID, Name: data.Name, Type: data.Type}, nil
}

func (f *Session) Webhook(webhookID string, _ ...discordgo.RequestOption) (*discordgo.Webhook, error) {
	if err := f.record("Webhook"); err != nil {
		return nil, err
	}
	return &discordgo.Webhook{ID: webhookID}, nil
}

func (f *Session) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	if err := f.record("InteractionRespond"); err != nil {
		return err
	}
	f.Responses = append(f.Responses, resp)
	if resp.Type == discordgo.InteractionResponseChannelMessageWithSource {
		f.Original = f.NewMessage(i.ChannelID, resp.Data.Content)
	}
	return nil
}

func (f *Session) InteractionResponse(i *discordgo.Interaction, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.record("InteractionResponse"); err != nil {
		return nil, err
	}
	if f.Original == nil {
		return nil, ErrUnknownMessage
	}
	return clone(f.Original), nil
}

func (f *Session) InteractionResponseEdit(i *discordgo.Interaction, e *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.record("InteractionResponseEdit"); err != nil {
		return nil, err
	}
	if f.Original == nil {
		f.Original = f.NewMessage(i.ChannelID, "")
	}
	if e.Content != nil {
		f.Original.Content = *e.Content
	}
	return clone(f.Original), nil
}

func (f *Session) InteractionResponseDelete(i *discordgo.Interaction, _ ...discordgo.RequestOption) error {
	if err := f.record("InteractionResponseDelete"); err != nil {
		return err
	}
	f.Original = nil
	return nil
}

func (f *Session) FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.record("FollowupMessageCreate"); err != nil {
		return nil, err
	}
	f.Followups = append(f.Followups, data)
	return clone(f.NewMessage(i.ChannelID, data.Content)), nil
}

// RequestWithBucketID understands message PATCH requests and applies their
// content and flags fields to the stored message. Other requests are only
// recorded.
func (f *Session) RequestWithBucketID(method, urlStr string, data interface{}, bucketID string, _ ...discordgo.RequestOption) ([]byte, error) {
	if err := f.record("RequestWithBucketID"); err != nil {
		return nil, err
	}
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	f.Requests = append(f.Requests, Request{Method: method, URL: urlStr, Body: body})

	channelID, messageID, ok := messageEndpoint(urlStr)
	if method != "PATCH" || !ok {
		return []byte("{}"), nil
	}
	m, ok := f.Messages[messageID]
	if !ok || m.ChannelID != channelID {
		return nil, ErrUnknownMessage
	}
	var patch struct {
		Content *string                 `json:"content"`
		Flags   *discordgo.MessageFlags `json:"flags"`
	}
	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, err
	}
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.Flags != nil {
		m.Flags = *patch.Flags
	}
	return json.Marshal(m)
}

// messageEndpoint splits a .../channels/{c}/messages/{m} URL.
func messageEndpoint(urlStr string) (channelID, messageID string, ok bool) {
	_, path, found := strings.Cut(urlStr, discordgo.EndpointChannels)
	if !found {
		return "", "", false
	}
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[1] != "messages" || parts[2] == "" {
		return "", "", false
	}
	return parts[0], parts[2], true
}

// AddHandler keeps handler until the returned func is called. Emit is the
// only thing that invokes it.
func (f *Session) AddHandler(handler interface{}) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handlers == nil {
		f.handlers = make(map[int]interface{})
	}
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
}

// HandlerCount reports how many handlers are registered.
func (f *Session) HandlerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// Emit delivers a gateway event to every registered handler whose signature
// accepts it, the way discordgo dispatches events. It returns the number of
// handlers called.
func (f *Session) Emit(event interface{}) int {
	f.mu.Lock()
	hs := make([]interface{}, 0, len(f.handlers))
	for _, h := range f.handlers {
		hs = append(hs, h)
	}
	f.mu.Unlock()

	n := 0
	for _, h := range hs {
		switch fn := h.(type) {
		case func(*discordgo.Session, *discordgo.InteractionCreate):
			if e, ok := event.(*discordgo.InteractionCreate); ok {
				fn(nil, e)
				n++
			}
		case func(*discordgo.Session, *discordgo.MessageReactionAdd):
			if e, ok := event.(*discordgo.MessageReactionAdd); ok {
				fn(nil, e)
				n++
			}
		case func(*discordgo.Session, *discordgo.MessageCreate):
			if e, ok := event.(*discordgo.MessageCreate); ok {
				fn(nil, e)
				n++
			}
		}
	}
	return n
}
