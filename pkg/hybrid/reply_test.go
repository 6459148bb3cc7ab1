package hybrid

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestDeferTwice(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Context{
		newMessageContext(t, newFakeSession()),
		newInteractionContext(t, newFakeSession(), slashInteraction("ping")),
	} {
		t.Run(c.Kind().String(), func(t *testing.T) {
			if err := c.Defer(ctx); err != nil {
				t.Fatalf("Defer() error = %v", err)
			}
			if !c.Deferred() {
				t.Fatal("Deferred() = false after Defer")
			}
			if err := c.Defer(ctx); !errors.Is(err, ErrAlreadyHandled) {
				t.Errorf("second Defer() error = %v, want ErrAlreadyHandled", err)
			}
			if _, err := c.Reply(ctx, Text("late")); !errors.Is(err, ErrAlreadyHandled) {
				t.Errorf("Reply() after Defer error = %v, want ErrAlreadyHandled", err)
			}
		})
	}
}

func TestReplyThenDefer(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Context{
		newMessageContext(t, newFakeSession()),
		newInteractionContext(t, newFakeSession(), slashInteraction("ping")),
	} {
		t.Run(c.Kind().String(), func(t *testing.T) {
			if _, err := c.ReplyContent(ctx, "hi"); err != nil {
				t.Fatalf("Reply() error = %v", err)
			}
			if !c.Replied() {
				t.Fatal("Replied() = false after Reply")
			}
			if err := c.Defer(ctx); !errors.Is(err, ErrAlreadyHandled) {
				t.Errorf("Defer() after Reply error = %v, want ErrAlreadyHandled", err)
			}
			if _, err := c.ReplyContent(ctx, "again"); !errors.Is(err, ErrAlreadyHandled) {
				t.Errorf("second Reply() error = %v, want ErrAlreadyHandled", err)
			}
		})
	}
}

func TestOperationsBeforeHandled(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Context{
		newMessageContext(t, newFakeSession()),
		newInteractionContext(t, newFakeSession(), slashInteraction("ping")),
	} {
		t.Run(c.Kind().String(), func(t *testing.T) {
			if _, err := c.FollowUpContent(ctx, "x"); !errors.Is(err, ErrNotHandled) {
				t.Errorf("FollowUp() error = %v", err)
			}
			if _, err := c.EditReplyContent(ctx, "x"); !errors.Is(err, ErrNotHandled) {
				t.Errorf("EditReply() error = %v", err)
			}
			if err := c.DeleteReply(ctx); !errors.Is(err, ErrNotHandled) {
				t.Errorf("DeleteReply() error = %v", err)
			}
			if _, err := c.FetchReply(ctx); !errors.Is(err, ErrNotHandled) {
				t.Errorf("FetchReply() error = %v", err)
			}
		})
	}
}

func TestMessageReplyLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession()
	c := newMessageContext(t, s)

	first, err := c.ReplyContent(ctx, "hi")
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if first.MessageReference == nil || first.MessageReference.MessageID != messageID {
		t.Errorf("reply does not reference the origin message: %+v", first.MessageReference)
	}

	fetched, err := c.FetchReply(ctx)
	if err != nil {
		t.Fatalf("FetchReply() error = %v", err)
	}
	if fetched.Content != "hi" {
		t.Errorf("FetchReply().Content = %q, want %q", fetched.Content, "hi")
	}

	second, err := c.FollowUpContent(ctx, "again")
	if err != nil {
		t.Fatalf("FollowUp() error = %v", err)
	}
	if got := c.Replies(); len(got) != 2 || got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("Replies() = %v", got)
	}

	edited, err := c.EditReplyContent(ctx, "edited")
	if err != nil {
		t.Fatalf("EditReply() error = %v", err)
	}
	if edited.ID != first.ID || s.Messages[first.ID].Content != "edited" {
		t.Errorf("EditReply() changed %s, want first reply %s", edited.ID, first.ID)
	}
	if s.Messages[second.ID].Content != "again" {
		t.Errorf("follow-up content = %q, want untouched", s.Messages[second.ID].Content)
	}

	if err := c.DeleteReply(ctx); err != nil {
		t.Fatalf("DeleteReply() error = %v", err)
	}
	if _, ok := s.Messages[first.ID]; ok {
		t.Error("first reply still exists after DeleteReply")
	}
	if _, ok := s.Messages[second.ID]; !ok {
		t.Error("DeleteReply removed the follow-up")
	}
}

func TestMessageDeferThenEditReplySends(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession()
	c := newMessageContext(t, s)

	if err := c.Defer(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Called("ChannelTyping") != 1 {
		t.Errorf("ChannelTyping calls = %d, want 1", s.Called("ChannelTyping"))
	}

	// nothing to read or delete yet
	if msg, err := c.FetchReply(ctx); err != nil || msg != nil {
		t.Errorf("FetchReply() = %v, %v; want nil, nil", msg, err)
	}
	if err := c.DeleteReply(ctx); err != nil {
		t.Errorf("DeleteReply() error = %v", err)
	}

	msg, err := c.EditReplyContent(ctx, "done")
	if err != nil {
		t.Fatalf("EditReply() error = %v", err)
	}
	if msg.Content != "done" || len(c.Replies()) != 1 || !c.Replied() {
		t.Errorf("EditReply() after Defer did not send the first reply: %v", c.Replies())
	}
	if s.Called("ChannelMessageSendComplex") != 1 {
		t.Errorf("send calls = %d, want 1", s.Called("ChannelMessageSendComplex"))
	}
}

func TestInteractionReplyLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession()
	c := newInteractionContext(t, s, slashInteraction("ping"))

	if err := c.Defer(ctx); err != nil {
		t.Fatal(err)
	}
	if got := s.Responses[0].Type; got != discordgo.InteractionResponseDeferredChannelMessageWithSource {
		t.Errorf("defer response type = %v", got)
	}
	if c.Replied() || c.Ephemeral() {
		t.Errorf("Replied() = %v, Ephemeral() = %v after public Defer", c.Replied(), c.Ephemeral())
	}

	if _, err := c.EditReplyContent(ctx, "pong"); err != nil {
		t.Fatalf("EditReply() error = %v", err)
	}
	if !c.Replied() {
		t.Error("Replied() = false after EditReply")
	}

	fetched, err := c.FetchReply(ctx)
	if err != nil || fetched.Content != "pong" {
		t.Fatalf("FetchReply() = %v, %v", fetched, err)
	}

	follow, err := c.FollowUpContent(ctx, "more")
	if err != nil || follow.Content != "more" {
		t.Fatalf("FollowUp() = %v, %v", follow, err)
	}

	if err := c.DeleteReply(ctx); err != nil {
		t.Fatalf("DeleteReply() error = %v", err)
	}
	if s.Called("InteractionResponseDelete") != 1 {
		t.Error("DeleteReply did not delete the interaction response")
	}
}

func TestInteractionReplyReturnsNoMessage(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession()
	c := newInteractionContext(t, s, slashInteraction("ping"))

	msg, err := c.ReplyContent(ctx, "pong")
	if err != nil || msg != nil {
		t.Fatalf("Reply() = %v, %v; want nil, nil", msg, err)
	}
	fetched, err := c.FetchReply(ctx)
	if err != nil || fetched.Content != "pong" {
		t.Errorf("FetchReply() = %v, %v", fetched, err)
	}
}

func TestEphemeralReplyCannotBeDeleted(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession()
	c := newInteractionContext(t, s, slashInteraction("secret"))

	if _, err := c.ReplyEphemeral(ctx, "psst"); err != nil {
		t.Fatal(err)
	}
	if !c.Ephemeral() {
		t.Fatal("Ephemeral() = false after ephemeral Reply")
	}
	if got := s.Responses[0].Data.Flags; got&discordgo.MessageFlagsEphemeral == 0 {
		t.Errorf("response flags = %v, want ephemeral", got)
	}
	if err := c.DeleteReply(ctx); !errors.Is(err, ErrEphemeral) {
		t.Errorf("DeleteReply() error = %v, want ErrEphemeral", err)
	}
	if s.Called("InteractionResponseDelete") != 0 {
		t.Error("DeleteReply reached Discord for an ephemeral reply")
	}
}

func TestDeferEphemeral(t *testing.T) {
	ctx := context.Background()

	s := newFakeSession()
	c := newInteractionContext(t, s, slashInteraction("secret"))
	if err := c.DeferEphemeral(ctx); err != nil {
		t.Fatal(err)
	}
	if !c.Ephemeral() || s.Responses[0].Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("DeferEphemeral did not mark the interaction ephemeral")
	}

	m := newMessageContext(t, newFakeSession())
	if err := m.DeferEphemeral(ctx); err != nil {
		t.Fatal(err)
	}
	if m.Ephemeral() {
		t.Error("Ephemeral() = true on a message")
	}
}

func TestTransportErrorLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("message defer", func(t *testing.T) {
		s := newFakeSession()
		s.Fail["ChannelTyping"] = boom
		c := newMessageContext(t, s)
		if err := c.Defer(ctx); !errors.Is(err, boom) {
			t.Fatalf("Defer() error = %v, want boom", err)
		}
		if c.Deferred() {
			t.Error("Deferred() = true after failed Defer")
		}
	})

	t.Run("message reply", func(t *testing.T) {
		s := newFakeSession()
		s.Fail["ChannelMessageSendComplex"] = boom
		c := newMessageContext(t, s)
		if _, err := c.ReplyContent(ctx, "hi"); !errors.Is(err, boom) {
			t.Fatalf("Reply() error = %v, want boom", err)
		}
		if c.Replied() || len(c.Replies()) != 0 {
			t.Error("reply tracked after failed Reply")
		}
	})

	t.Run("interaction reply", func(t *testing.T) {
		s := newFakeSession()
		s.Fail["InteractionRespond"] = boom
		c := newInteractionContext(t, s, slashInteraction("ping"))
		if _, err := c.ReplyEphemeral(ctx, "hi"); !errors.Is(err, boom) {
			t.Fatalf("Reply() error = %v, want boom", err)
		}
		if c.Replied() || c.Deferred() || c.Ephemeral() {
			t.Error("state changed after failed Reply")
		}
		// the failed attempt does not count as handled
		if _, err := c.ReplyContent(ctx, "retry"); !errors.Is(err, boom) {
			t.Errorf("retry error = %v, want boom", err)
		}
	})
}

func TestShowModal(t *testing.T) {
	ctx := context.Background()
	modal := &discordgo.InteractionResponseData{CustomID: "form", Title: "Form"}

	m := newMessageContext(t, newFakeSession())
	if ok, err := m.ShowModal(ctx, modal); ok || err != nil {
		t.Errorf("ShowModal() on a message = %v, %v", ok, err)
	}

	s := newFakeSession()
	c := newInteractionContext(t, s, slashInteraction("form"))
	if ok, err := c.ShowModal(ctx, modal); !ok || err != nil {
		t.Fatalf("ShowModal() = %v, %v", ok, err)
	}
	if s.Responses[0].Type != discordgo.InteractionResponseModal {
		t.Errorf("response type = %v, want modal", s.Responses[0].Type)
	}
	if _, err := c.ShowModal(ctx, modal); !errors.Is(err, ErrAlreadyHandled) {
		t.Errorf("second ShowModal() error = %v", err)
	}
}

func TestShowModalLeavesNoResponseMessage(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession()
	c := newInteractionContext(t, s, slashInteraction("form"))
	if _, err := c.ShowModal(ctx, &discordgo.InteractionResponseData{CustomID: "form"}); err != nil {
		t.Fatal(err)
	}
	if !c.Replied() {
		t.Error("Replied() = false after ShowModal")
	}

	if _, err := c.FollowUp(ctx, Text("x")); !errors.Is(err, ErrModalShown) {
		t.Errorf("FollowUp() error = %v, want ErrModalShown", err)
	}
	if _, err := c.EditReply(ctx, Text("x")); !errors.Is(err, ErrModalShown) {
		t.Errorf("EditReply() error = %v, want ErrModalShown", err)
	}
	if err := c.DeleteReply(ctx); !errors.Is(err, ErrModalShown) {
		t.Errorf("DeleteReply() error = %v, want ErrModalShown", err)
	}
	if _, err := c.FetchReply(ctx); !errors.Is(err, ErrModalShown) {
		t.Errorf("FetchReply() error = %v, want ErrModalShown", err)
	}
	if _, err := c.Send(ctx, Text("x")); !errors.Is(err, ErrModalShown) {
		t.Errorf("Send() error = %v, want ErrModalShown", err)
	}
	if n := s.Called("InteractionRespond"); n != 1 || len(s.Calls) != 1 {
		t.Errorf("calls = %v, want only the modal response", s.Calls)
	}
}

func TestSendPicksReplyOrFollowUp(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession()
	c := newInteractionContext(t, s, slashInteraction("ping"))

	if _, err := c.Send(ctx, Text("first")); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Send(ctx, Text("second")); err != nil {
		t.Fatal(err)
	}
	if s.Called("InteractionRespond") != 1 || s.Called("FollowupMessageCreate") != 1 {
		t.Errorf("calls = %v, want one response then one follow-up", s.Calls)
	}
}
