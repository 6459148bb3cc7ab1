package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/keshon/datastore"
)

func newTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datastore.json")
	s, err := New(context.Background(), path)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	return s, path
}

func TestCommandHistoryIsCapped(t *testing.T) {
	s, _ := newTestStorage(t)
	defer s.Close()

	for i := 0; i < commandHistoryLimit+5; i++ {
		if err := s.AppendCommand("g1", CommandHistoryRecord{Command: fmt.Sprintf("cmd%d", i)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	history, err := s.CommandHistory("g1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != commandHistoryLimit {
		t.Fatalf("expected %d records, got %d", commandHistoryLimit, len(history))
	}
	if history[0].Command != "cmd5" || history[len(history)-1].Command != "cmd24" {
		t.Fatalf("expected newest records kept, got %s..%s", history[0].Command, history[len(history)-1].Command)
	}

	other, err := s.CommandHistory("g2")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected empty history for another guild, got %d", len(other))
	}
}

func TestDirectMessageHistory(t *testing.T) {
	s, _ := newTestStorage(t)
	defer s.Close()

	if err := s.AppendCommand("", CommandHistoryRecord{Command: "ping", Origin: "message"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	history, err := s.CommandHistory("")
	if err != nil || len(history) != 1 || history[0].Origin != "message" {
		t.Fatalf("unexpected dm history %v, %v", history, err)
	}
}

func TestHistorySurvivesReopen(t *testing.T) {
	s, path := newTestStorage(t)
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := s.AppendCommand("g1", CommandHistoryRecord{Command: "say", Username: "ann", Datetime: when}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.DisableGroup("g1", "fun"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	history, err := reopened.CommandHistory("g1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Username != "ann" || !history[0].Datetime.Equal(when) {
		t.Fatalf("unexpected history after reopen: %+v", history)
	}
	disabled, err := reopened.IsGroupDisabled("g1", "fun")
	if err != nil || !disabled {
		t.Fatalf("expected group fun disabled after reopen, got %v, %v", disabled, err)
	}
}

func TestGroupToggle(t *testing.T) {
	s, _ := newTestStorage(t)
	defer s.Close()

	if err := s.DisableGroup("g1", "fun"); err != nil {
		t.Fatal(err)
	}
	if err := s.DisableGroup("g1", "fun"); err != nil {
		t.Fatal(err)
	}
	groups, _ := s.DisabledGroups("g1")
	if len(groups) != 1 {
		t.Fatalf("expected one disabled group, got %v", groups)
	}

	if err := s.EnableGroup("g1", "fun"); err != nil {
		t.Fatal(err)
	}
	disabled, err := s.IsGroupDisabled("g1", "fun")
	if err != nil || disabled {
		t.Fatalf("expected group enabled, got %v, %v", disabled, err)
	}
}

func TestCommandHashes(t *testing.T) {
	s, _ := newTestStorage(t)
	defer s.Close()

	hashes, err := s.CommandHashes("g1")
	if err != nil {
		t.Fatalf("hashes: %v", err)
	}
	if len(hashes) != 0 {
		t.Fatalf("expected no hashes, got %v", hashes)
	}

	if err := s.SetCommandHashes("g1", map[string]string{"ping": "abc"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	hashes, _ = s.CommandHashes("g1")
	hashes["ping"] = "mutated"

	again, _ := s.CommandHashes("g1")
	if again["ping"] != "abc" {
		t.Fatalf("expected stored hash abc, got %q", again["ping"])
	}
	if global, _ := s.CommandHashes(""); len(global) != 0 {
		t.Fatalf("expected global hashes separate, got %v", global)
	}
}

func TestNewRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(context.Background(), path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestCorruptRecordIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")
	if err := os.WriteFile(path, []byte(`{"g1": "not a record"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New(context.Background(), path)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	defer s.Close()

	if _, err := s.CommandHistory("g1"); err == nil {
		t.Fatal("expected decode error for malformed record")
	}
	if err := s.AppendCommand("g1", CommandHistoryRecord{Command: "ping"}); err == nil {
		t.Fatal("expected append to fail on malformed record")
	}
}

func TestWriteAfterCloseFails(t *testing.T) {
	s, _ := newTestStorage(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	err := s.AppendCommand("g1", CommandHistoryRecord{Command: "ping"})
	if !errors.Is(err, datastore.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
