package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const commandHistoryLimit int = 20

// dmKey holds records of commands run outside guilds.
const dmKey = "@me"

type Storage struct {
	mu     sync.Mutex
	ds     *datastore.DataStore
	cancel context.CancelFunc
}

type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Param       string    `json:"param"`
	Origin      string    `json:"origin"`
	Datetime    time.Time `json:"datetime"`
}

type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	CommandsDisabled    []string               `json:"cmd_disabled"`
	CommandHashes       map[string]string      `json:"cmd_hashes,omitempty"`
}

// New opens the datastore file at filePath. The store flushes to disk in the
// background until ctx ends or Close is called.
func New(ctx context.Context, filePath string) (*Storage, error) {
	ctx, cancel := context.WithCancel(ctx)
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		cancel()
		return nil, err
	}
	return &Storage{ds: ds, cancel: cancel}, nil
}

// Close stops the background flush and writes the store to disk.
func (s *Storage) Close() error {
	s.cancel()
	return s.ds.Close()
}

func recordKey(guildID string) string {
	if guildID == "" {
		return dmKey
	}
	return guildID
}

// getOrCreateGuildRecord loads the record of a guild, or an empty one when
// the guild has none yet. Callers hold s.mu.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	exists, err := s.ds.Get(recordKey(guildID), &record)
	if err != nil {
		return nil, fmt.Errorf("error loading guild record: %w", err)
	}
	if !exists {
		return &Record{
			CommandsHistoryList: []CommandHistoryRecord{},
			CommandsDisabled:    []string{},
		}, nil
	}

	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}
	return &record, nil
}

func (s *Storage) update(guildID string, fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	fn(record)
	if err := s.ds.Set(recordKey(guildID), record); err != nil {
		return fmt.Errorf("error saving guild record: %w", err)
	}
	return nil
}

func (s *Storage) read(guildID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateGuildRecord(guildID)
}
