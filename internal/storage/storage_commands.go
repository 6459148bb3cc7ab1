package storage

import "slices"

// AppendCommand records a command run, keeping the newest entries only.
func (s *Storage) AppendCommand(guildID string, command CommandHistoryRecord) error {
	return s.update(guildID, func(r *Record) {
		r.CommandsHistoryList = append(r.CommandsHistoryList, command)
		if n := len(r.CommandsHistoryList); n > commandHistoryLimit {
			r.CommandsHistoryList = r.CommandsHistoryList[n-commandHistoryLimit:]
		}
	})
}

// CommandHistory lists recorded command runs, oldest first.
func (s *Storage) CommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	record, err := s.read(guildID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(record.CommandsHistoryList), nil
}

func (s *Storage) DisableGroup(guildID, group string) error {
	return s.update(guildID, func(r *Record) {
		if !slices.Contains(r.CommandsDisabled, group) {
			r.CommandsDisabled = append(r.CommandsDisabled, group)
		}
	})
}

func (s *Storage) EnableGroup(guildID, group string) error {
	return s.update(guildID, func(r *Record) {
		r.CommandsDisabled = slices.DeleteFunc(r.CommandsDisabled, func(g string) bool { return g == group })
	})
}

func (s *Storage) IsGroupDisabled(guildID, group string) (bool, error) {
	record, err := s.read(guildID)
	if err != nil {
		return false, err
	}
	return slices.Contains(record.CommandsDisabled, group), nil
}

func (s *Storage) DisabledGroups(guildID string) ([]string, error) {
	record, err := s.read(guildID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(record.CommandsDisabled), nil
}
