package storage

import "maps"

// CommandHashes returns the definition hashes of the application commands
// last registered for guildID. An empty guildID means global commands.
func (s *Storage) CommandHashes(guildID string) (map[string]string, error) {
	record, err := s.read(guildID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(record.CommandHashes))
	maps.Copy(out, record.CommandHashes)
	return out, nil
}

// SetCommandHashes replaces the stored hashes of guildID.
func (s *Storage) SetCommandHashes(guildID string, hashes map[string]string) error {
	return s.update(guildID, func(r *Record) {
		r.CommandHashes = maps.Clone(hashes)
	})
}
