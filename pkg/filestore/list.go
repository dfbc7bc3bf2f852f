package filestore

import "fstore/pkg/models"

// ListFiles returns one page of the user's records, most recent first. This
// is a pure registry read; the filesystem is never consulted.
func (m *Manager) ListFiles(userID int64, skip, limit int) ([]models.FileRecord, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	return m.ledger.ListFiles(userID, skip, limit)
}
