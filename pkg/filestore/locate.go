package filestore

import (
	"errors"
	"os"

	"fstore/pkg/log"
	"fstore/pkg/models"
	"fstore/pkg/registry"
	"fstore/pkg/sandbox"
)

// LocateFile resolves the on-disk path for a user's file so the transport
// can stream it. The registry decides whether the file exists; containment
// is re-verified at the point of use, not only where the path was built.
func (m *Manager) LocateFile(userID int64, filename string) (string, *models.FileRecord, error) {
	name := sandbox.SanitizeName(filename)
	if name == "" {
		return "", nil, ErrFileNotFound
	}

	record, err := m.ledger.GetFile(userID, name)
	if err != nil {
		if errors.Is(err, registry.ErrFileNotFound) {
			return "", nil, ErrFileNotFound
		}
		return "", nil, err
	}

	path, err := m.resolver.Resolve(userID, name)
	if err != nil {
		return "", nil, err
	}

	if !m.resolver.Contains(userID, path) {
		return "", nil, sandbox.ErrAccessDenied
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			// Dangling record: possible only after a crash mid-write.
			log.Warn().
				Int64("user_id", userID).
				Str("filename", name).
				Msg("File record has no physical object")
			return "", nil, ErrFileNotFound
		}
		return "", nil, err
	}

	return path, record, nil
}
