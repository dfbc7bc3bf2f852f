package filestore

import (
	"errors"
	"os"

	"fstore/pkg/log"
	"fstore/pkg/registry"
	"fstore/pkg/sandbox"
)

// DeleteFile removes a user's file. The metadata row goes first: once the
// delete call returns, listings can never show the file again, whatever
// happens to the physical unlink. The unlink itself is best-effort.
func (m *Manager) DeleteFile(userID int64, filename string) error {
	name := sandbox.SanitizeName(filename)
	if name == "" {
		return ErrFileNotFound
	}

	if err := m.ledger.DeleteFile(userID, name); err != nil {
		if errors.Is(err, registry.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return err
	}

	path, err := m.resolver.Resolve(userID, name)
	if err != nil {
		log.Error().Err(err).
			Int64("user_id", userID).
			Str("filename", name).
			Msg("Could not resolve path after metadata delete")
		return nil
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			log.Debug().
				Int64("user_id", userID).
				Str("filename", name).
				Msg("No physical object for deleted record")
		} else {
			log.Error().Err(err).Str("path", path).Msg("Failed to remove object after metadata delete")
		}
		return nil
	}

	log.Info().
		Int64("user_id", userID).
		Str("filename", name).
		Msg("File deleted")
	return nil
}
