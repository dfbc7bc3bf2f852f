package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"fstore/pkg/log"
	"fstore/pkg/models"
	"fstore/pkg/registry"
	"fstore/pkg/sandbox"
)

// SaveFile validates, writes and records one upload as a single logical
// operation. declaredSize is a transport-provided hint; pass a negative
// value when unknown. The operation is all-or-nothing: any failure after
// the physical write removes the object again.
func (m *Manager) SaveFile(userID int64, filename, contentType string, reader io.Reader, declaredSize int64) (*models.FileRecord, error) {
	name := sandbox.SanitizeName(filename)
	if name == "" {
		return nil, sandbox.ErrInvalidName
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !m.allowed[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	// Reject on the size hint before any disk IO. The true byte count is
	// enforced again while streaming below.
	if declaredSize > m.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: limit is %s", ErrFileTooLarge, humanize.IBytes(uint64(m.cfg.MaxFileSize)))
	}

	targetPath, err := m.resolver.Resolve(userID, name)
	if err != nil {
		return nil, err
	}

	written, err := m.writeExclusive(targetPath, reader)
	if err != nil {
		return nil, err
	}

	record, err := m.ledger.InsertFile(userID, name, contentType, written)
	if err != nil {
		// The object must not outlive a failed insert.
		if removeErr := os.Remove(targetPath); removeErr != nil {
			log.Error().Err(removeErr).Str("path", targetPath).Msg("Failed to remove object after insert failure")
		}
		if errors.Is(err, registry.ErrFileExists) {
			return nil, ErrFileExists
		}
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("filename", name).
		Int64("size", written).
		Msg("File uploaded")
	return record, nil
}

// writeExclusive streams the payload to targetPath. O_EXCL creation is the
// real duplicate arbiter between concurrent uploads of the same name; the
// filesystem picks exactly one winner. Partial writes are always removed.
func (m *Manager) writeExclusive(targetPath string, reader io.Reader) (int64, error) {
	dst, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if os.IsExist(err) {
			return 0, ErrFileExists
		}
		log.Error().Err(err).Str("path", targetPath).Msg("Failed to create destination file")
		return 0, err
	}

	// One byte past the limit is enough to detect overflow without ever
	// buffering or storing more than limit+1 bytes.
	limited := io.LimitReader(reader, m.cfg.MaxFileSize+1)
	buf := make([]byte, copyBufLen)
	written, copyErr := io.CopyBuffer(dst, limited, buf)
	closeErr := dst.Close()

	fail := func(cause error) (int64, error) {
		if removeErr := os.Remove(targetPath); removeErr != nil {
			log.Error().Err(removeErr).Str("path", targetPath).Msg("Failed to remove partial file")
		}
		return 0, cause
	}

	if copyErr != nil {
		log.Error().Err(copyErr).Str("path", targetPath).Msg("Failed to write file")
		return fail(copyErr)
	}
	if closeErr != nil {
		log.Error().Err(closeErr).Str("path", targetPath).Msg("Failed to close destination file")
		return fail(closeErr)
	}
	if written > m.cfg.MaxFileSize {
		return fail(fmt.Errorf("%w: limit is %s", ErrFileTooLarge, humanize.IBytes(uint64(m.cfg.MaxFileSize))))
	}

	return written, nil
}
