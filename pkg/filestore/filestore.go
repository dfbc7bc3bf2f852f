package filestore

import (
	"strings"

	"fstore/pkg/models"
	"fstore/pkg/sandbox"
)

const (
	// DefaultMaxFileSize is the upload size limit when none is configured (2 GiB).
	DefaultMaxFileSize = 2 * 1024 * 1024 * 1024

	// DefaultListLimit is the page size used when the caller passes none.
	DefaultListLimit = 100

	// MaxListLimit caps the page size a caller may request.
	MaxListLimit = 100

	filePerm   = 0640
	copyBufLen = 32 * 1024
)

// DefaultAllowedExts is the stock extension allow-list.
var DefaultAllowedExts = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".txt", ".docx", ".xlsx", ".zip", ".rar",
	".mp4", ".mkv", ".avi", ".mov",
}

// Config carries the upload policy. It is passed in at construction so tests
// can run with their own limits instead of ambient globals.
type Config struct {
	UploadRoot  string
	MaxFileSize int64
	AllowedExts []string
}

// Ledger is the slice of the metadata registry the manager needs.
type Ledger interface {
	InsertFile(userID int64, filename, contentType string, size int64) (*models.FileRecord, error)
	GetFile(userID int64, filename string) (*models.FileRecord, error)
	ListFiles(userID int64, skip, limit int) ([]models.FileRecord, error)
	DeleteFile(userID int64, filename string) error
}

// Manager sequences filesystem and metadata mutations for upload, listing
// and delete, keeping the two stores consistent under partial failure.
type Manager struct {
	cfg      Config
	resolver *sandbox.Resolver
	ledger   Ledger
	allowed  map[string]bool
}

// New creates a Manager. The sandbox resolver is rooted at cfg.UploadRoot,
// which is created if absent.
func New(cfg Config, ledger Ledger) (*Manager, error) {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if len(cfg.AllowedExts) == 0 {
		cfg.AllowedExts = DefaultAllowedExts
	}

	resolver, err := sandbox.New(cfg.UploadRoot)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(cfg.AllowedExts))
	for _, ext := range cfg.AllowedExts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}

	return &Manager{
		cfg:      cfg,
		resolver: resolver,
		ledger:   ledger,
		allowed:  allowed,
	}, nil
}

// Resolver exposes the sandbox resolver, mainly for tests.
func (m *Manager) Resolver() *sandbox.Resolver {
	return m.resolver
}

// MaxFileSize returns the configured upload size limit.
func (m *Manager) MaxFileSize() int64 {
	return m.cfg.MaxFileSize
}
