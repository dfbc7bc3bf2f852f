package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fstore/pkg/log"
)

const dirPerm = 0750

var (
	// ErrAccessDenied is returned when a resolved path escapes the user's
	// upload directory.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidName is returned when nothing usable is left of a filename
	// after sanitization.
	ErrInvalidName = errors.New("invalid filename")
)

// Resolver derives and validates on-disk locations for user files. Every
// path it returns is a canonicalized descendant of uploadRoot/<userID>.
type Resolver struct {
	uploadRoot string
}

// New creates a Resolver rooted at uploadRoot. The root is created if absent
// and canonicalized so later containment checks compare real paths.
func New(uploadRoot string) (*Resolver, error) {
	if err := os.MkdirAll(uploadRoot, dirPerm); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}

	canonical, err := filepath.EvalSymlinks(uploadRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}
	canonical, err = filepath.Abs(canonical)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}

	return &Resolver{uploadRoot: canonical}, nil
}

// Root returns the canonical upload root.
func (r *Resolver) Root() string {
	return r.uploadRoot
}

// UserDir returns the canonical upload directory for a user, creating it if
// absent. Creation is idempotent, so concurrent requests for a new user
// cannot fail on each other.
func (r *Resolver) UserDir(userID int64) (string, error) {
	dir := filepath.Join(r.uploadRoot, strconv.FormatInt(userID, 10))
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create user directory: %w", err)
	}

	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", fmt.Errorf("resolve user directory: %w", err)
	}

	if !isWithinBase(canonical, r.uploadRoot) {
		log.Warn().Str("dir", canonical).Str("root", r.uploadRoot).Msg("User directory escapes upload root")
		return "", ErrAccessDenied
	}

	return canonical, nil
}

// SanitizeName strips all directory components from a client-supplied
// filename, returning only the final path segment. It never fails; it only
// narrows the input. "../../etc/passwd" becomes "passwd".
func SanitizeName(raw string) string {
	// Windows clients send backslash-separated paths.
	raw = strings.ReplaceAll(raw, "\\", "/")
	name := filepath.Base(raw)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	if name == ".." {
		return ""
	}
	return name
}

// Resolve joins a filename onto the user's upload directory and verifies the
// canonical result stays inside it. Sanitization and the containment check
// are independent defenses; either alone must hold isolation.
func (r *Resolver) Resolve(userID int64, name string) (string, error) {
	userDir, err := r.UserDir(userID)
	if err != nil {
		return "", err
	}

	safeName := SanitizeName(name)
	if safeName == "" {
		return "", ErrInvalidName
	}

	joined := filepath.Join(userDir, safeName)

	// Canonicalize before comparing. A symlink planted inside the sandbox
	// must not let the resolved target escape it.
	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("resolve file path: %w", err)
		}
		canonical, err = filepath.Abs(filepath.Clean(joined))
		if err != nil {
			return "", fmt.Errorf("resolve file path: %w", err)
		}
	}

	if !isWithinBase(canonical, userDir) {
		log.Warn().
			Int64("user_id", userID).
			Str("name", name).
			Str("resolved", canonical).
			Msg("Path escapes user sandbox")
		return "", ErrAccessDenied
	}

	return canonical, nil
}

// Contains reports whether path is a canonicalized descendant of the user's
// upload directory. Callers re-verify containment at the point of use, not
// only at the point of construction. The base is derived exactly as UserDir
// derives it, so a symlinked user directory compares against the same
// canonical path Resolve produced.
func (r *Resolver) Contains(userID int64, path string) bool {
	userDir, err := r.UserDir(userID)
	if err != nil {
		return false
	}
	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		canonical = filepath.Clean(path)
	}
	return isWithinBase(canonical, userDir) && canonical != userDir
}

// isWithinBase checks if path is base or lies under it.
func isWithinBase(path, base string) bool {
	return path == base || strings.HasPrefix(path, base+string(os.PathSeparator))
}
