package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fstore/pkg/models"

	_ "modernc.org/sqlite"
)

// Store is the transactional ledger of users and file metadata, backed by
// SQLite. The File Store Manager is the sole writer of file records.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a registry store with the given database path.
func NewStore(dbPath string) (*Store, error) {
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrDatabaseError, err)
	}

	ctx := context.Background()

	// Enable foreign keys
	if _, err := database.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable foreign keys: %w", ErrDatabaseError, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := database.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %w", ErrDatabaseError, err)
	}

	store := &Store{db: database}
	if err := store.Initialize(); err != nil {
		_ = database.Close()
		return nil, err
	}

	return store, nil
}

// Initialize creates the database schema.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(context.Background(), Schema)
	if err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %w", ErrDatabaseError, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new account with an already-hashed password.
func (s *Store) CreateUser(username, hashedPassword string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	result, err := s.db.ExecContext(context.Background(),
		`INSERT INTO users (username, hashed_password, is_active, created_at) VALUES (?, ?, ?, ?)`,
		username, hashedPassword, true, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return &models.User{
		ID:             userID,
		Username:       username,
		HashedPassword: hashedPassword,
		IsActive:       true,
		CreatedAt:      now,
	}, nil
}

// GetUserByUsername retrieves an account by username.
func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user := &models.User{}
	err := s.db.QueryRowContext(context.Background(),
		`SELECT id, username, hashed_password, is_active, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.HashedPassword, &user.IsActive, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return user, nil
}

// GetUserByID retrieves an account by id.
func (s *Store) GetUserByID(userID int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user := &models.User{}
	err := s.db.QueryRowContext(context.Background(),
		`SELECT id, username, hashed_password, is_active, created_at FROM users WHERE id = ?`,
		userID,
	).Scan(&user.ID, &user.Username, &user.HashedPassword, &user.IsActive, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return user, nil
}

// InsertFile records one uploaded file for a user. The UNIQUE(user_id,
// filename) constraint is the backstop against duplicate records; a
// violation maps to ErrFileExists.
func (s *Store) InsertFile(userID int64, filename, contentType string, size int64) (*models.FileRecord, error) {
	if filename == "" || len(filename) > maxFilenameLength {
		return nil, ErrInvalidFilename
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	result, err := s.db.ExecContext(context.Background(),
		`INSERT INTO files (filename, content_type, size, upload_date, user_id) VALUES (?, ?, ?, ?, ?)`,
		filename, contentType, size, now, userID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrFileExists
		}
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	recordID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return &models.FileRecord{
		ID:          recordID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		UploadDate:  now,
		UserID:      userID,
	}, nil
}

// GetFile retrieves the record for one (user, filename) pair.
func (s *Store) GetFile(userID int64, filename string) (*models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record := &models.FileRecord{}
	var contentType sql.NullString
	err := s.db.QueryRowContext(context.Background(),
		`SELECT id, filename, content_type, size, upload_date, user_id
		 FROM files WHERE user_id = ? AND filename = ?`,
		userID, filename,
	).Scan(&record.ID, &record.Filename, &contentType, &record.Size, &record.UploadDate, &record.UserID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if contentType.Valid {
		record.ContentType = contentType.String
	}

	return record, nil
}

// ListFiles returns one page of a user's records, most recent upload first.
// The id tiebreak keeps pages disjoint when upload timestamps collide.
func (s *Store) ListFiles(userID int64, skip, limit int) ([]models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}

	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, filename, content_type, size, upload_date, user_id
		 FROM files WHERE user_id = ?
		 ORDER BY upload_date DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.FileRecord
	for rows.Next() {
		var (
			record      models.FileRecord
			contentType sql.NullString
		)
		scanErr := rows.Scan(&record.ID, &record.Filename, &contentType, &record.Size, &record.UploadDate, &record.UserID)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, scanErr)
		}
		if contentType.Valid {
			record.ContentType = contentType.String
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return records, nil
}

// DeleteFile removes the record for one (user, filename) pair. Zero affected
// rows means the record never existed.
func (s *Store) DeleteFile(userID int64, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(context.Background(),
		`DELETE FROM files WHERE user_id = ? AND filename = ?`,
		userID, filename,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if rowsAffected == 0 {
		return ErrFileNotFound
	}

	return nil
}
