package registry

// Schema contains the SQL statements to create the registry schema.
const Schema = `
-- Users table: registered accounts
CREATE TABLE IF NOT EXISTS users (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    username        TEXT UNIQUE NOT NULL,
    hashed_password TEXT NOT NULL,
    is_active       BOOLEAN DEFAULT TRUE,
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Files table: one row per stored object, scoped to its owner
CREATE TABLE IF NOT EXISTS files (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    filename     TEXT NOT NULL,
    content_type TEXT,
    size         INTEGER NOT NULL,
    upload_date  DATETIME DEFAULT CURRENT_TIMESTAMP,
    user_id      INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    UNIQUE (user_id, filename)
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_files_user ON files(user_id);
CREATE INDEX IF NOT EXISTS idx_files_user_name ON files(user_id, filename);
CREATE INDEX IF NOT EXISTS idx_files_upload_date ON files(user_id, upload_date DESC);
`

// maxFilenameLength is the longest filename accepted by the registry.
const maxFilenameLength = 255
