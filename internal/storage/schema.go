// ABOUTME: SQLite schema for per-session indexed records
// ABOUTME: Vectors are stored as little-endian float64 BLOBs
package storage

// Schema contains all SQL statements for database initialization
const Schema = `
CREATE TABLE IF NOT EXISTS records (
    session_id TEXT NOT NULL,
    record_id TEXT NOT NULL,
    source TEXT NOT NULL,
    source_type TEXT NOT NULL,
    chunk_index INTEGER NOT NULL,
    content TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, record_id)
);

CREATE INDEX IF NOT EXISTS idx_records_session ON records(session_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
