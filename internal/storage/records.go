// ABOUTME: Record operations for the per-session vector index
// ABOUTME: Add, cosine similarity search, count, metadata listing, and clear
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/harper/knowledge-agent/internal/models"
)

// Add appends records to a session's partition in one transaction.
// Records are never overwritten; a duplicate ID fails the whole batch.
// Vector widths must agree within the batch and with existing records,
// otherwise the batch fails with models.ErrDimensionMismatch.
func (s *Store) Add(sessionID string, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	dim, err := s.dimension(sessionID)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if len(rec.Vector) == 0 {
			return fmt.Errorf("%w: record %s has an empty vector", models.ErrDimensionMismatch, rec.ID)
		}
		if dim == 0 {
			dim = len(rec.Vector)
		} else if len(rec.Vector) != dim {
			return fmt.Errorf("%w: expected %d, got %d for record %s", models.ErrDimensionMismatch, dim, len(rec.Vector), rec.ID)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO records (session_id, record_id, source, source_type, chunk_index, content, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		if _, err := stmt.Exec(
			sessionID,
			rec.ID,
			rec.Meta.Source,
			string(rec.Meta.SourceType),
			rec.Meta.ChunkIndex,
			rec.Content,
			vectorToBlob(rec.Vector),
		); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// Search returns up to topK records nearest to the query vector by cosine
// similarity, in descending order. An empty partition returns an empty
// result, not an error.
func (s *Store) Search(sessionID string, queryVector []float64, topK int) ([]models.SearchResult, error) {
	if topK <= 0 {
		return []models.SearchResult{}, nil
	}

	rows, err := s.db.Query(`
		SELECT content, source, source_type, chunk_index, vector
		FROM records
		WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []models.SearchResult
	for rows.Next() {
		var (
			result     models.SearchResult
			sourceType string
			blob       []byte
		)
		if err := rows.Scan(&result.Content, &result.Meta.Source, &sourceType, &result.Meta.ChunkIndex, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		result.Meta.SourceType = models.SourceType(sourceType)
		result.Similarity = CosineSimilarity(queryVector, blobToVector(blob))
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topK {
		results = results[:topK]
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	return results, nil
}

// Count returns the number of records in a session's partition
func (s *Store) Count(sessionID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM records WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// ListMetadata returns the metadata of every record in a session's partition
func (s *Store) ListMetadata(sessionID string) ([]models.Metadata, error) {
	rows, err := s.db.Query(`
		SELECT source, source_type, chunk_index
		FROM records
		WHERE session_id = ?
		ORDER BY rowid
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	metadatas := []models.Metadata{}
	for rows.Next() {
		var (
			meta       models.Metadata
			sourceType string
		)
		if err := rows.Scan(&meta.Source, &sourceType, &meta.ChunkIndex); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.SourceType = models.SourceType(sourceType)
		metadatas = append(metadatas, meta)
	}

	return metadatas, rows.Err()
}

// Clear removes all records for a session. Idempotent: clearing an empty
// or unknown session succeeds.
func (s *Store) Clear(sessionID string) error {
	if _, err := s.db.Exec(`DELETE FROM records WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// dimension returns the vector width of a session's existing records,
// or 0 when the partition is empty
func (s *Store) dimension(sessionID string) (int, error) {
	var blobLen int
	err := s.db.QueryRow(`
		SELECT length(vector) FROM records WHERE session_id = ? LIMIT 1
	`, sessionID).Scan(&blobLen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read vector dimension: %w", err)
	}
	return blobLen / 8, nil
}
