package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ecoswap/backend/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	product_name   TEXT NOT NULL,
	product_type   TEXT NOT NULL,
	is_sustainable INTEGER NOT NULL,
	reason         TEXT NOT NULL,
	alternatives   TEXT NOT NULL,
	created_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

// SQLiteStore persists analysis history for the recent-analyses endpoint.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path. Use
// ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save inserts one analysis record, filling in its ID.
func (s *SQLiteStore) Save(ctx context.Context, record *domain.AnalysisRecord) error {
	if record == nil {
		return domain.ErrInvalidRequest
	}

	alternatives, err := json.Marshal(record.Alternatives)
	if err != nil {
		return fmt.Errorf("failed to encode alternatives: %w", err)
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (product_name, product_type, is_sustainable, reason, alternatives, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ProductName, record.ProductType, record.IsSustainable,
		record.Reason, string(alternatives), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		record.ID = id
	}
	record.CreatedAt = createdAt
	return nil
}

// Recent returns the latest analyses, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_name, product_type, is_sustainable, reason, alternatives, created_at
		 FROM analyses ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []domain.AnalysisRecord
	for rows.Next() {
		var record domain.AnalysisRecord
		var alternatives string
		if err := rows.Scan(
			&record.ID, &record.ProductName, &record.ProductType,
			&record.IsSustainable, &record.Reason, &alternatives, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if err := json.Unmarshal([]byte(alternatives), &record.Alternatives); err != nil {
			return nil, fmt.Errorf("failed to decode alternatives: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
