package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a file-backed sender history for single-host
// deployments.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens or creates a sender-history database at dbPath.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sender_history (
			sender_email TEXT PRIMARY KEY,
			first_seen TIMESTAMP,
			message_count INTEGER DEFAULT 1
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sender_history table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Seen(ctx context.Context, sender string) (bool, error) {
	var firstSeen string
	err := s.db.QueryRowContext(ctx, `
		SELECT first_seen FROM sender_history WHERE sender_email = ?
	`, sender).Scan(&firstSeen)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query sender history: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) MarkSeen(ctx context.Context, sender string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sender_history (sender_email, first_seen, message_count)
		VALUES (?, ?, 1)
		ON CONFLICT(sender_email) DO UPDATE SET message_count = message_count + 1
	`, sender, at.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record sender: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
