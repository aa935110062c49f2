package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLStore is a shared sender history for multi-host deployments.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL with the given DSN and ensures the
// sender_history table exists.
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sender_history (
			sender_email VARCHAR(320) PRIMARY KEY,
			first_seen TIMESTAMP,
			message_count INT DEFAULT 1
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sender_history table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

func (s *MySQLStore) Seen(ctx context.Context, sender string) (bool, error) {
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

func (s *MySQLStore) MarkSeen(ctx context.Context, sender string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sender_history (sender_email, first_seen, message_count)
		VALUES (?, ?, 1)
		ON DUPLICATE KEY UPDATE message_count = message_count + 1
	`, sender, at)
	if err != nil {
		return fmt.Errorf("failed to record sender: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
