package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ErrAlreadySent is returned by Insert when the (sender, target) pair is
// already recorded. Callers treat it as "someone got there first", not as a
// failure.
var ErrAlreadySent = errors.New("sent log entry already exists")

// SentLogRepository is the dedup ledger. The sent_logs table carries a
// unique key over (target_email, sender_email), so concurrent inserts for
// the same pair cannot both succeed, across processes included.
type SentLogRepository struct {
	db *sql.DB
}

// NewSentLogRepository constructs the ledger backed by MySQL.
func NewSentLogRepository(db *sql.DB) *SentLogRepository {
	return &SentLogRepository{db: db}
}

// Exists reports whether sender has already emailed target.
func (r *SentLogRepository) Exists(ctx context.Context, senderEmail, targetEmail string) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM sent_logs
			WHERE target_email = ? AND sender_email = ?
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, targetEmail, senderEmail).Scan(&exists); err != nil {
		return false, fmt.Errorf("check sent log: %w", err)
	}
	return exists, nil
}

// Insert appends a sent-log row. A duplicate-key conflict is reported as
// ErrAlreadySent.
func (r *SentLogRepository) Insert(ctx context.Context, senderEmail, targetEmail string, sentAt time.Time) error {
	const query = `
		INSERT INTO sent_logs (target_email, sender_email, sent_at)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, targetEmail, senderEmail, sentAt.UTC()); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrAlreadySent
		}
		return fmt.Errorf("insert sent log: %w", err)
	}
	return nil
}
