package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestSentLogRepositoryExists(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewSentLogRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("hr@acme.com", "rani@senders.test").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	sent, err := repo.Exists(context.Background(), "rani@senders.test", "hr@acme.com")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !sent {
		t.Fatalf("expected pair to exist")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSentLogRepositoryInsert(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewSentLogRepository(db)
	sentAt := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO sent_logs").
		WithArgs("hr@acme.com", "rani@senders.test", sentAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Insert(context.Background(), "rani@senders.test", "hr@acme.com", sentAt); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSentLogRepositoryInsertConflict(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewSentLogRepository(db)

	mock.ExpectExec("INSERT INTO sent_logs").
		WillReturnError(&mysql.MySQLError{Number: 1062})

	err = repo.Insert(context.Background(), "rani@senders.test", "hr@acme.com", time.Now())
	if !errors.Is(err, ErrAlreadySent) {
		t.Fatalf("expected ErrAlreadySent, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
