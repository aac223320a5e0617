package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/vibast-solutions/ms-go-autoapply/app/entity"
)

func accountColumns() []string {
	return []string{"id", "email", "app_password", "is_active", "name", "username", "gender", "phone", "blocked_job_position"}
}

func TestAccountRepositoryListActiveComplete(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(accountColumns()).
		AddRow(1, "rani@senders.test", "app-pass-1", true, "Rani", "rani", "female", "+62812", `{"keywords":["guru"],"regex_patterns":["(?i)^sales"]}`).
		AddRow(2, "budi@senders.test", "app-pass-2", true, "Budi", "budi", "male", "", `{}`)

	mock.ExpectQuery("SELECT a.id, a.email").WillReturnRows(rows)

	repo := NewAccountRepository(db)
	records, err := repo.ListActiveComplete(context.Background())
	if err != nil {
		t.Fatalf("ListActiveComplete: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Account.Email != "rani@senders.test" || first.Profile.Gender != entity.GenderFemale {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if len(first.Rules.Keywords) != 1 || first.Rules.Keywords[0] != "guru" {
		t.Fatalf("block rule keywords not decoded: %+v", first.Rules)
	}
	if len(first.Rules.RegexPatterns) != 1 {
		t.Fatalf("block rule patterns not decoded: %+v", first.Rules)
	}

	second := records[1]
	if len(second.Rules.Keywords) != 0 || len(second.Rules.RegexPatterns) != 0 {
		t.Fatalf("expected empty rules, got %+v", second.Rules)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAccountRepositoryBadRulesJSON(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(accountColumns()).
		AddRow(1, "rani@senders.test", "app-pass-1", true, "Rani", "rani", "female", "", `{broken`)
	mock.ExpectQuery("SELECT a.id, a.email").WillReturnRows(rows)

	repo := NewAccountRepository(db)
	if _, err := repo.ListActiveComplete(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
