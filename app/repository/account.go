package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vibast-solutions/ms-go-autoapply/app/entity"
)

type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository constructs a repository backed by MySQL.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// ListActiveComplete returns active accounts joined with their profile and
// block rules, ordered by account id. Accounts without a profile row are
// not usable senders and are excluded by the inner join.
func (r *AccountRepository) ListActiveComplete(ctx context.Context) ([]entity.AccountRecord, error) {
	const query = `
		SELECT a.id, a.email, a.app_password, a.is_active,
		       p.name, p.username, p.gender, COALESCE(p.phone, ''),
		       COALESCE(d.blocked_job_position, '{}')
		FROM accounts a
		JOIN account_profiles p ON p.account_id = a.id
		LEFT JOIN account_data d ON d.account_id = a.id
		WHERE a.is_active = 1
		ORDER BY a.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active accounts: %w", err)
	}
	defer rows.Close()

	var records []entity.AccountRecord
	for rows.Next() {
		var rec entity.AccountRecord
		var gender string
		var blocked []byte
		if err := rows.Scan(
			&rec.Account.ID, &rec.Account.Email, &rec.Account.AppPassword, &rec.Account.IsActive,
			&rec.Profile.Name, &rec.Profile.Username, &gender, &rec.Profile.Phone,
			&blocked,
		); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		rec.Profile.AccountID = rec.Account.ID
		rec.Profile.Gender = entity.Gender(gender)

		if len(blocked) > 0 {
			if err := json.Unmarshal(blocked, &rec.Rules); err != nil {
				return nil, fmt.Errorf("decode block rules for account %d: %w", rec.Account.ID, err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return records, nil
}
