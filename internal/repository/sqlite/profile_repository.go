package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"profile-service/internal/domain"
	"profile-service/internal/repository"
	"profile-service/internal/repository/document"
)

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
	position INTEGER PRIMARY KEY,
	id INTEGER NOT NULL,
	username TEXT NOT NULL,
	password TEXT NOT NULL,
	gender TEXT NOT NULL,
	full_name TEXT NOT NULL,
	street_address TEXT NOT NULL,
	email TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// ProfileRepository keeps the collection as rows ordered by position. Save
// rewrites every row inside one transaction.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func (r *ProfileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Load(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, username, password, gender, full_name, street_address, email, created_at
FROM profiles
ORDER BY position ASC`)
	if err != nil {
		return nil, domain.NewStorageError("load", fmt.Errorf("query profiles: %w", err))
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, domain.NewStorageError("load", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("load", fmt.Errorf("iterate profiles: %w", err))
	}
	return profiles, nil
}

func (r *ProfileRepository) Save(ctx context.Context, profiles []domain.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("save", fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback() // safe no-op on commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return domain.NewStorageError("save", fmt.Errorf("clear profiles: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO profiles (position, id, username, password, gender, full_name, street_address, email, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return domain.NewStorageError("save", fmt.Errorf("prepare insert: %w", err))
	}
	defer stmt.Close()

	for i, p := range profiles {
		if _, err := stmt.ExecContext(ctx,
			i,
			p.ID,
			p.Username,
			p.Password,
			p.Gender,
			p.FullName,
			p.StreetAddress,
			p.Email,
			p.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return domain.NewStorageError("save", fmt.Errorf("insert profile %d: %w", p.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStorageError("save", fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func scanProfile(row interface {
	Scan(dest ...any) error
}) (*domain.Profile, error) {
	var (
		p         domain.Profile
		createdAt string
	)
	if err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Password,
		&p.Gender,
		&p.FullName,
		&p.StreetAddress,
		&p.Email,
		&createdAt,
	); err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	ts, err := document.ParseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("profile %d: %w", p.ID, err)
	}
	p.CreatedAt = ts
	return &p, nil
}
