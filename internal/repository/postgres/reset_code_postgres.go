package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"translateapi/internal/model"
	"translateapi/internal/repository"
)

// ResetCodePostgres is a PostgreSQL implementation of repository.ResetCodeRepository.
type ResetCodePostgres struct {
	base
}

// NewResetCodePostgres creates a new ResetCodePostgres repository.
func NewResetCodePostgres(db *sql.DB) *ResetCodePostgres {
	return &ResetCodePostgres{base: newBase(db)}
}

var _ repository.ResetCodeRepository = (*ResetCodePostgres)(nil)

// Upsert replaces any earlier code for email and clears its failure count.
func (r *ResetCodePostgres) Upsert(ctx context.Context, email, code string, expiresAt time.Time) error {
	q, args, err := r.sq.Insert("reset_codes").
		Columns("email", "code", "expires_at", "attempts").
		Values(email, code, expiresAt, 0).
		Suffix("ON CONFLICT (email) DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, attempts = 0").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *ResetCodePostgres) Find(ctx context.Context, email string) (*model.ResetCode, error) {
	q, args, err := r.sq.Select("email", "code", "expires_at", "attempts").
		From("reset_codes").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var rc model.ResetCode
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&rc.Email, &rc.Code, &rc.ExpiresAt, &rc.Attempts); err != nil {
		return nil, notFound(err)
	}
	return &rc, nil
}

func (r *ResetCodePostgres) RecordFailure(ctx context.Context, email string) (int, error) {
	q, args, err := r.sq.Update("reset_codes").
		Set("attempts", sq.Expr("attempts + 1")).
		Where(sq.Eq{"email": email}).
		Suffix("RETURNING attempts").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, notFound(err)
	}
	return n, nil
}

func (r *ResetCodePostgres) Delete(ctx context.Context, email string) error {
	q, args, err := r.sq.Delete("reset_codes").Where(sq.Eq{"email": email}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}
