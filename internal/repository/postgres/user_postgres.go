package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"translateapi/internal/database"
	"translateapi/internal/model"
	"translateapi/internal/repository"
)

var userColumns = []string{
	"id", "first_name", "last_name", "email", "password_hash",
	"character_limit", "page_limit", "file_size_limit", "created_at", "updated_at",
}

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	base
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{base: newBase(db)}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.CharacterLimit,
		&u.PageLimit,
		&u.FileSizeLimit,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	q, args, err := r.sq.Insert("users").
		Columns(userColumns...).
		Values(
			u.ID,
			u.FirstName,
			u.LastName,
			u.Email,
			u.PasswordHash,
			u.CharacterLimit,
			u.PageLimit,
			u.FileSizeLimit,
			u.CreatedAt,
			u.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	created, err := scanUser(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return created, nil
}

func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, sq.Eq{"email": email})
}

func (r *UserPostgres) findOne(ctx context.Context, pred sq.Eq) (*model.User, error) {
	q, args, err := r.sq.Select(userColumns...).From("users").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *UserPostgres) Delete(ctx context.Context, id string) error {
	q, args, err := r.sq.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *UserPostgres) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	q, args, err := r.sq.Update("users").
		Set("password_hash", passwordHash).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// ConsumeCharacters decrements the allowance only when enough remains, so two
// concurrent translations can never drive it below zero.
func (r *UserPostgres) ConsumeCharacters(ctx context.Context, id string, n int64) (int64, error) {
	q, args, err := r.sq.Update("users").
		Set("character_limit", sq.Expr("character_limit - ?", n)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(sq.GtOrEq{"character_limit": n}).
		Suffix("RETURNING character_limit").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	var remaining int64
	err = r.db.QueryRowContext(ctx, q, args...).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// No row matched: either the user is gone or the allowance is too small.
	if _, err := r.FindByID(ctx, id); err != nil {
		return 0, err
	}
	return 0, repository.ErrInsufficientQuota
}

func (r *UserPostgres) RefundCharacters(ctx context.Context, id string, n int64) error {
	q, args, err := r.sq.Update("users").
		Set("character_limit", sq.Expr("character_limit + ?", n)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
