package postgres

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"translateapi/internal/database"
	"translateapi/internal/repository"
)

// base carries the connection pool and a dollar-placeholder statement builder.
type base struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

func newBase(db *sql.DB) base {
	return base{db: db, sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// notFound maps sql.ErrNoRows and malformed keys to repository.ErrNotFound
// and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if database.IsMalformedValue(err) {
		return repository.ErrNotFound
	}
	return err
}

// affectedOrNotFound returns ErrNotFound when an update or delete touched no rows.
func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
