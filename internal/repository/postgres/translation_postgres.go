package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"translateapi/internal/model"
	"translateapi/internal/repository"
)

var translationColumns = []string{
	"id", "user_id", "origin_name", "file_name", "file_path", "file_type", "file_size",
	"to_language", "translated", "translated_file_path", "created_at", "updated_at",
}

// TranslationPostgres is a PostgreSQL implementation of repository.TranslationRepository.
type TranslationPostgres struct {
	base
}

// NewTranslationPostgres creates a new TranslationPostgres repository.
func NewTranslationPostgres(db *sql.DB) *TranslationPostgres {
	return &TranslationPostgres{base: newBase(db)}
}

var _ repository.TranslationRepository = (*TranslationPostgres)(nil)

func scanTranslation(row rowScanner) (*model.TranslationJob, error) {
	var (
		j    model.TranslationJob
		path sql.NullString
	)
	if err := row.Scan(
		&j.ID,
		&j.UserID,
		&j.OriginName,
		&j.FileName,
		&j.FilePath,
		&j.FileType,
		&j.FileSize,
		&j.ToLanguage,
		&j.Translated,
		&path,
		&j.CreatedAt,
		&j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if path.Valid {
		j.TranslatedFilePath = &path.String
	}
	return &j, nil
}

// Create inserts a new pending job and returns the stored record.
func (r *TranslationPostgres) Create(ctx context.Context, job *model.TranslationJob) (*model.TranslationJob, error) {
	q, args, err := r.sq.Insert("translations").
		Columns(translationColumns...).
		Values(
			job.ID,
			job.UserID,
			job.OriginName,
			job.FileName,
			job.FilePath,
			job.FileType,
			job.FileSize,
			job.ToLanguage,
			job.Translated,
			job.TranslatedFilePath,
			job.CreatedAt,
			job.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(translationColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	return scanTranslation(r.db.QueryRowContext(ctx, q, args...))
}

// FindByID fetches a single job by its ID.
func (r *TranslationPostgres) FindByID(ctx context.Context, id string) (*model.TranslationJob, error) {
	q, args, err := r.sq.Select(translationColumns...).
		From("translations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	job, err := scanTranslation(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return job, nil
}

// ListByUser returns every job owned by userID, most recently updated first.
func (r *TranslationPostgres) ListByUser(ctx context.Context, userID string) ([]model.TranslationJob, error) {
	q, args, err := r.sq.Select(translationColumns...).
		From("translations").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TranslationJob, 0)
	for rows.Next() {
		j, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkTranslated records the output path and flips the translated flag in one statement.
func (r *TranslationPostgres) MarkTranslated(ctx context.Context, id, translatedFilePath string) error {
	q, args, err := r.sq.Update("translations").
		Set("translated", true).
		Set("translated_file_path", translatedFilePath).
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
