package repository

import (
	"context"

	"translateapi/internal/model"
)

// TranslationRepository defines data access for translation jobs.
type TranslationRepository interface {
	// Create inserts a new job record and returns the stored row.
	Create(ctx context.Context, job *model.TranslationJob) (*model.TranslationJob, error)

	// FindByID returns a job by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.TranslationJob, error)

	// ListByUser returns a user's jobs, most recently updated first.
	ListByUser(ctx context.Context, userID string) ([]model.TranslationJob, error)

	// MarkTranslated sets translated=true and the output path in a single update.
	// It returns ErrNotFound if the row does not exist.
	MarkTranslated(ctx context.Context, id, translatedFilePath string) error

}
