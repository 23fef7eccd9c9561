package repository

import (
	"context"
	"time"

	"translateapi/internal/model"
)

// UserRepository defines data access for users and their quota ledger.
type UserRepository interface {
	// Create inserts a user. It returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Delete removes a user. It returns ErrNotFound if no row was deleted.
	Delete(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// ConsumeCharacters atomically decrements character_limit by n.
	// It returns ErrInsufficientQuota, leaving the row untouched, if the result would be negative.
	ConsumeCharacters(ctx context.Context, id string, n int64) (remaining int64, err error)
	// RefundCharacters adds n back to character_limit.
	RefundCharacters(ctx context.Context, id string, n int64) error
}

// SubscriptionRepository defines data access for user subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *model.Subscription) (*model.Subscription, error)
	// ListByUser returns subscriptions in creation order, oldest first.
	ListByUser(ctx context.Context, userID string) ([]model.Subscription, error)
	// Latest returns the most recently created subscription, or ErrNotFound.
	Latest(ctx context.Context, userID string) (*model.Subscription, error)
}

// ResetCodeRepository stores one active password reset code per email.
type ResetCodeRepository interface {
	Upsert(ctx context.Context, email, code string, expiresAt time.Time) error
	Find(ctx context.Context, email string) (*model.ResetCode, error)
	// RecordFailure increments the wrong-guess counter and returns its new value.
	RecordFailure(ctx context.Context, email string) (int, error)
	Delete(ctx context.Context, email string) error
}
