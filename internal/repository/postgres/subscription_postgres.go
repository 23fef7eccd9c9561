package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"translateapi/internal/model"
	"translateapi/internal/repository"
)

var subscriptionColumns = []string{
	"id", "user_id", "stripe_subscription_id", "status", "price_id",
	"current_period_start", "current_period_end", "created_at",
}

// SubscriptionPostgres is a PostgreSQL implementation of repository.SubscriptionRepository.
type SubscriptionPostgres struct {
	base
}

// NewSubscriptionPostgres creates a new SubscriptionPostgres repository.
func NewSubscriptionPostgres(db *sql.DB) *SubscriptionPostgres {
	return &SubscriptionPostgres{base: newBase(db)}
}

var _ repository.SubscriptionRepository = (*SubscriptionPostgres)(nil)

func scanSubscription(row rowScanner) (*model.Subscription, error) {
	var s model.Subscription
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.StripeSubscriptionID,
		&s.Status,
		&s.PriceID,
		&s.CurrentPeriodStart,
		&s.CurrentPeriodEnd,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionPostgres) Create(ctx context.Context, s *model.Subscription) (*model.Subscription, error) {
	q, args, err := r.sq.Insert("subscriptions").
		Columns(subscriptionColumns...).
		Values(
			s.ID,
			s.UserID,
			s.StripeSubscriptionID,
			s.Status,
			s.PriceID,
			s.CurrentPeriodStart,
			s.CurrentPeriodEnd,
			s.CreatedAt,
		).
		Suffix("RETURNING " + strings.Join(subscriptionColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	return scanSubscription(r.db.QueryRowContext(ctx, q, args...))
}

func (r *SubscriptionPostgres) ListByUser(ctx context.Context, userID string) ([]model.Subscription, error) {
	q, args, err := r.sq.Select(subscriptionColumns...).
		From("subscriptions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r *SubscriptionPostgres) Latest(ctx context.Context, userID string) (*model.Subscription, error) {
	q, args, err := r.sq.Select(subscriptionColumns...).
		From("subscriptions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	s, err := scanSubscription(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}
