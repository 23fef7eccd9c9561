package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"translateapi/internal/model"
	"translateapi/internal/payment"
	"translateapi/internal/repository"
)

const (
	subscriptionProductName  = "Monthly Subscription"
	subscriptionUnitAmount   = 1000
	SubscriptionStatusActive = "active"
)

// ProductResult is the product and recurring price created for the subscription plan.
type ProductResult struct {
	Product payment.Product `json:"product"`
	Price   payment.Price   `json:"price"`
}

// CheckoutService covers subscription purchase.
type CheckoutService interface {
	CreateProduct(ctx context.Context) (*ProductResult, error)
	// CreateCheckoutSession opens a payment session and records a one-month subscription for the user.
	CreateCheckoutSession(ctx context.Context, userID string, items []payment.LineItem) (string, error)
	ListSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error)
	// CurrentSubscription returns the most recent subscription, or nil if the user has none.
	CurrentSubscription(ctx context.Context, userID string) (*model.Subscription, error)
}

type checkoutService struct {
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	provider payment.Provider
	log      zerolog.Logger
	now      func() time.Time
}

// NewCheckoutService constructs a new CheckoutService.
func NewCheckoutService(users repository.UserRepository, subs repository.SubscriptionRepository, provider payment.Provider, log zerolog.Logger) CheckoutService {
	return &checkoutService{
		users:    users,
		subs:     subs,
		provider: provider,
		log:      log.With().Str("component", "checkout").Logger(),
		now:      time.Now,
	}
}

func (s *checkoutService) CreateProduct(ctx context.Context) (*ProductResult, error) {
	product, price, err := s.provider.CreateProduct(ctx, subscriptionProductName, subscriptionUnitAmount, payment.IntervalMonth)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &ProductResult{Product: product, Price: price}, nil
}

func validateItems(items []payment.LineItem) error {
	if len(items) == 0 {
		return newError(ErrValidation, MsgMissingFields)
	}
	for i, it := range items {
		if it.Name == "" || it.Price <= 0 || it.Quantity <= 0 {
			return newError(ErrValidation, fmt.Sprintf("items[%d] needs a name, a positive price and a positive quantity", i))
		}
	}
	return nil
}

func (s *checkoutService) CreateCheckoutSession(ctx context.Context, userID string, items []payment.LineItem) (string, error) {
	if userID == "" {
		return "", newError(ErrValidation, MsgMissingFields)
	}
	if err := validateItems(items); err != nil {
		return "", err
	}
	if !validID(userID) {
		return "", newError(ErrNotFound, MsgUserNotFound)
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", newError(ErrNotFound, MsgUserNotFound)
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	sessionID, err := s.provider.CreateCheckoutSession(ctx, items)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	start := s.now().UTC()
	_, err = s.subs.Create(ctx, &model.Subscription{
		UserID:               userID,
		StripeSubscriptionID: sessionID,
		Status:               SubscriptionStatusActive,
		PriceID:              strconv.FormatFloat(items[0].Price, 'f', -1, 64),
		CurrentPeriodStart:   start,
		CurrentPeriodEnd:     start.AddDate(0, 1, 0),
		CreatedAt:            start,
	})
	if err != nil {
		s.log.Error().Err(err).Str("event", "subscription_record_failed").
			Str("user_id", userID).Str("session_id", sessionID).Send()
		return "", fmt.Errorf("record subscription: %w", err)
	}

	s.log.Info().Str("event", "checkout_session").Str("user_id", userID).Str("session_id", sessionID).Send()
	return sessionID, nil
}

func (s *checkoutService) ListSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	if userID == "" {
		return nil, newError(ErrValidation, "userId is required")
	}
	if !validID(userID) {
		return nil, newError(ErrNotFound, MsgUserNotFound)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, MsgUserNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if subs == nil {
		subs = []model.Subscription{}
	}
	return subs, nil
}

func (s *checkoutService) CurrentSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	if userID == "" {
		return nil, newError(ErrValidation, "userId is required")
	}
	if !validID(userID) {
		return nil, newError(ErrNotFound, MsgUserNotFound)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, MsgUserNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	sub, err := s.subs.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest subscription: %w", err)
	}
	return sub, nil
}
