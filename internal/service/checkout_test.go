package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"translateapi/internal/model"
	"translateapi/internal/payment"
	payMocks "translateapi/internal/payment/mocks"
	"translateapi/internal/repository"
	repoMocks "translateapi/internal/repository/mocks"
)

type checkoutDeps struct {
	users    *repoMocks.MockUserRepository
	subs     *repoMocks.MockSubscriptionRepository
	provider *payMocks.MockProvider
}

var checkoutNow = time.Date(2024, 1, 31, 9, 30, 0, 0, time.UTC)

func newCheckoutService() (*checkoutService, *checkoutDeps) {
	d := &checkoutDeps{
		users:    new(repoMocks.MockUserRepository),
		subs:     new(repoMocks.MockSubscriptionRepository),
		provider: new(payMocks.MockProvider),
	}
	svc := NewCheckoutService(d.users, d.subs, d.provider, zerolog.Nop()).(*checkoutService)
	svc.now = func() time.Time { return checkoutNow }
	return svc, d
}

func TestCheckoutService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	svc, d := newCheckoutService()

	d.provider.On("CreateProduct", ctx, "Monthly Subscription", int64(1000), payment.IntervalMonth).
		Return(payment.Product{ID: "prod_1", Name: "Monthly Subscription"},
			payment.Price{ID: "price_1", ProductID: "prod_1", UnitAmount: 1000, Currency: "usd", Interval: "month"}, nil)

	res, err := svc.CreateProduct(ctx)
	require.NoError(t, err)
	assert.Equal(t, "prod_1", res.Product.ID)
	assert.Equal(t, int64(1000), res.Price.UnitAmount)
	d.provider.AssertExpectations(t)
}

func TestCheckoutService_CreateCheckoutSession(t *testing.T) {
	ctx := context.Background()
	items := []payment.LineItem{{Name: "Pro", Price: 9.99, Quantity: 1}}

	tests := []struct {
		name       string
		userID     string
		items      []payment.LineItem
		setupMocks func(d *checkoutDeps)
		wantID     string
		wantErr    error
	}{
		{
			name:   "records a one-month active subscription",
			userID: userOne,
			items:  items,
			setupMocks: func(d *checkoutDeps) {
				d.users.On("FindByID", ctx, userOne).Return(&model.User{ID: userOne}, nil)
				d.provider.On("CreateCheckoutSession", ctx, items).Return("cs_test_1", nil)
				d.subs.On("Create", ctx, mock.MatchedBy(func(s *model.Subscription) bool {
					return s.UserID == userOne &&
						s.StripeSubscriptionID == "cs_test_1" &&
						s.Status == "active" &&
						s.PriceID == "9.99" &&
						s.CurrentPeriodStart.Equal(checkoutNow) &&
						s.CurrentPeriodEnd.Equal(time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC))
				})).Return(&model.Subscription{ID: "sub-1"}, nil)
			},
			wantID: "cs_test_1",
		},
		{
			name:   "unknown user opens no session",
			userID: missingID,
			items:  items,
			setupMocks: func(d *checkoutDeps) {
				d.users.On("FindByID", ctx, missingID).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "user id is not a uuid",
			userID:  "abc",
			items:   items,
			wantErr: ErrNotFound,
		},
		{
			name:    "no items",
			userID:  userOne,
			wantErr: ErrValidation,
		},
		{
			name:    "non positive quantity",
			userID:  userOne,
			items:   []payment.LineItem{{Name: "Pro", Price: 10, Quantity: 0}},
			wantErr: ErrValidation,
		},
		{
			name:   "provider error",
			userID: userOne,
			items:  items,
			setupMocks: func(d *checkoutDeps) {
				d.users.On("FindByID", ctx, userOne).Return(&model.User{ID: userOne}, nil)
				d.provider.On("CreateCheckoutSession", ctx, items).Return("", errors.New("card_declined"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newCheckoutService()
			if tt.setupMocks != nil {
				tt.setupMocks(d)
			}

			id, err := svc.CreateCheckoutSession(ctx, tt.userID, tt.items)

			if tt.wantID == "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				d.subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			d.users.AssertExpectations(t)
			d.provider.AssertExpectations(t)
			d.subs.AssertExpectations(t)
		})
	}
}

func TestCheckoutService_CurrentSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("latest", func(t *testing.T) {
		svc, d := newCheckoutService()
		d.users.On("FindByID", ctx, userOne).Return(&model.User{ID: userOne}, nil)
		d.subs.On("Latest", ctx, userOne).Return(&model.Subscription{ID: "sub-2"}, nil)

		sub, err := svc.CurrentSubscription(ctx, userOne)
		require.NoError(t, err)
		assert.Equal(t, "sub-2", sub.ID)
	})

	t.Run("none yet", func(t *testing.T) {
		svc, d := newCheckoutService()
		d.users.On("FindByID", ctx, userOne).Return(&model.User{ID: userOne}, nil)
		d.subs.On("Latest", ctx, userOne).Return(nil, repository.ErrNotFound)

		sub, err := svc.CurrentSubscription(ctx, userOne)
		require.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, d := newCheckoutService()
		d.users.On("FindByID", ctx, missingID).Return(nil, repository.ErrNotFound)

		_, err := svc.CurrentSubscription(ctx, missingID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("user id is not a uuid", func(t *testing.T) {
		svc, d := newCheckoutService()

		_, err := svc.CurrentSubscription(ctx, "abc")
		assert.ErrorIs(t, err, ErrNotFound)
		d.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestCheckoutService_ListSubscriptions(t *testing.T) {
	ctx := context.Background()
	svc, d := newCheckoutService()
	d.users.On("FindByID", ctx, userOne).Return(&model.User{ID: userOne}, nil)
	d.subs.On("ListByUser", ctx, userOne).Return(nil, nil)

	subs, err := svc.ListSubscriptions(ctx, userOne)
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)

	_, err = svc.ListSubscriptions(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ListSubscriptions(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	d.subs.AssertNumberOfCalls(t, "ListByUser", 1)
}
