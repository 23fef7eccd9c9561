package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"translateapi/internal/model"
	"translateapi/internal/payment"
	"translateapi/internal/service"
)

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateProduct(ctx context.Context) (*service.ProductResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductResult), args.Error(1)
}

func (m *MockCheckoutService) CreateCheckoutSession(ctx context.Context, userID string, items []payment.LineItem) (string, error) {
	args := m.Called(ctx, userID, items)
	return args.String(0), args.Error(1)
}

func (m *MockCheckoutService) ListSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subscription), args.Error(1)
}

func (m *MockCheckoutService) CurrentSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}
