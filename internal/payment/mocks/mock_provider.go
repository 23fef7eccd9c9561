package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"translateapi/internal/payment"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateProduct(ctx context.Context, name string, unitAmount int64, interval string) (payment.Product, payment.Price, error) {
	args := m.Called(ctx, name, unitAmount, interval)
	return args.Get(0).(payment.Product), args.Get(1).(payment.Price), args.Error(2)
}

func (m *MockProvider) CreateCheckoutSession(ctx context.Context, items []payment.LineItem) (string, error) {
	args := m.Called(ctx, items)
	return args.String(0), args.Error(1)
}
