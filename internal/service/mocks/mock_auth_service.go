package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"translateapi/internal/mailer"
	"translateapi/internal/model"
	"translateapi/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegisterResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) (mailer.Result, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(mailer.Result), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, password string) error {
	return m.Called(ctx, email, code, password).Error(0)
}
