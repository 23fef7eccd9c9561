package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"translateapi/internal/mailer"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) mailer.Result {
	return m.Called(ctx, msg).Get(0).(mailer.Result)
}
