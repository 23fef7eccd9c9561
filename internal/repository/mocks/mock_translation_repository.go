package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"translateapi/internal/model"
)

type MockTranslationRepository struct {
	mock.Mock
}

func (m *MockTranslationRepository) Create(ctx context.Context, job *model.TranslationJob) (*model.TranslationJob, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranslationJob), args.Error(1)
}

func (m *MockTranslationRepository) FindByID(ctx context.Context, id string) (*model.TranslationJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranslationJob), args.Error(1)
}

func (m *MockTranslationRepository) ListByUser(ctx context.Context, userID string) ([]model.TranslationJob, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TranslationJob), args.Error(1)
}

func (m *MockTranslationRepository) MarkTranslated(ctx context.Context, id, translatedFilePath string) error {
	args := m.Called(ctx, id, translatedFilePath)
	return args.Error(0)
}
