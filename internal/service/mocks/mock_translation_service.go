package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"translateapi/internal/model"
	"translateapi/internal/service"
	"translateapi/internal/storage"
)

type MockTranslationService struct {
	mock.Mock
}

func (m *MockTranslationService) Upload(ctx context.Context, in service.UploadInput) (*model.TranslationJob, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranslationJob), args.Error(1)
}

func (m *MockTranslationService) ListByUser(ctx context.Context, userID string) ([]model.TranslationJob, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TranslationJob), args.Error(1)
}

func (m *MockTranslationService) Translate(ctx context.Context, jobID, userID string) (*model.TranslationJob, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranslationJob), args.Error(1)
}

func (m *MockTranslationService) OpenOutput(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, fileName)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}
