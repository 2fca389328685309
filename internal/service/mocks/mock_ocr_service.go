package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ocragent/internal/model"
	"ocragent/internal/service"
)

type MockOCRService struct {
	mock.Mock
}

func (m *MockOCRService) ProcessFile(ctx context.Context, data []byte, filename, documentType string, zeroRetention bool) (*model.ExtractionResult, error) {
	args := m.Called(ctx, data, filename, documentType, zeroRetention)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExtractionResult), args.Error(1)
}

func (m *MockOCRService) ProcessBatch(ctx context.Context, files []service.BatchFile, documentType string, zeroRetention bool) (*model.BatchResult, error) {
	args := m.Called(ctx, files, documentType, zeroRetention)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchResult), args.Error(1)
}
