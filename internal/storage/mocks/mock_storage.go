package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *MockBlobStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
