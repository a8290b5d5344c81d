package embedding

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetEmbedding(ctx context.Context, entityType, entityID string) ([]float32, bool, error) {
	args := m.Called(ctx, entityType, entityID)
	var embedding []float32
	if args.Get(0) != nil {
		embedding = args.Get(0).([]float32)
	}
	return embedding, args.Bool(1), args.Error(2)
}

func (m *MockStore) SetEmbedding(ctx context.Context, entityType, entityID string, embedding []float32) error {
	args := m.Called(ctx, entityType, entityID, embedding)
	return args.Error(0)
}

func (m *MockStore) GetSystemStats(ctx context.Context) (SystemStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(SystemStats), args.Error(1)
}
