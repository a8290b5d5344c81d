package engagement

import (
	"context"

	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
	"github.com/stretchr/testify/mock"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordEngagement(ctx context.Context, features learner.FeatureVector, engagementType string) error {
	args := m.Called(ctx, features, engagementType)
	return args.Error(0)
}
