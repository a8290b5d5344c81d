package engagement

import (
	"context"

	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
)

// Recorder accepts engagements for training, implemented by *learner.Engine
type Recorder interface {
	RecordEngagement(ctx context.Context, features learner.FeatureVector, engagementType string) error
}
