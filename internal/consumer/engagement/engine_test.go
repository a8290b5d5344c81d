package engagement

import (
	"testing"

	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/embedding"
	"github.com/Meesho/BharatMLStack/online-learner/internal/scheduler"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *learner.Engine {
	t.Helper()
	store := &embedding.MockStore{}
	store.On("GetEmbedding", mock.Anything, mock.Anything, mock.Anything).Return(nil, false, nil)
	engine, err := learner.NewEngine(learner.DefaultConfig(), learner.Dependencies{
		Store:     store,
		Scheduler: scheduler.NewManual(),
	})
	require.NoError(t, err)
	t.Cleanup(engine.Destroy)
	return engine
}
