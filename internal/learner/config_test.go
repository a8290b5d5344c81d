package learner

import (
	"testing"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{EnableSparseUpdates: true}.WithDefaults()

	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, 1000, cfg.MaxTrainingBuffer)
	assert.Equal(t, 0.01, cfg.LearningRate)
	assert.Equal(t, 0.9, cfg.MomentumDecay)
	assert.Equal(t, 1.0, cfg.GradientClipping)
	assert.Equal(t, 24*time.Hour, cfg.SnapshotInterval)
	assert.Equal(t, time.Second, cfg.BufferLockTimeout)
	assert.Equal(t, ClearModeScoped, cfg.ClearMode)
	assert.True(t, cfg.EnableSparseUpdates)
	assert.False(t, cfg.EnableDenseUpdates)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative sync interval", func(c *Config) { c.SyncInterval = -time.Second }},
		{"negative snapshot interval", func(c *Config) { c.SnapshotInterval = -time.Second }},
		{"negative buffer", func(c *Config) { c.MaxTrainingBuffer = -1 }},
		{"negative learning rate", func(c *Config) { c.LearningRate = -0.1 }},
		{"decay of one", func(c *Config) { c.MomentumDecay = 1 }},
		{"negative decay", func(c *Config) { c.MomentumDecay = -0.5 }},
		{"negative clipping", func(c *Config) { c.GradientClipping = -1 }},
		{"negative lock timeout", func(c *Config) { c.BufferLockTimeout = -time.Millisecond }},
		{"unknown clear mode", func(c *Config) { c.ClearMode = "never" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.WithDefaults().Validate())
		})
	}
}

func TestConfigFromApp(t *testing.T) {
	cfg := ConfigFromApp(config.Configs{
		LearnerSyncIntervalMs:      60000,
		LearnerLearningRate:        ptr(0.05),
		LearnerEnableSparseUpdates: true,
		LearnerBufferLockTimeoutMs: 250,
		LearnerClearMode:           " ALL ",
	})

	assert.Equal(t, time.Minute, cfg.SyncInterval)
	assert.Equal(t, 0.05, cfg.LearningRate)
	assert.Equal(t, 250*time.Millisecond, cfg.BufferLockTimeout)
	assert.Equal(t, ClearModeAll, cfg.ClearMode)
	assert.True(t, cfg.EnableSparseUpdates)
	assert.False(t, cfg.EnableDenseUpdates)
	assert.Equal(t, 1000, cfg.MaxTrainingBuffer)
	assert.Equal(t, 24*time.Hour, cfg.SnapshotInterval)
	assert.NoError(t, cfg.Validate())
}

func ptr[T any](v T) *T {
	return &v
}

func TestConfigFromAppKeepsExplicitZero(t *testing.T) {
	cfg := ConfigFromApp(config.Configs{
		LearnerLearningRate:  ptr(0.0),
		LearnerMomentumDecay: ptr(0.0),
	})
	assert.Equal(t, 0.0, cfg.LearningRate)
	assert.Equal(t, 0.0, cfg.MomentumDecay)
	assert.NoError(t, cfg.Validate())

	unset := ConfigFromApp(config.Configs{})
	assert.Equal(t, 0.01, unset.LearningRate)
	assert.Equal(t, 0.9, unset.MomentumDecay)
}
