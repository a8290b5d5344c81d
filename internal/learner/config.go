package learner

import (
	"fmt"
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/internal/config"
)

const (
	// ClearModeScoped clears only the touched keys and pending updates a pass captured
	ClearModeScoped = "scoped"
	// ClearModeAll clears everything at the end of a pass, including keys added mid-pass
	ClearModeAll = "all"
)

type Config struct {
	SyncInterval        time.Duration
	MaxTrainingBuffer   int
	LearningRate        float64
	MomentumDecay       float64
	GradientClipping    float64
	EnableSparseUpdates bool
	EnableDenseUpdates  bool
	SnapshotInterval    time.Duration
	BufferLockTimeout   time.Duration
	ClearMode           string
}

func DefaultConfig() Config {
	return Config{
		SyncInterval:        5 * time.Minute,
		MaxTrainingBuffer:   1000,
		LearningRate:        0.01,
		MomentumDecay:       0.9,
		GradientClipping:    1.0,
		EnableSparseUpdates: true,
		EnableDenseUpdates:  true,
		SnapshotInterval:    24 * time.Hour,
		BufferLockTimeout:   time.Second,
		ClearMode:           ClearModeScoped,
	}
}

// WithDefaults fills zero valued numeric and string fields from DefaultConfig. The
// enable flags are taken as given. A zero LearningRate or MomentumDecay is replaced too;
// set them after WithDefaults, as ConfigFromApp does, to keep an explicit zero.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.SyncInterval == 0 {
		c.SyncInterval = d.SyncInterval
	}
	if c.MaxTrainingBuffer == 0 {
		c.MaxTrainingBuffer = d.MaxTrainingBuffer
	}
	if c.LearningRate == 0 {
		c.LearningRate = d.LearningRate
	}
	if c.MomentumDecay == 0 {
		c.MomentumDecay = d.MomentumDecay
	}
	if c.GradientClipping == 0 {
		c.GradientClipping = d.GradientClipping
	}
	if c.SnapshotInterval == 0 {
		c.SnapshotInterval = d.SnapshotInterval
	}
	if c.BufferLockTimeout == 0 {
		c.BufferLockTimeout = d.BufferLockTimeout
	}
	if c.ClearMode == "" {
		c.ClearMode = d.ClearMode
	}
	return c
}

func (c Config) Validate() error {
	switch {
	case c.SyncInterval <= 0:
		return fmt.Errorf("sync interval must be positive, got %s", c.SyncInterval)
	case c.SnapshotInterval <= 0:
		return fmt.Errorf("snapshot interval must be positive, got %s", c.SnapshotInterval)
	case c.MaxTrainingBuffer <= 0:
		return fmt.Errorf("max training buffer must be positive, got %d", c.MaxTrainingBuffer)
	case c.LearningRate < 0:
		return fmt.Errorf("learning rate must not be negative, got %v", c.LearningRate)
	case c.MomentumDecay < 0 || c.MomentumDecay >= 1:
		return fmt.Errorf("momentum decay must be in [0,1), got %v", c.MomentumDecay)
	case c.GradientClipping <= 0:
		return fmt.Errorf("gradient clipping must be positive, got %v", c.GradientClipping)
	case c.BufferLockTimeout <= 0:
		return fmt.Errorf("buffer lock timeout must be positive, got %s", c.BufferLockTimeout)
	case c.ClearMode != ClearModeScoped && c.ClearMode != ClearModeAll:
		return fmt.Errorf("unknown clear mode %q", c.ClearMode)
	}
	return nil
}

// ConfigFromApp maps the LEARNER_* settings onto a Config. Unset values are filled by WithDefaults.
// Learning rate and momentum decay are applied whenever they are set, zero included.
func ConfigFromApp(cfg config.Configs) Config {
	c := Config{
		SyncInterval:        time.Duration(cfg.LearnerSyncIntervalMs) * time.Millisecond,
		MaxTrainingBuffer:   cfg.LearnerMaxTrainingBuffer,
		GradientClipping:    cfg.LearnerGradientClipping,
		EnableSparseUpdates: cfg.LearnerEnableSparseUpdates,
		EnableDenseUpdates:  cfg.LearnerEnableDenseUpdates,
		SnapshotInterval:    time.Duration(cfg.LearnerSnapshotIntervalMs) * time.Millisecond,
		BufferLockTimeout:   time.Duration(cfg.LearnerBufferLockTimeoutMs) * time.Millisecond,
		ClearMode:           strings.ToLower(strings.TrimSpace(cfg.LearnerClearMode)),
	}.WithDefaults()
	if cfg.LearnerLearningRate != nil {
		c.LearningRate = *cfg.LearnerLearningRate
	}
	if cfg.LearnerMomentumDecay != nil {
		c.MomentumDecay = *cfg.LearnerMomentumDecay
	}
	return c
}
