package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/Meesho/BharatMLStack/online-learner/internal/data/model"
	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Engine is the part of *learner.Engine the admin API exposes
type Engine interface {
	RecordEngagement(ctx context.Context, features learner.FeatureVector, engagementType string) error
	PerformIncrementalSync(ctx context.Context) error
	GetSyncStats() learner.SyncStats
	GetModelWeights() map[string]float64
	LatestSnapshot() (learner.Snapshot, bool)
}

type Learner interface {
	SyncStats(ctx *gin.Context)
	ModelWeights(ctx *gin.Context)
	TriggerSync(ctx *gin.Context)
	LatestSnapshot(ctx *gin.Context)
	RecordEngagement(ctx *gin.Context)
}

type LearnerController struct {
	engine Engine
}

func NewLearnerController(engine Engine) Learner {
	return &LearnerController{engine: engine}
}

func (c *LearnerController) SyncStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.engine.GetSyncStats())
}

func (c *LearnerController) ModelWeights(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"weights": c.engine.GetModelWeights()})
}

// TriggerSync runs a pass to completion even if the caller goes away; the request id stays
// on the context for logging.
func (c *LearnerController) TriggerSync(ctx *gin.Context) {
	if err := c.engine.PerformIncrementalSync(context.WithoutCancel(ctx.Request.Context())); err != nil {
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, c.engine.GetSyncStats())
}

func (c *LearnerController) LatestSnapshot(ctx *gin.Context) {
	snapshot, ok := c.engine.LatestSnapshot()
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no snapshot captured yet"})
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

func (c *LearnerController) RecordEngagement(ctx *gin.Context) {
	var request model.EngagementPayload
	if err := ctx.ShouldBindJSON(&request); err != nil {
		log.Error().Err(err).Msg("Error in binding request body")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.engine.RecordEngagement(ctx.Request.Context(), request.Features, request.EngagementType); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, learner.ErrEngagementDropped) {
			status = http.StatusTooManyRequests
		}
		_ = ctx.Error(err)
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusAccepted, gin.H{"message": "Engagement recorded"})
}
