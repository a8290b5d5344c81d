package router

import (
	"github.com/Meesho/BharatMLStack/online-learner/internal/server/controller"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/httpframework"
)

const (
	HealthCheckPath = "/health"
)

// Init expects http framework to be initialized before calling this function
func Init(engine controller.Engine) {
	learnerController := controller.NewLearnerController(engine)
	api := httpframework.Instance().Group("/api")
	{
		v1 := api.Group("/v1")
		{
			sync := v1.Group("/sync")
			sync.GET("/stats", learnerController.SyncStats)
			sync.POST("", learnerController.TriggerSync)
		}
		v1.GET("/model/weights", learnerController.ModelWeights)
		v1.GET("/snapshot/latest", learnerController.LatestSnapshot)
		v1.POST("/engagements", learnerController.RecordEngagement)
	}

	httpframework.Instance().GET(HealthCheckPath, controller.Health)
}
