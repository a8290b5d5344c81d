package httpframework

import (
	"sync"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	router *gin.Engine
	once   sync.Once
)

// Init builds the shared gin engine once. The request id, access log and recovery
// middlewares always run after the given ones.
func Init(middlewares ...gin.HandlerFunc) {
	once.Do(func() {
		if viper.GetString("APP_NAME") == "" {
			log.Fatal().Msg("APP_NAME cannot be empty!!!")
		}
		gin.SetMode(modeFor(viper.GetString("APP_ENV")))
		router = gin.New()
		router.Use(append(middlewares, defaultMiddlewares()...)...)
	})
}

func defaultMiddlewares() []gin.HandlerFunc {
	return []gin.HandlerFunc{middleware.RequestID(), middleware.HTTPLogger(), middleware.HTTPRecovery()}
}

func modeFor(env string) string {
	switch env {
	case "prod", "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// Instance returns the engine built by Init
func Instance() *gin.Engine {
	if router == nil {
		log.Fatal().Msg("Router not initialized")
	}
	return router
}

// ResetForTesting drops the engine so Init can run again
func ResetForTesting() {
	router = nil
	once = sync.Once{}
}
