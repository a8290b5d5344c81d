package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HTTPLogger logs the request and publishes request count and latency per route
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		// FullPath is the registered pattern, so "/users/:id" rather than "/users/42"
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		statusCode := c.Writer.Status()

		metricTags := metric.BuildTag(
			metric.NewTag(metric.TagPath, route),
			metric.NewTag(metric.TagMethod, method),
			metric.NewTag(metric.TagHttpStatusCode, strconv.Itoa(statusCode)),
		)
		metric.Incr(metric.ApiRequestCount, metricTags)
		metric.Timing(metric.ApiRequestLatency, latency, metricTags)
		log.Info().Msgf("[access] [%s] %s %s %d %v", c.ClientIP(), method, route, statusCode, latency)
	}
}

// HTTPRecovery turns a handler panic into a logged 500
func HTTPRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Msgf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		metric.Incr("api_request_panic", metric.BuildTag(metric.NewTag(metric.TagPath, c.FullPath())))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
