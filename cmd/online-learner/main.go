package main

import (
	"context"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/internal/config"
	"github.com/Meesho/BharatMLStack/online-learner/internal/consumer/engagement"
	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/embedding"
	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/weights"
	"github.com/Meesho/BharatMLStack/online-learner/internal/scheduler"
	"github.com/Meesho/BharatMLStack/online-learner/internal/server"
	"github.com/Meesho/BharatMLStack/online-learner/internal/server/router"
	"github.com/Meesho/BharatMLStack/online-learner/internal/snapshot"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/httpframework"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/infra"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/kafka"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/logger"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/profiling"
	"github.com/rs/zerolog/log"
)

const (
	shutdownTimeout        = 30 * time.Second
	producerFlushTimeoutMs = 10000
)

func main() {
	appConfig := config.GetAppConfig()
	config.InitConfig(appConfig)
	logger.Init()
	metric.Init()
	profiling.Init()
	cfg := appConfig.Configs

	store, err := embedding.NewStore(cfg)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to initialize embedding store")
	}
	weightSink, err := weights.NewSink(cfg)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to initialize dense weight sink")
	}
	snapshotSinks, err := snapshot.NewSinks(cfg)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to initialize snapshot sinks")
	}

	cron := scheduler.NewCron()
	deps := learner.Dependencies{
		Store:         store,
		Scheduler:     cron,
		WeightSink:    weightSink,
		SnapshotSinks: snapshotSinks,
	}
	if cfg.LearnerNoiseSeed != 0 {
		deps.Noise = learner.NewNoiseSource(cfg.LearnerNoiseSeed)
	}
	engine, err := learner.NewEngine(learner.ConfigFromApp(cfg), deps)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to create online learner")
	}
	if err := engine.Start(); err != nil {
		log.Panic().Err(err).Msg("Failed to start online learner")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var listeners []*kafka.Listener
	if cfg.EngagementConsumerKafkaIds != "" {
		limiter := engagement.NewRateLimiter(cfg.EngagementConsumerRateLimit, cfg.EngagementConsumerBurstLimit)
		listeners = engagement.NewConsumer(engine, limiter).Start(ctx, cfg.EngagementConsumerKafkaIds)
		log.Info().Msgf("Started %d engagement listeners", len(listeners))
	}

	httpframework.Init()
	router.Init(engine)
	srv := server.InitServer(cfg.AppPort)
	log.Info().Msgf("online-learner started on port :%d", cfg.AppPort)

	<-ctx.Done()
	log.Info().Msg("Shutting down online-learner")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx, srv)
	for _, l := range listeners {
		l.Wait()
	}
	engine.Destroy()
	cron.Stop()
	kafka.CloseProducers(producerFlushTimeoutMs)
	if closer, ok := weightSink.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("error closing dense weight sink")
		}
	}
	if err := infra.CloseRedis(); err != nil {
		log.Error().Err(err).Msg("error closing redis client")
	}
	if err := profiling.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error stopping profiling server")
	}
	log.Info().Msg("online-learner stopped")
	_ = logger.Close()
}
