package profiling

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	once   sync.Once
	server *http.Server
)

// Init starts the pprof server on PROFILING_PORT when PROFILING_ENABLED is set
func Init() {
	if !viper.GetBool("PROFILING_ENABLED") {
		log.Info().Msg("Profiling is not enabled!")
		return
	}
	once.Do(func() {
		port := viper.GetInt("PROFILING_PORT")
		if port == 0 {
			log.Fatal().Msg("PROFILING_PORT is not set!")
		}
		server = &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Msgf("Starting profiling server on %v", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("profiling server stopped")
			}
		}()
	})
}

// Handler serves the pprof endpoints under /debug/pprof/
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// Shutdown stops the profiling server if it was started
func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
