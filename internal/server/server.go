package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/httpframework"
	"github.com/rs/zerolog/log"
)

// InitServer serves the http framework router on port in the background and returns the server
// so the caller can shut it down
func InitServer(port int) *http.Server {
	if port == 0 {
		log.Panic().Msg("PORT not set")
	}
	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(port),
		Handler: httpframework.Instance(),
	}
	go func() {
		log.Info().Msgf("Server started on port %d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// stop the app if the server does not start
			log.Panic().Msgf("There's an error while starting the server!, error - %v", err)
		}
	}()
	return srv
}

func Shutdown(ctx context.Context, srv *http.Server) {
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error shutting down http server")
	}
}
