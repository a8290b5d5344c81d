package profiling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitDisabled(t *testing.T) {
	viper.Reset()
	Init()
	assert.Nil(t, server)
	assert.NoError(t, Shutdown(context.Background()))
}

func TestHandlerServesIndex(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
