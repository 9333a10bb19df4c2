package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseMatch/internal/interfaces/http/handlers"
	"github.com/turtacn/ClauseMatch/internal/interfaces/http/middleware"
)

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		Health: handlers.NewHealthHandler(nil, nil, nil),
		Mode:   "test",
	})
}

func TestRouter_HealthEndpoints(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AssignsRequestID(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_PropagatesCallerRequestID(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "caller-id-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "caller-id-7", w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_UnregisteredHandlersLeaveRoutesOff(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/search", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	req.Header.Set("Origin", "https://legal.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://legal.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

//Personal.AI order the ending
