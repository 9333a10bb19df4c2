package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseMatch/pkg/errors"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil, nil, nil)
	w := getPath(t, h.Liveness, "/x")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_ReadinessAllUp(t *testing.T) {
	h := NewHealthHandler(map[string]CheckFunc{
		"postgres":   func(ctx context.Context) error { return nil },
		"opensearch": func(ctx context.Context) error { return nil },
	}, nil, nil)

	w := getPath(t, h.Readiness, "/x")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "ok", resp.Components["postgres"])
}

func TestHealthHandler_ReadinessReportsFailingComponent(t *testing.T) {
	h := NewHealthHandler(map[string]CheckFunc{
		"postgres": func(ctx context.Context) error { return nil },
		"milvus": func(ctx context.Context) error {
			return errors.New(errors.ErrCodeServiceUnavailable, "milvus unreachable")
		},
	}, nil, nil)

	w := getPath(t, h.Readiness, "/x")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "ok", resp.Components["postgres"])
	assert.Contains(t, resp.Components["milvus"], "milvus unreachable")
}

//Personal.AI order the ending
