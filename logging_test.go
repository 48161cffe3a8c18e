package dispatch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okross/dispatch"
)

func TestLogging_emits_one_line(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := dispatch.Stack(dispatch.Func0(func(_ context.Context) (string, error) {
		return "hello", nil
	}), dispatch.Logging(logger))

	req := dispatch.NewRequest(http.MethodGet, "/greet?name=x", nil)
	req.Parts().RemoteAddr = "203.0.113.9:4711"

	resp := h.Call(context.Background(), req, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, http.MethodGet, line["method"])
	assert.Equal(t, "/greet?name=x", line["target"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.Equal(t, float64(len("hello")), line["size"])
	assert.Equal(t, "203.0.113.9:4711", line["remote"])
	assert.Contains(t, line, "latency")
	assert.NotContains(t, line, "request_id")
}

func TestLogging_includes_request_id(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := dispatch.Stack(
		dispatch.Func0(func(_ context.Context) (string, error) { return "ok", nil }),
		dispatch.RequestIDLayer(dispatch.RequestIDConfig{Generator: func() string { return "rid-1" }}),
		dispatch.Logging(logger),
	)

	h.Call(context.Background(), dispatch.NewRequest(http.MethodGet, "/", nil), nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rid-1", line["request_id"])
}
