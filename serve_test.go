package dispatch_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okross/dispatch"
)

func TestPatternParams(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pattern string
		want    []string
	}{
		"empty":            {pattern: "", want: nil},
		"no wildcards":     {pattern: "/users", want: nil},
		"method and param": {pattern: "GET /users/{id}", want: []string{"id"}},
		"trailing rest":    {pattern: "/files/{path...}", want: []string{"path"}},
		"host prefix":      {pattern: "GET example.com/users/{id}", want: []string{"id"}},
		"exact end marker": {pattern: "/items/{$}", want: nil},
		"multiple params":  {pattern: "POST /a/{x}/b/{y}", want: []string{"x", "y"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dispatch.PatternParams(tt.pattern))
		})
	}
}

func TestFromHTTP(t *testing.T) {
	t.Parallel()

	hr := httptest.NewRequest(http.MethodPost, "/items?page=2", strings.NewReader("payload"))
	hr.Header.Set("X-Probe", "yes")

	req := dispatch.FromHTTP(hr)
	p := req.Parts()

	assert.Equal(t, http.MethodPost, p.Method)
	assert.Equal(t, "/items?page=2", p.Target)
	assert.Equal(t, "HTTP/1.1", p.Proto)
	assert.Equal(t, "yes", p.Header.Get("X-Probe"))
	assert.Equal(t, "192.0.2.1:1234", p.RemoteAddr)
	assert.Equal(t, "2", p.Query().Get("page"))

	data, err := req.Body().ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestServeHTTP_writes_response(t *testing.T) {
	t.Parallel()

	h := dispatch.Func1(func(_ context.Context, body dispatch.Text) (string, error) {
		return strings.ToUpper(body.Value), nil
	})

	rec := httptest.NewRecorder()
	dispatch.Serve(h, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shout", strings.NewReader("quiet")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "QUIET", rec.Body.String())
}

func TestRegister_routes_with_path_params(t *testing.T) {
	t.Parallel()

	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	mux := http.NewServeMux()
	dispatch.Register(mux, http.MethodGet, "/items/{id}", dispatch.Func1(func(_ context.Context, p dispatch.Path[string]) (*item, error) {
		return &item{ID: p.Value, Name: "thing " + p.Value}, nil
	}), nil)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/items/42", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, item{ID: "42", Name: "thing 42"}, got)
}

func TestRegister_method_routing(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	dispatch.Register(mux, http.MethodPost, "/items", dispatch.Func0(func(_ context.Context) (string, error) {
		return "created", nil
	}), nil)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/items", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServe_full_pipeline(t *testing.T) {
	t.Parallel()

	type createReq struct {
		Name string `json:"name" minLength:"3"`
	}
	type createResp struct {
		Name      string `json:"name"`
		Store     string `json:"store"`
		RequestID string `json:"request_id"`
	}

	s := dispatch.NewState()
	dispatch.Provide(s, "inventory")

	h := dispatch.Stack(
		dispatch.Func3(func(_ context.Context, store dispatch.FromState[string], rid dispatch.Extension[dispatch.RequestID], in dispatch.JSON[createReq]) (dispatch.Responder, error) {
			return dispatch.Status(http.StatusCreated, &createResp{
				Name:      in.Value.Name,
				Store:     store.Value,
				RequestID: string(rid.Value),
			}), nil
		}),
		dispatch.RequestIDLayer(),
	)

	mux := http.NewServeMux()
	dispatch.Register(mux, http.MethodPost, "/items", h, s)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/items", strings.NewReader(`{"name":"widget"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got createResp
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "widget", got.Name)
	assert.Equal(t, "inventory", got.Store)
	assert.Equal(t, resp.Header.Get("X-Request-Id"), got.RequestID)

	bad, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/items", strings.NewReader(`{"name":"ab"}`))
	require.NoError(t, err)
	bad.Header.Set("Content-Type", "application/json")

	badResp, err := http.DefaultClient.Do(bad)
	require.NoError(t, err)
	defer func() { require.NoError(t, badResp.Body.Close()) }()

	assert.Equal(t, http.StatusBadRequest, badResp.StatusCode)
	assert.Equal(t, "application/problem+json", badResp.Header.Get("Content-Type"))
}
