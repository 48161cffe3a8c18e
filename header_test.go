package dispatch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okross/dispatch"
)

func TestHeader_binds_tagged_fields(t *testing.T) {
	t.Parallel()

	type meta struct {
		Agent   string `header:"User-Agent"`
		Accept  string `header:"Accept" default:"application/json"`
		Retries int    `header:"X-Retries"`
	}

	var got meta
	h := dispatch.Func1(func(_ context.Context, hd dispatch.Header[meta]) (*dispatch.Response, error) {
		got = hd.Value
		return dispatch.NoContent(), nil
	})

	req := dispatch.NewRequest(http.MethodGet, "/", nil)
	req.Parts().Header.Set("user-agent", "probe/1.0")
	req.Parts().Header.Add("X-Retries", "2")
	req.Parts().Header.Add("X-Retries", "9")

	resp := h.Call(context.Background(), req, nil)

	require.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, "probe/1.0", got.Agent, "lookup is case-insensitive")
	assert.Equal(t, "application/json", got.Accept, "default fills the absent field")
	assert.Equal(t, 2, got.Retries, "first value wins for repeated fields")
}

func TestHeader_parse_failure(t *testing.T) {
	t.Parallel()

	type meta struct {
		Retries int `header:"X-Retries"`
	}

	h := dispatch.Func1(func(_ context.Context, hd dispatch.Header[meta]) (string, error) {
		return "", nil
	})

	req := dispatch.NewRequest(http.MethodGet, "/", nil)
	req.Parts().Header.Set("X-Retries", "many")

	resp := h.Call(context.Background(), req, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Contains(t, string(resp.Body), "X-Retries")
}

func TestCookie_binds_tagged_fields(t *testing.T) {
	t.Parallel()

	type session struct {
		ID    string `cookie:"sid"`
		Theme string `cookie:"theme" default:"light"`
	}

	var got session
	h := dispatch.Func1(func(_ context.Context, c dispatch.Cookie[session]) (*dispatch.Response, error) {
		got = c.Value
		return dispatch.NoContent(), nil
	})

	req := dispatch.NewRequest(http.MethodGet, "/", nil)
	req.Parts().Header.Add("Cookie", "sid=abc123; other=x")

	resp := h.Call(context.Background(), req, nil)

	require.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, session{ID: "abc123", Theme: "light"}, got)
}

func TestCookie_first_value_wins(t *testing.T) {
	t.Parallel()

	type session struct {
		ID string `cookie:"sid"`
	}

	var got session
	h := dispatch.Func1(func(_ context.Context, c dispatch.Cookie[session]) (*dispatch.Response, error) {
		got = c.Value
		return dispatch.NoContent(), nil
	})

	req := dispatch.NewRequest(http.MethodGet, "/", nil)
	req.Parts().Header.Add("Cookie", "sid=first")
	req.Parts().Header.Add("Cookie", "sid=second")

	resp := h.Call(context.Background(), req, nil)

	require.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, "first", got.ID)
}

func TestCookie_malformed_line_skipped(t *testing.T) {
	t.Parallel()

	type session struct {
		ID string `cookie:"sid" default:"anon"`
	}

	var got session
	h := dispatch.Func1(func(_ context.Context, c dispatch.Cookie[session]) (*dispatch.Response, error) {
		got = c.Value
		return dispatch.NoContent(), nil
	})

	req := dispatch.NewRequest(http.MethodGet, "/", nil)
	req.Parts().Header.Add("Cookie", ";;=;;")

	resp := h.Call(context.Background(), req, nil)

	require.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, "anon", got.ID)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		remote string
		want   string
	}{
		"host and port": {remote: "203.0.113.9:4711", want: "203.0.113.9"},
		"bare host":     {remote: "203.0.113.9", want: "203.0.113.9"},
		"ipv6":          {remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		"empty":         {remote: "", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h := dispatch.Func1(func(_ context.Context, ip dispatch.ClientIP) (string, error) {
				return ip.Value, nil
			})

			req := dispatch.NewRequest(http.MethodGet, "/", nil)
			req.Parts().RemoteAddr = tt.remote

			resp := h.Call(context.Background(), req, nil)
			require.Equal(t, http.StatusOK, resp.Status)
			assert.Equal(t, tt.want, string(resp.Body))
		})
	}
}
