package dispatch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okross/dispatch"
)

func TestHandlerFunc_call(t *testing.T) {
	t.Parallel()

	h := dispatch.HandlerFunc(func(_ context.Context, r *dispatch.Request, _ *dispatch.State) *dispatch.Response {
		return dispatch.NewResponse(r.Parts().Method)
	})

	resp := h.Call(context.Background(), dispatch.NewRequest(http.MethodDelete, "/x", nil), nil)
	assert.Equal(t, http.MethodDelete, string(resp.Body))
}

func TestStack_order(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) dispatch.Layer {
		return func(next dispatch.Handler) dispatch.Handler {
			return dispatch.HandlerFunc(func(ctx context.Context, r *dispatch.Request, s *dispatch.State) *dispatch.Response {
				order = append(order, name+" before")
				resp := next.Call(ctx, r, s)
				order = append(order, name+" after")
				return resp
			})
		}
	}

	h := dispatch.Stack(dispatch.Func0(func(_ context.Context) (string, error) {
		order = append(order, "handler")
		return "done", nil
	}), mark("outer"), mark("inner"))

	resp := h.Call(context.Background(), dispatch.NewRequest(http.MethodGet, "/", nil), nil)

	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []string{
		"outer before",
		"inner before",
		"handler",
		"inner after",
		"outer after",
	}, order)
}

func TestStack_no_layers(t *testing.T) {
	t.Parallel()

	h := dispatch.Stack(dispatch.Func0(func(_ context.Context) (string, error) { return "bare", nil }))

	resp := h.Call(context.Background(), dispatch.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "bare", string(resp.Body))
}

func TestStack_layer_can_replace_response(t *testing.T) {
	t.Parallel()

	deny := func(next dispatch.Handler) dispatch.Handler {
		return dispatch.HandlerFunc(func(ctx context.Context, r *dispatch.Request, s *dispatch.State) *dispatch.Response {
			if r.Parts().Header.Get("Authorization") == "" {
				return dispatch.NewResponse(dispatch.Error(http.StatusUnauthorized, "credentials required"))
			}
			return next.Call(ctx, r, s)
		})
	}

	h := dispatch.Stack(dispatch.Func0(func(_ context.Context) (string, error) {
		return "secret", nil
	}), deny)

	resp := h.Call(context.Background(), dispatch.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	req := dispatch.NewRequest(http.MethodGet, "/", nil)
	req.Parts().Header.Set("Authorization", "Bearer tok")
	resp = h.Call(context.Background(), req, nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "secret", string(resp.Body))
}

func TestBind_carries_state(t *testing.T) {
	t.Parallel()

	s := dispatch.NewState()
	dispatch.Provide(s, "bound value")

	h := dispatch.Func1(func(_ context.Context, v dispatch.FromState[string]) (string, error) {
		return v.Value, nil
	})

	bound := dispatch.Bind(h, s)
	resp := bound.Call(context.Background(), dispatch.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "bound value", string(resp.Body))
}
