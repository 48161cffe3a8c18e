package dispatch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okross/dispatch"
)

func pathRequest(method, target string, params map[string]string) *dispatch.Request {
	req := dispatch.NewRequest(method, target, nil)
	for name, val := range params {
		req.Parts().SetPathValue(name, val)
	}
	return req
}

func TestPath_struct_mode(t *testing.T) {
	t.Parallel()

	type key struct {
		Owner string    `path:"owner"`
		ID    uuid.UUID `path:"id"`
		Rev   int       `path:"rev" default:"1"`
	}

	id := uuid.New()
	var got key
	h := dispatch.Func1(func(_ context.Context, p dispatch.Path[key]) (*dispatch.Response, error) {
		got = p.Value
		return dispatch.NoContent(), nil
	})

	req := pathRequest(http.MethodGet, "/files/alice/"+id.String(), map[string]string{
		"owner": "alice",
		"id":    id.String(),
	})
	resp := h.Call(context.Background(), req, nil)

	require.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, key{Owner: "alice", ID: id, Rev: 1}, got)
}

func TestPath_scalar_mode(t *testing.T) {
	t.Parallel()

	t.Run("uuid", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		h := dispatch.Func1(func(_ context.Context, p dispatch.Path[uuid.UUID]) (string, error) {
			return p.Value.String(), nil
		})

		resp := h.Call(context.Background(), pathRequest(http.MethodGet, "/items/"+id.String(), map[string]string{"id": id.String()}), nil)

		require.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, id.String(), string(resp.Body))
	})

	t.Run("int", func(t *testing.T) {
		t.Parallel()

		h := dispatch.Func1(func(_ context.Context, p dispatch.Path[int]) (int, error) {
			return p.Value * 2, nil
		})

		resp := h.Call(context.Background(), pathRequest(http.MethodGet, "/items/21", map[string]string{"n": "21"}), nil)

		require.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "42", string(resp.Body))
	})
}

func TestPath_scalar_mode_parse_failure(t *testing.T) {
	t.Parallel()

	h := dispatch.Func1(func(_ context.Context, p dispatch.Path[int]) (int, error) {
		return p.Value, nil
	})

	resp := h.Call(context.Background(), pathRequest(http.MethodGet, "/items/abc", map[string]string{"n": "abc"}), nil)

	require.Equal(t, http.StatusBadRequest, resp.Status)

	var pd dispatch.ProblemDetail
	require.NoError(t, json.Unmarshal(resp.Body, &pd))
	assert.Equal(t, "path", pd.Source)
}

func TestPath_scalar_mode_route_mismatch(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		params map[string]string
	}{
		"no captures":  {params: nil},
		"two captures": {params: map[string]string{"a": "1", "b": "2"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h := dispatch.Func1(func(_ context.Context, p dispatch.Path[string]) (string, error) {
				return p.Value, nil
			})

			resp := h.Call(context.Background(), pathRequest(http.MethodGet, "/items", tt.params), nil)
			assert.Equal(t, http.StatusInternalServerError, resp.Status)
		})
	}
}

func TestPath_struct_mode_parse_failure(t *testing.T) {
	t.Parallel()

	type key struct {
		Rev int `path:"rev"`
	}

	h := dispatch.Func1(func(_ context.Context, p dispatch.Path[key]) (int, error) {
		return p.Value.Rev, nil
	})

	resp := h.Call(context.Background(), pathRequest(http.MethodGet, "/files/x", map[string]string{"rev": "latest"}), nil)

	require.Equal(t, http.StatusBadRequest, resp.Status)

	var pd dispatch.ProblemDetail
	require.NoError(t, json.Unmarshal(resp.Body, &pd))
	assert.Equal(t, "path", pd.Source)
	assert.Contains(t, pd.Detail, "rev")
}
