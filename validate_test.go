package dispatch_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okross/dispatch"
)

type signupInput struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (in *signupInput) Validate() error {
	if !strings.Contains(in.Email, "@") {
		return dispatch.Errorf(http.StatusBadRequest, "invalid email %q", in.Email)
	}
	if in.Role == "root" {
		return errors.New("role root is reserved")
	}
	return nil
}

func TestSelfValidator_passes(t *testing.T) {
	t.Parallel()

	h := dispatch.Func1(func(_ context.Context, in dispatch.JSON[signupInput]) (string, error) {
		return in.Value.Email, nil
	})

	req := dispatch.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"a@b.co","role":"admin"}`))
	req.Parts().Header.Set("Content-Type", "application/json")

	resp := h.Call(context.Background(), req, nil)

	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "a@b.co", string(resp.Body))
}

func TestSelfValidator_status_error(t *testing.T) {
	t.Parallel()

	h := dispatch.Func1(func(_ context.Context, in dispatch.JSON[signupInput]) (string, error) {
		return "", nil
	})

	req := dispatch.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"nope","role":"admin"}`))
	req.Parts().Header.Set("Content-Type", "application/json")

	resp := h.Call(context.Background(), req, nil)

	require.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Contains(t, string(resp.Body), "invalid email")
}

func TestSelfValidator_plain_error(t *testing.T) {
	t.Parallel()

	h := dispatch.Func1(func(_ context.Context, in dispatch.JSON[signupInput]) (string, error) {
		return "", nil
	})

	req := dispatch.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"a@b.co","role":"root"}`))
	req.Parts().Header.Set("Content-Type", "application/json")

	resp := h.Call(context.Background(), req, nil)

	require.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Contains(t, string(resp.Body), "reserved")
}

type constrainedInput struct {
	Name string `json:"name" minLength:"3"`
}

func (in *constrainedInput) Validate() error {
	return errors.New("validator must not run when constraints fail")
}

func TestSelfValidator_runs_after_constraints(t *testing.T) {
	t.Parallel()

	h := dispatch.Func1(func(_ context.Context, in dispatch.JSON[constrainedInput]) (string, error) {
		return "", nil
	})

	req := dispatch.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"x"}`))
	req.Parts().Header.Set("Content-Type", "application/json")

	resp := h.Call(context.Background(), req, nil)

	require.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Contains(t, string(resp.Body), "constraint violation")
	assert.NotContains(t, string(resp.Body), "must not run")
}
