// Command sample demonstrates the github.com/okross/dispatch module with a
// small user service covering every binder and layer.
//
// Run:
//
//	go run ./cmd/sample
//
// Then explore:
//
//	GET    http://localhost:8080/v1/health          — health check
//	GET    http://localhost:8080/v1/users?role=...  — list users
//	POST   http://localhost:8080/v1/users           — create user (JSON body)
//	GET    http://localhost:8080/v1/users/{id}      — get user
//	PUT    http://localhost:8080/v1/users/{id}      — update user
//	DELETE http://localhost:8080/v1/users/{id}      — delete user
//	POST   http://localhost:8080/v1/echo            — echo a text body
//	GET    http://localhost:8080/v1/whoami          — peer address and request ID
//	GET    http://localhost:8080/metrics            — Prometheus exposition
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okross/dispatch"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting server", "addr", *addr)

	if err := run(ctx, *addr, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func run(ctx context.Context, addr string, logger *slog.Logger) error {
	metrics := dispatch.NewMetrics()

	state := dispatch.NewState()
	dispatch.Provide(state, newUserStore())

	layers := []dispatch.Layer{
		dispatch.Recover(),
		dispatch.RequestIDLayer(),
		dispatch.Logging(logger),
		dispatch.Observe(metrics),
		dispatch.RateLimit(dispatch.RateLimitConfig{Rate: 50, Burst: 100}),
		dispatch.BodyLimit(1 << 20),
	}

	mux := http.NewServeMux()
	mount := func(method, pattern string, h dispatch.Handler) {
		dispatch.Register(mux, method, pattern, dispatch.Stack(h, layers...), state)
	}

	mount(http.MethodGet, "/v1/health", dispatch.Func0(handleHealth))
	mount(http.MethodGet, "/v1/users", dispatch.Func2(handleListUsers))
	mount(http.MethodPost, "/v1/users", dispatch.Func2(handleCreateUser))
	mount(http.MethodGet, "/v1/users/{id}", dispatch.Func2(handleGetUser))
	mount(http.MethodPut, "/v1/users/{id}", dispatch.Func3(handleUpdateUser))
	mount(http.MethodDelete, "/v1/users/{id}", dispatch.Func2(handleDeleteUser))
	mount(http.MethodPost, "/v1/echo", dispatch.Func1(handleEcho))
	mount(http.MethodGet, "/v1/whoami", dispatch.Func2(handleWhoami))

	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ---------------------------------------------------------------------------
// In-memory store
// ---------------------------------------------------------------------------

type userStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

func newUserStore() *userStore {
	s := &userStore{users: make(map[uuid.UUID]*User)}
	for _, seed := range []struct{ name, email, role string }{
		{"Alice", "alice@example.com", "admin"},
		{"Bob", "bob@example.com", "member"},
	} {
		s.create(seed.name, seed.email, seed.role)
	}
	return s
}

func (s *userStore) list(role string) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, *u)
	}
	return out
}

func (s *userStore) get(id uuid.UUID) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

func (s *userStore) create(name, email, role string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}
	s.users[u.ID] = u
	cp := *u
	return &cp
}

func (s *userStore) update(id uuid.UUID, name, email, role string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = email
	}
	if role != "" {
		u.Role = role
	}
	cp := *u
	return &cp, true
}

func (s *userStore) remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}

// ---------------------------------------------------------------------------
// Domain types
// ---------------------------------------------------------------------------

// User is the core domain entity.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type HealthResp struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type ListUsersParams struct {
	Role   string `query:"role"`
	Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"200"`
	Offset int    `query:"offset" default:"0" minimum:"0"`
}

type ListUsersResp struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

type CreateUserInput struct {
	Name  string `json:"name" minLength:"1" maxLength:"100"`
	Email string `json:"email" minLength:"3"`
	Role  string `json:"role"`
}

func (in *CreateUserInput) Validate() error {
	if !strings.Contains(in.Email, "@") {
		return dispatch.Error(http.StatusBadRequest, "email must contain @")
	}
	if in.Role != "" && in.Role != "admin" && in.Role != "member" {
		return dispatch.Errorf(http.StatusBadRequest, "unknown role %q", in.Role)
	}
	return nil
}

type UpdateUserInput struct {
	Name  string `json:"name" maxLength:"100"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type WhoamiResp struct {
	Addr      string `json:"addr"`
	RequestID string `json:"request_id"`
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func handleHealth(_ context.Context) (*HealthResp, error) {
	return &HealthResp{
		Status: "ok",
		Time:   time.Now(),
	}, nil
}

func handleListUsers(_ context.Context, store dispatch.FromState[*userStore], params dispatch.Query[ListUsersParams]) (*ListUsersResp, error) {
	users := store.Value.list(params.Value.Role)
	total := len(users)

	if params.Value.Offset > len(users) {
		users = nil
	} else {
		users = users[params.Value.Offset:]
	}
	if params.Value.Limit > 0 && params.Value.Limit < len(users) {
		users = users[:params.Value.Limit]
	}

	return &ListUsersResp{
		Users: users,
		Total: total,
	}, nil
}

func handleCreateUser(_ context.Context, store dispatch.FromState[*userStore], input dispatch.JSON[CreateUserInput]) (dispatch.Responder, error) {
	role := input.Value.Role
	if role == "" {
		role = "member"
	}
	user := store.Value.create(input.Value.Name, input.Value.Email, role)
	return dispatch.Status(http.StatusCreated, user), nil
}

func handleGetUser(_ context.Context, store dispatch.FromState[*userStore], id dispatch.Path[uuid.UUID]) (*User, error) {
	user, ok := store.Value.get(id.Value)
	if !ok {
		return nil, dispatch.Errorf(http.StatusNotFound, "user %s not found", id.Value)
	}
	return user, nil
}

func handleUpdateUser(_ context.Context, store dispatch.FromState[*userStore], id dispatch.Path[uuid.UUID], input dispatch.JSON[UpdateUserInput]) (*User, error) {
	user, ok := store.Value.update(id.Value, input.Value.Name, input.Value.Email, input.Value.Role)
	if !ok {
		return nil, dispatch.Errorf(http.StatusNotFound, "user %s not found", id.Value)
	}
	return user, nil
}

func handleDeleteUser(_ context.Context, store dispatch.FromState[*userStore], id dispatch.Path[uuid.UUID]) (*dispatch.Response, error) {
	if !store.Value.remove(id.Value) {
		return nil, dispatch.Errorf(http.StatusNotFound, "user %s not found", id.Value)
	}
	return dispatch.NoContent(), nil
}

func handleEcho(_ context.Context, body dispatch.Text) (string, error) {
	if body.Value == "" {
		return "", dispatch.Error(http.StatusBadRequest, "empty body")
	}
	return fmt.Sprintf("echo: %s", body.Value), nil
}

func handleWhoami(_ context.Context, ip dispatch.ClientIP, id dispatch.Extension[dispatch.RequestID]) (*WhoamiResp, error) {
	return &WhoamiResp{
		Addr:      ip.Value,
		RequestID: string(id.Value),
	}, nil
}
