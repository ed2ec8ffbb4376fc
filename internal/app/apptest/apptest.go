// Package apptest runs the API on in-memory storage for tests of its consumers.
package apptest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pennywise/pennywise/internal/app"
	"github.com/pennywise/pennywise/internal/auth"
	"github.com/pennywise/pennywise/internal/config"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/stretchr/testify/require"
)

const Password = "correct-horse"

type Server struct {
	*httptest.Server
	Deps *app.Dependencies
}

// NewServer starts the API and stops it when the test ends. The API lives under URL + "/api".
func NewServer(t testing.TB) *Server {
	t.Helper()
	cfg := config.DefaultApplication()
	cfg.Auth.Secret = "test-secret"
	deps, err := app.BuildDependencies(app.InMemoryRepositories(), cfg)
	require.NoError(t, err)
	server := httptest.NewServer(app.NewRouter(deps))
	t.Cleanup(server.Close)
	return &Server{Server: server, Deps: deps}
}

func (s *Server) ApiUrl() string {
	return s.URL + "/api"
}

// Register creates a user with Password and returns a fresh token pair of it.
func (s *Server) Register(t testing.TB, email string) (user.User, auth.Tokens) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	u, err := s.Deps.UserService.Register(ctx, user.Registration{
		Email:     email,
		Password:  Password,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	tokens, err := s.Deps.TokenService.IssueTokens(u.Uid)
	require.NoError(t, err)
	return u, tokens
}
