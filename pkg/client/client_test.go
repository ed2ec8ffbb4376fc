package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pennywise/pennywise/internal/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(url string) *Client {
	return New(url, WithMaxRetries(3), WithRetryInterval(time.Millisecond))
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadRequest, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var err error = &APIError{StatusCode: tt.status}
			assert.ErrorIs(t, err, tt.target)
			assert.NotErrorIs(t, err, ErrNotAuthenticated)
		})
	}
	assert.NotErrorIs(t, &APIError{StatusCode: http.StatusInternalServerError}, ErrNotFound)
}

func TestClient_DecodesErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest.WriteError(w, http.StatusConflict, "Category name already used", "Groceries")
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreateCategory(context.Background(), validCategory())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Category name already used", apiErr.Message)
	assert.Equal(t, "Groceries", apiErr.Details)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestClient_Retry(t *testing.T) {
	t.Run("should retry a GET after server errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			rest.WriteJSON(w, http.StatusOK, []any{})
		}))
		defer server.Close()

		categories, err := newTestClient(server.URL).ListCategories(context.Background())

		require.NoError(t, err)
		assert.Empty(t, categories)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("should retry on too many requests and give up after max retries", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		err := newTestClient(server.URL).DeleteCategory(context.Background(), 1)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		assert.Equal(t, int32(4), calls.Load())
	})

	t.Run("should never retry a POST", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).CreateCategory(context.Background(), validCategory())

		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("should not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetCategory(context.Background(), 9)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("should retry network errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := newTestClient(url).ListCategories(context.Background())

		require.Error(t, err)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}

func TestClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).ListCategories(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type staticTokenSource struct {
	token string
	err   error
}

func (s staticTokenSource) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

func TestClient_Authenticated(t *testing.T) {
	var calls atomic.Int32
	var authorization atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		authorization.Store(r.Header.Get("Authorization"))
		rest.WriteJSON(w, http.StatusOK, map[string]any{"id": 1, "email": "jane@example.com"})
	}))
	defer server.Close()
	anonymous := newTestClient(server.URL)

	profile, err := anonymous.Authenticated(staticTokenSource{token: "access-1"}).Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, "Bearer access-1", authorization.Load())

	_, err = anonymous.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", authorization.Load())

	// a missing session fails immediately, without retries or a request
	_, err = anonymous.Authenticated(staticTokenSource{err: ErrNotAuthenticated}).Profile(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, int32(2), calls.Load())
}
