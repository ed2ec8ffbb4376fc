package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pennywise/pennywise/internal/auth"
	"github.com/pennywise/pennywise/internal/config"
	"github.com/pennywise/pennywise/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*Handler, *auth.TokenService) {
	teardown := setup(t)
	t.Cleanup(teardown)
	tokens, err := auth.NewTokenService(config.Auth{
		Secret:     "handler-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}, utils.SystemClock{})
	require.NoError(t, err)
	return NewHandler(service, tokens), tokens
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestHandler_RegisterAndLogin(t *testing.T) {
	handler, tokens := setupHandlerTest(t)

	// register
	rr := postJSON(t, handler.Register, RegisterRequest{Email: "jane@example.com", Password: "secret-pass", FirstName: "Jane"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created UserDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, "jane@example.com", created.Email)

	// login
	rr = postJSON(t, handler.Login, LoginRequest{Email: "jane@example.com", Password: "secret-pass"})
	require.Equal(t, http.StatusOK, rr.Code)
	var pair TokenPairDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&pair))
	uid, err := tokens.ValidateAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, created.Uid, uid)

	// refresh
	rr = postJSON(t, handler.Refresh, RefreshRequest{Refresh: pair.Refresh})
	require.Equal(t, http.StatusOK, rr.Code)
	var access AccessTokenDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&access))
	assert.NotEmpty(t, access.Access)
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	register(t, "jane@example.com", "secret-pass")

	rr := postJSON(t, handler.Login, LoginRequest{Email: "jane@example.com", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid credentials")
}

func TestHandler_Register_Conflict(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	register(t, "jane@example.com", "secret-pass")

	rr := postJSON(t, handler.Register, RegisterRequest{Email: "jane@example.com", Password: "secret-pass"})

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandler_Register_PasswordTooLong(t *testing.T) {
	handler, _ := setupHandlerTest(t)

	rr := postJSON(t, handler.Register, RegisterRequest{Email: "jane@example.com", Password: strings.Repeat("a", 100)})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "at most 72 bytes")
}

func TestHandler_Refresh_RejectsAccessToken(t *testing.T) {
	handler, tokens := setupHandlerTest(t)
	pair, err := tokens.IssueTokens("some-uid")
	require.NoError(t, err)

	rr := postJSON(t, handler.Refresh, RefreshRequest{Refresh: pair.Access})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_UpdateProfile_WrongCurrentPassword(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	registered := register(t, "jane@example.com", "secret-pass")
	payload, _ := json.Marshal(ProfileUpdateRequest{
		Email:           "jane@example.com",
		CurrentPassword: "wrong-pass",
		NewPassword:     "brand-new-pass",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile/", bytes.NewReader(payload))
	req = req.WithContext(WithUser(context.Background(), registered))
	rr := httptest.NewRecorder()

	handler.UpdateProfile(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Current password is incorrect")
}

func TestHandler_Profile_RequiresUser(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile/", nil)
	rr := httptest.NewRecorder()

	handler.Profile(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
