package client

import (
	"context"
	"net/http"

	"github.com/pennywise/pennywise/pkg/user"
)

func (c *Client) Register(ctx context.Context, registration user.RegisterRequest) (user.UserDTO, error) {
	var created user.UserDTO
	err := c.sendJSON(ctx, http.MethodPost, "/auth/register/", registration, &created)
	return created, err
}

// Login exchanges credentials for an access and refresh token pair.
func (c *Client) Login(ctx context.Context, email string, password string) (user.TokenPairDTO, error) {
	var tokens user.TokenPairDTO
	err := c.sendJSON(ctx, http.MethodPost, "/auth/login/", user.LoginRequest{Email: email, Password: password}, &tokens)
	return tokens, err
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var access user.AccessTokenDTO
	err := c.sendJSON(ctx, http.MethodPost, "/auth/refresh/", user.RefreshRequest{Refresh: refreshToken}, &access)
	return access.Access, err
}

func (c *Client) Profile(ctx context.Context) (user.UserDTO, error) {
	var profile user.UserDTO
	err := c.getJSON(ctx, "/auth/profile/", nil, &profile)
	return profile, err
}

func (c *Client) UpdateProfile(ctx context.Context, update user.ProfileUpdateRequest) (user.UserDTO, error) {
	var profile user.UserDTO
	err := c.sendJSON(ctx, http.MethodPut, "/auth/profile/", update, &profile)
	return profile, err
}
