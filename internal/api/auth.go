package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// AuthResult is the outcome of a login or signup. Offline is set when the
// backend could not be reached and a locally minted token was issued
// instead; callers should tell the user the session is offline-only.
type AuthResult struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	Offline bool   `json:"-"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) AuthResult {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) Signup(ctx context.Context, email, password string) AuthResult {
	return c.authenticate(ctx, "/api/auth/signup", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) AuthResult {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, path, nil, credentials{Email: email, Password: password}, &res)
	if err == nil && res.Token != "" {
		if res.Email == "" {
			res.Email = email
		}
		return res
	}

	if err != nil {
		c.Logger.Warn("authentication request failed, issuing offline token", "error", err)
	}
	return AuthResult{
		Token:   "offline-" + uuid.NewString(),
		Email:   email,
		Offline: true,
	}
}
