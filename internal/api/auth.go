// internal/api/auth.go
package api

import (
	"context"
	"net/url"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/session"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	FullName     string `json:"full_name,omitempty"`
	Role         string `json:"role,omitempty"`
	HospitalName string `json:"hospital_name,omitempty"`
	Department   string `json:"department,omitempty"`
}

// TokenResponse is the OAuth2 token payload returned by the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates an account and returns the new user record.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*session.User, error) {
	var user session.User
	if err := c.postJSON(ctx, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token. The endpoint speaks the
// OAuth2 password flow, so credentials go over as form fields. The caller is
// responsible for persisting the token into the session.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token TokenResponse
	if err := c.postForm(ctx, "/auth/login", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Logout tells the backend to revoke the current token.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/auth/logout", struct{}{}, nil)
}

// Me fetches the profile of the signed-in user.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.getJSON(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
