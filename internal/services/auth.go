package services

import (
	"context"

	"github.com/desertthunder/passport/internal/models"
)

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	User    string `json:"user"`
	Session string `json:"session"`
}

// AuthService wraps the UserAuthentication actions.
type AuthService struct {
	client Poster
}

// NewAuthService creates an AuthService over client.
func NewAuthService(client Poster) *AuthService {
	return &AuthService{client: client}
}

// Register creates an account and returns the new user id.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		User string `json:"user"`
	}
	payload := Payload{"username": username, "password": password}
	if err := s.client.Post(ctx, "/UserAuthentication/register", payload, &resp); err != nil {
		return "", err
	}
	return resp.User, nil
}

// Login exchanges credentials for a user id and session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var resp LoginResult
	payload := Payload{"username": username, "password": password}
	if err := s.client.Post(ctx, "/UserAuthentication/login", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout deletes the current session. The token is supplied by the pipeline.
func (s *AuthService) Logout(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := s.client.Post(ctx, "/UserAuthentication/logout", Payload{}, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// UserByUsername looks up the user id for username.
func (s *AuthService) UserByUsername(ctx context.Context, username string) ([]models.Identity, error) {
	var rows []models.Identity
	if err := s.client.Post(ctx, "/UserAuthentication/_getUserByUsername", Payload{"username": username}, &rows); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Username = username
	}
	return rows, nil
}

// Username looks up the username for a user id.
func (s *AuthService) Username(ctx context.Context, user string) ([]string, error) {
	var rows []struct {
		Username string `json:"username"`
	}
	if err := s.client.Post(ctx, "/UserAuthentication/_getUsername", Payload{"user": user}, &rows); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Username)
	}
	return names, nil
}
