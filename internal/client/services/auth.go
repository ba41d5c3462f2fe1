// Package services contains the application services of the portal client.
// This file defines the authentication service: login, remote logout,
// current-user lookup and the liveness probe.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/areaportal/internal/client/client"
	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/common"
)

// AuthService defines the authentication operations used by the session
// manager.
//
// Contract:
//   - Login: exchange credentials for a token and its user. Empty email or
//     password fail locally with a validation error.
//   - Logout: invalidate the current token server-side.
//   - RevokeToken: invalidate a specific token server-side.
//   - FetchCurrentUser: resolve a token to its user.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// Persisting the token is not part of this service; the session manager
// does it together with the cached user.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Logout(ctx context.Context) error
	RevokeToken(ctx context.Context, token string) error
	FetchCurrentUser(ctx context.Context, token string) (*models.User, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
}

func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

func (a *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, common.NewValidationError("Email and password are required")
	}

	token, user, err := a.client.Login(ctx, email, password)
	if err != nil {
		return "", nil, fmt.Errorf("login error: %w", err)
	}
	return token, user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	return nil
}

func (a *authService) RevokeToken(ctx context.Context, token string) error {
	if err := a.client.RevokeToken(ctx, token); err != nil {
		return fmt.Errorf("revoke token error: %w", err)
	}
	return nil
}

func (a *authService) FetchCurrentUser(ctx context.Context, token string) (*models.User, error) {
	u, err := a.client.FetchCurrentUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch current user error: %w", err)
	}
	return u, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
