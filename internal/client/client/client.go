package client

import (
	"context"

	"github.com/dmitrijs2005/areaportal/internal/client/models"
)

// TokenSource supplies the bearer token attached to authenticated calls.
// An empty token means "send the request anonymously".
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the portal REST API as seen by the client.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	// FetchCurrentUser resolves token to its user. It fails with
	// common.ErrUnauthenticated when the token is invalid or expired.
	FetchCurrentUser(ctx context.Context, token string) (*models.User, error)
	// Login exchanges credentials for a token and the user it belongs to.
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	// Logout invalidates the current token server-side. It never fails for
	// a client that is already logged out.
	Logout(ctx context.Context) error
	// RevokeToken invalidates the given token server-side, whatever token
	// the TokenSource currently holds.
	RevokeToken(ctx context.Context, token string) error

	ForgotPassword(ctx context.Context, email string) (*models.ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdateUserProfile(ctx context.Context, in models.ProfileInput) error
	UpdateUser(ctx context.Context, id models.ID, in models.UserUpdate) error
	UpdateUserPassword(ctx context.Context, id models.ID, in models.PasswordChange) error

	GetAllAreas(ctx context.Context) ([]models.Area, error)
	CreateArea(ctx context.Context, in models.AreaInput) (*models.Area, error)
	UpdateArea(ctx context.Context, id models.ID, in models.AreaInput) (*models.Area, error)
	DeleteArea(ctx context.Context, id models.ID) error

	GetDashboardByID(ctx context.Context, id models.ID) (*models.Dashboard, error)
	CreateDashboard(ctx context.Context, in models.DashboardInput) (*models.Dashboard, error)
	UpdateDashboard(ctx context.Context, id models.ID, in models.DashboardInput) (*models.Dashboard, error)
	DeleteDashboard(ctx context.Context, id models.ID) error
}
