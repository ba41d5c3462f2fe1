package services

import (
	"context"

	"github.com/dmitrijs2005/areaportal/internal/client/models"
)

// fakeClient implements client.Client for the service unit tests.
type fakeClient struct {
	CloseErr error
	PingErr  error

	LoginToken string
	LoginUser  *models.User
	LoginErr   error
	LogoutErr  error

	MeUser *models.User
	MeErr  error

	ForgotRet *models.ForgotPasswordResult
	ForgotErr error
	ResetErr  error

	ProfileErr  error
	UserErr     error
	PasswordErr error

	Areas    []models.Area
	AreasErr error
	AreaRet  *models.Area
	AreaErr  error

	DashboardRet *models.Dashboard
	DashboardErr error

	Calls []string

	LastEmail          string
	LastPassword       string
	LastToken          string
	LastID             models.ID
	LastProfile        models.ProfileInput
	LastUserUpdate     models.UserUpdate
	LastPasswordChange models.PasswordChange
	LastAreaInput      models.AreaInput
	LastDashboardInput models.DashboardInput
}

func (f *fakeClient) Close() error { f.Calls = append(f.Calls, "Close"); return f.CloseErr }

func (f *fakeClient) Ping(ctx context.Context) error { f.Calls = append(f.Calls, "Ping"); return f.PingErr }

func (f *fakeClient) FetchCurrentUser(ctx context.Context, token string) (*models.User, error) {
	f.Calls = append(f.Calls, "FetchCurrentUser")
	f.LastToken = token
	return f.MeUser, f.MeErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	f.Calls = append(f.Calls, "Login")
	f.LastEmail, f.LastPassword = email, password
	return f.LoginToken, f.LoginUser, f.LoginErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.Calls = append(f.Calls, "Logout")
	return f.LogoutErr
}

func (f *fakeClient) RevokeToken(ctx context.Context, token string) error {
	f.Calls = append(f.Calls, "RevokeToken")
	f.LastToken = token
	return f.LogoutErr
}

func (f *fakeClient) ForgotPassword(ctx context.Context, email string) (*models.ForgotPasswordResult, error) {
	f.Calls = append(f.Calls, "ForgotPassword")
	f.LastEmail = email
	return f.ForgotRet, f.ForgotErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	f.Calls = append(f.Calls, "ResetPassword")
	f.LastToken, f.LastPassword = token, newPassword
	return f.ResetErr
}

func (f *fakeClient) UpdateUserProfile(ctx context.Context, in models.ProfileInput) error {
	f.Calls = append(f.Calls, "UpdateUserProfile")
	f.LastProfile = in
	return f.ProfileErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, id models.ID, in models.UserUpdate) error {
	f.Calls = append(f.Calls, "UpdateUser")
	f.LastID, f.LastUserUpdate = id, in
	return f.UserErr
}

func (f *fakeClient) UpdateUserPassword(ctx context.Context, id models.ID, in models.PasswordChange) error {
	f.Calls = append(f.Calls, "UpdateUserPassword")
	f.LastID, f.LastPasswordChange = id, in
	return f.PasswordErr
}

func (f *fakeClient) GetAllAreas(ctx context.Context) ([]models.Area, error) {
	f.Calls = append(f.Calls, "GetAllAreas")
	return f.Areas, f.AreasErr
}

func (f *fakeClient) CreateArea(ctx context.Context, in models.AreaInput) (*models.Area, error) {
	f.Calls = append(f.Calls, "CreateArea")
	f.LastAreaInput = in
	return f.AreaRet, f.AreaErr
}

func (f *fakeClient) UpdateArea(ctx context.Context, id models.ID, in models.AreaInput) (*models.Area, error) {
	f.Calls = append(f.Calls, "UpdateArea")
	f.LastID, f.LastAreaInput = id, in
	return f.AreaRet, f.AreaErr
}

func (f *fakeClient) DeleteArea(ctx context.Context, id models.ID) error {
	f.Calls = append(f.Calls, "DeleteArea")
	f.LastID = id
	return f.AreaErr
}

func (f *fakeClient) GetDashboardByID(ctx context.Context, id models.ID) (*models.Dashboard, error) {
	f.Calls = append(f.Calls, "GetDashboardByID")
	f.LastID = id
	return f.DashboardRet, f.DashboardErr
}

func (f *fakeClient) CreateDashboard(ctx context.Context, in models.DashboardInput) (*models.Dashboard, error) {
	f.Calls = append(f.Calls, "CreateDashboard")
	f.LastDashboardInput = in
	return f.DashboardRet, f.DashboardErr
}

func (f *fakeClient) UpdateDashboard(ctx context.Context, id models.ID, in models.DashboardInput) (*models.Dashboard, error) {
	f.Calls = append(f.Calls, "UpdateDashboard")
	f.LastID, f.LastDashboardInput = id, in
	return f.DashboardRet, f.DashboardErr
}

func (f *fakeClient) DeleteDashboard(ctx context.Context, id models.ID) error {
	f.Calls = append(f.Calls, "DeleteDashboard")
	f.LastID = id
	return f.DashboardErr
}
