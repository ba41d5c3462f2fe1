package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_ForgotPassword(t *testing.T) {
	fc := &fakeClient{ForgotRet: &models.ForgotPasswordResult{Message: "sent"}}
	svc := NewAccountService(fc)

	res, err := svc.ForgotPassword(context.Background(), " ann@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "sent", res.Message)
	assert.Equal(t, "ann@example.com", fc.LastEmail)

	_, err = svc.ForgotPassword(context.Background(), "not-an-email")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestAccountService_ResetPassword_Validation(t *testing.T) {
	tests := []struct {
		name              string
		token, pw, repeat string
		want              string
	}{
		{"missing token", " ", "longenough", "longenough", "Reset token is required"},
		{"short password", "t", "short", "short", "Password must be at least 8 characters"},
		{"mismatch", "t", "longenough", "different1", "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{}
			err := NewAccountService(fc).ResetPassword(context.Background(), tt.token, tt.pw, tt.repeat)
			require.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tt.want, err.Error())
			assert.Empty(t, fc.Calls)
		})
	}
}

func TestAccountService_ResetPassword_Success(t *testing.T) {
	fc := &fakeClient{}
	err := NewAccountService(fc).ResetPassword(context.Background(), " reset-1 ", "longenough", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "reset-1", fc.LastToken)
	assert.Equal(t, "longenough", fc.LastPassword)
}

func TestAccountService_UpdateProfile(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAccountService(fc)

	require.ErrorIs(t, svc.UpdateProfile(context.Background(), models.ProfileInput{}), common.ErrValidation)
	require.ErrorIs(t, svc.UpdateProfile(context.Background(), models.ProfileInput{Email: "bad"}), common.ErrValidation)

	require.NoError(t, svc.UpdateProfile(context.Background(), models.ProfileInput{Name: " Ann "}))
	assert.Equal(t, "Ann", fc.LastProfile.Name)
}

func TestAccountService_UpdateUser(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAccountService(fc)

	require.ErrorIs(t, svc.UpdateUser(context.Background(), "", models.UserUpdate{}), common.ErrValidation)
	require.ErrorIs(t, svc.UpdateUser(context.Background(), "1", models.UserUpdate{Role: "root"}), common.ErrValidation)

	require.NoError(t, svc.UpdateUser(context.Background(), "1", models.UserUpdate{Role: "editor"}))
	assert.Equal(t, models.ID("1"), fc.LastID)
}

func TestAccountService_UpdatePassword(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAccountService(fc)
	ctx := context.Background()

	require.ErrorIs(t, svc.UpdatePassword(ctx, "1", "", "longenough", "longenough"), common.ErrValidation)
	require.ErrorIs(t, svc.UpdatePassword(ctx, "1", "old", "longenough", "other-one"), common.ErrValidation)
	assert.Empty(t, fc.Calls)

	require.NoError(t, svc.UpdatePassword(ctx, "1", "old", "longenough", "longenough"))
	assert.Equal(t, models.PasswordChange{CurrentPassword: "old", NewPassword: "longenough"}, fc.LastPasswordChange)
}
