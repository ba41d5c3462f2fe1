package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/areaportal/internal/client/client"
	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/common"
)

// MinPasswordLength is the shortest password the client submits.
const MinPasswordLength = 8

// AccountService covers password recovery and profile maintenance.
type AccountService interface {
	ForgotPassword(ctx context.Context, email string) (*models.ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, token, password, confirm string) error
	UpdateProfile(ctx context.Context, in models.ProfileInput) error
	UpdateUser(ctx context.Context, id models.ID, in models.UserUpdate) error
	UpdatePassword(ctx context.Context, id models.ID, current, password, confirm string) error
}

type accountService struct {
	client client.Client
}

func NewAccountService(client client.Client) AccountService {
	return &accountService{client: client}
}

func (a *accountService) ForgotPassword(ctx context.Context, email string) (*models.ForgotPasswordResult, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	res, err := a.client.ForgotPassword(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("forgot password error: %w", err)
	}
	return res, nil
}

func (a *accountService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if strings.TrimSpace(token) == "" {
		return common.NewValidationError("Reset token is required")
	}
	if err := validateNewPassword(password, confirm); err != nil {
		return err
	}

	if err := a.client.ResetPassword(ctx, strings.TrimSpace(token), password); err != nil {
		return fmt.Errorf("reset password error: %w", err)
	}
	return nil
}

func (a *accountService) UpdateProfile(ctx context.Context, in models.ProfileInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" && in.Email == "" {
		return common.NewValidationError("Nothing to update")
	}
	if in.Email != "" {
		if err := validateEmail(in.Email); err != nil {
			return err
		}
	}

	if err := a.client.UpdateUserProfile(ctx, in); err != nil {
		return fmt.Errorf("update profile error: %w", err)
	}
	return nil
}

func (a *accountService) UpdateUser(ctx context.Context, id models.ID, in models.UserUpdate) error {
	if id == "" {
		return common.NewValidationError("User id is required")
	}
	if in.Email != "" {
		if err := validateEmail(in.Email); err != nil {
			return err
		}
	}
	if in.Role != "" && models.ParseRole(in.Role) == models.RoleUnknown {
		return common.NewValidationError(fmt.Sprintf("Unknown role %q", in.Role))
	}

	if err := a.client.UpdateUser(ctx, id, in); err != nil {
		return fmt.Errorf("update user error: %w", err)
	}
	return nil
}

func (a *accountService) UpdatePassword(ctx context.Context, id models.ID, current, password, confirm string) error {
	if id == "" {
		return common.NewValidationError("User id is required")
	}
	if current == "" {
		return common.NewValidationError("Current password is required")
	}
	if err := validateNewPassword(password, confirm); err != nil {
		return err
	}

	in := models.PasswordChange{CurrentPassword: current, NewPassword: password}
	if err := a.client.UpdateUserPassword(ctx, id, in); err != nil {
		return fmt.Errorf("update password error: %w", err)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return common.NewValidationError("Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return common.NewValidationError("Email is not valid")
	}
	return nil
}

func validateNewPassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return common.NewValidationError(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if password != confirm {
		return common.NewValidationError("Passwords do not match")
	}
	return nil
}
