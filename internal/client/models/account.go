package models

// ProfileInput updates the caller's own profile.
type ProfileInput struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// UserUpdate is the admin-side update of another user.
type UserUpdate struct {
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Role  string    `json:"role,omitempty"`
	Areas []AreaRef `json:"areas,omitempty"`
}

// PasswordChange changes a user's password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword"`
}

// ForgotPasswordResult is what the API answers to a reset request. Token and
// PreviewURL are only present on development backends.
type ForgotPasswordResult struct {
	Message    string `json:"message"`
	Token      string `json:"token,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}
