package models

// Session is a point-in-time view of the auth state.
type Session struct {
	User          *User
	Loading       bool
	Authenticated bool
}
