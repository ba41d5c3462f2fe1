package models

import (
	"encoding/json"
	"strings"
)

// Role is the closed set of roles the portal understands. Anything else the
// backend sends decodes to RoleUnknown, which satisfies no requirement.
type Role int

const (
	RoleUnknown Role = iota
	RoleViewer
	RoleUser
	RoleEditor
	RoleAdmin
)

// ParseRole maps a backend role string onto a Role, ignoring case and
// surrounding whitespace.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrator":
		return RoleAdmin
	case "editor":
		return RoleEditor
	case "user":
		return RoleUser
	case "viewer":
		return RoleViewer
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleEditor:
		return "Editor"
	case RoleUser:
		return "User"
	case RoleViewer:
		return "Viewer"
	case RoleUnknown:
		return "Unknown"
	}
	return "Unknown"
}

// Satisfies reports whether r meets a required role. Matching is exact on
// the enum; RoleUnknown never satisfies anything, not even RoleUnknown.
func (r Role) Satisfies(required Role) bool {
	if r == RoleUnknown {
		return false
	}
	return r == required
}

// Permissions is the fixed permission set granted by the role.
func (r Role) Permissions() PermissionSet {
	switch r {
	case RoleAdmin:
		return NewPermissionSet(PermViewDashboards, PermManageFavorites, PermEditDashboards,
			PermManageDashboards, PermManageAreas, PermManageUsers)
	case RoleEditor:
		return NewPermissionSet(PermViewDashboards, PermManageFavorites, PermEditDashboards)
	case RoleUser:
		return NewPermissionSet(PermViewDashboards, PermManageFavorites)
	case RoleViewer:
		return NewPermissionSet(PermViewDashboards)
	case RoleUnknown:
		return NewPermissionSet()
	}
	return NewPermissionSet()
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}
