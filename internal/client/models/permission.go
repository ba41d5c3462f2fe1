package models

import (
	"encoding/json"
	"strings"
)

// Permission is a single capability. Roles grant fixed sets of them; the
// backend may grant extra ones per user.
type Permission string

const (
	PermViewDashboards   Permission = "view_dashboards"
	PermManageFavorites  Permission = "manage_favorites"
	PermEditDashboards   Permission = "edit_dashboards"
	PermManageDashboards Permission = "manage_dashboards"
	PermManageAreas      Permission = "manage_areas"
	PermManageUsers      Permission = "manage_users"
)

// Known reports whether p is one of the permissions declared above.
func (p Permission) Known() bool {
	switch p {
	case PermViewDashboards, PermManageFavorites, PermEditDashboards,
		PermManageDashboards, PermManageAreas, PermManageUsers:
		return true
	}
	return false
}

func (p *Permission) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = Permission(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// PermissionSet is a set of known permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set, dropping unknown permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		if p.Known() {
			s[p] = struct{}{}
		}
	}
	return s
}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Union returns a new set holding the permissions of both.
func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	out := make(PermissionSet, len(s)+len(other))
	for p := range s {
		out[p] = struct{}{}
	}
	for p := range other {
		out[p] = struct{}{}
	}
	return out
}
