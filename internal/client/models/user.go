package models

import (
	"bytes"
	"encoding/json"
	"slices"
)

// AreaRef is the reference to an area carried on the user. The backend sends
// either a bare id or an object; both decode here.
type AreaRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

func (a *AreaRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '{' {
		return a.ID.UnmarshalJSON(b)
	}
	type plain AreaRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = AreaRef(p)
	return nil
}

// User is the identity returned by the API for the current session.
// Values are replaced wholesale, never mutated in place.
type User struct {
	ID          ID           `json:"id"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Name        string       `json:"name,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
	Areas       []AreaRef    `json:"areas,omitempty"`
}

// Clone returns a deep copy; nil stays nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Permissions = slices.Clone(u.Permissions)
	c.Areas = slices.Clone(u.Areas)
	return &c
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// PermissionSet is the role's permissions plus the ones granted explicitly.
func (u *User) PermissionSet() PermissionSet {
	if u == nil {
		return NewPermissionSet()
	}
	return u.Role.Permissions().Union(NewPermissionSet(u.Permissions...))
}

func (u *User) Can(p Permission) bool {
	return u.PermissionSet().Has(p)
}

// CanSeeArea reports whether an area is visible to the user. Admins see every
// area; everyone else only the areas listed on their profile, matched by id
// or slug.
func (u *User) CanSeeArea(area Area) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	for _, ref := range u.Areas {
		if ref.ID != "" && ref.ID == area.ID {
			return true
		}
		if ref.Slug != "" && ref.Slug == area.Slug {
			return true
		}
	}
	return false
}

func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
