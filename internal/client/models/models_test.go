package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole_CaseInsensitive(t *testing.T) {
	tests := map[string]Role{
		"Admin":   RoleAdmin,
		"admin":   RoleAdmin,
		" ADMIN ": RoleAdmin,
		"Editor":  RoleEditor,
		"user":    RoleUser,
		"Viewer":  RoleViewer,
		"root":    RoleUnknown,
		"":        RoleUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseRole(in), "ParseRole(%q)", in)
	}
}

func TestRole_Satisfies(t *testing.T) {
	assert.True(t, RoleAdmin.Satisfies(RoleAdmin))
	assert.False(t, RoleUser.Satisfies(RoleAdmin))
	assert.False(t, RoleAdmin.Satisfies(RoleUser))
	assert.False(t, RoleUnknown.Satisfies(RoleUnknown))
}

func TestRole_PermissionsAreNested(t *testing.T) {
	admin := RoleAdmin.Permissions()
	for p := range RoleEditor.Permissions() {
		assert.True(t, admin.Has(p), "admin must have editor permission %s", p)
	}
	assert.True(t, RoleUser.Permissions().Has(PermManageFavorites))
	assert.False(t, RoleUser.Permissions().Has(PermManageDashboards))
	assert.False(t, RoleViewer.Permissions().Has(PermManageFavorites))
	assert.Empty(t, RoleUnknown.Permissions())
}

func TestRole_JSONRoundTripUsesCanonicalName(t *testing.T) {
	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"admin"`), &r))
	assert.Equal(t, RoleAdmin, r)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `"Admin"`, string(b))
}

func TestID_DecodesNumbersAndStrings(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[7, "8", null, 12345678901]`), &ids))
	assert.Equal(t, []ID{"7", "8", "", "12345678901"}, ids)

	var bad ID
	require.Error(t, json.Unmarshal([]byte(`{"x":1}`), &bad))
}

func TestUser_Decode(t *testing.T) {
	raw := `{
		"id": 42,
		"email": "ana@example.org",
		"role": "admin",
		"name": "Ana",
		"permissions": ["MANAGE_USERS", "fly"],
		"areas": [3, {"id": "4", "name": "Sales", "slug": "sales"}]
	}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	assert.Equal(t, ID("42"), u.ID)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, []Permission{PermManageUsers, "fly"}, u.Permissions)
	require.Len(t, u.Areas, 2)
	assert.Equal(t, AreaRef{ID: "3"}, u.Areas[0])
	assert.Equal(t, AreaRef{ID: "4", Name: "Sales", Slug: "sales"}, u.Areas[1])
}

func TestUser_CanMergesRoleAndExplicitPermissions(t *testing.T) {
	u := &User{Role: RoleViewer, Permissions: []Permission{PermManageFavorites, "unknown"}}

	assert.True(t, u.Can(PermViewDashboards))
	assert.True(t, u.Can(PermManageFavorites))
	assert.False(t, u.Can(PermManageAreas))
	assert.False(t, u.PermissionSet().Has("unknown"))

	var nilUser *User
	assert.False(t, nilUser.Can(PermViewDashboards))
}

func TestUser_CanSeeArea(t *testing.T) {
	sales := Area{ID: "1", Slug: "sales"}
	hr := Area{ID: "2", Slug: "hr"}

	u := &User{Role: RoleUser, Areas: []AreaRef{{ID: "1"}}}
	assert.True(t, u.CanSeeArea(sales))
	assert.False(t, u.CanSeeArea(hr))

	bySlug := &User{Role: RoleUser, Areas: []AreaRef{{Slug: "hr"}}}
	assert.True(t, bySlug.CanSeeArea(hr))

	admin := &User{Role: RoleAdmin}
	assert.True(t, admin.CanSeeArea(hr))

	var nobody *User
	assert.False(t, nobody.CanSeeArea(sales))
}

func TestUser_CloneIsDeep(t *testing.T) {
	u := &User{ID: "1", Areas: []AreaRef{{ID: "1"}}, Permissions: []Permission{PermManageAreas}}
	c := u.Clone()

	c.Areas[0].ID = "9"
	c.Permissions[0] = PermManageUsers

	assert.Equal(t, ID("1"), u.Areas[0].ID)
	assert.Equal(t, PermManageAreas, u.Permissions[0])

	var nilUser *User
	assert.Nil(t, nilUser.Clone())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana", (&User{Name: "Ana", Email: "a@x"}).DisplayName())
	assert.Equal(t, "a@x", (&User{Email: "a@x"}).DisplayName())
}
