package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRole(t *testing.T) {
	caller := Caller{ID: "u1", Roles: []string{"Admin", "auditor"}}
	assert.True(t, caller.HasRole("admin"), "role match is case-insensitive")
	assert.True(t, caller.HasRole("auditor"))
	assert.False(t, caller.HasRole("operator"))
	assert.False(t, Caller{}.HasRole("admin"))
}

func TestAdminSet(t *testing.T) {
	set := NewAdminSet([]string{"ops-1", " ops-2 ", ""})

	assert.True(t, set.IsAdmin(Caller{ID: "ops-1"}), "configured id is admin without any role")
	assert.True(t, set.IsAdmin(Caller{ID: "ops-2"}), "ids are trimmed")
	assert.False(t, set.IsAdmin(Caller{ID: "user-1"}))
	assert.False(t, set.IsAdmin(Caller{ID: ""}), "blank entries are dropped, not matched")

	assert.True(t, set.IsAdmin(Caller{ID: "user-1", Roles: []string{AdminRole}}),
		"role claim grants admin independently of the id set")
}

func TestEmptyAdminSet(t *testing.T) {
	set := NewAdminSet(nil)
	assert.False(t, set.IsAdmin(Caller{ID: "anyone"}))
	assert.True(t, set.IsAdmin(Caller{ID: "anyone", Roles: []string{"admin"}}))
}
