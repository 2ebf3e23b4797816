package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_CanAccess(t *testing.T) {
	owner := Identity{UserID: "u1", Roles: []string{RoleUser}}
	admin := Identity{UserID: "u2", Roles: []string{RoleUser, RoleAdmin}}
	stranger := Identity{UserID: "u3", Roles: []string{RoleUser}}

	assert.True(t, owner.CanAccess("u1"), "owners access their own resources")
	assert.True(t, admin.CanAccess("u1"), "admins access anything")
	assert.False(t, stranger.CanAccess("u1"))
}

func TestIdentity_HasRole(t *testing.T) {
	identity := Identity{Roles: []string{RoleUser}}
	assert.True(t, identity.HasRole(RoleUser))
	assert.False(t, identity.HasRole(RoleAdmin))

	assert.False(t, Identity{}.HasRole(RoleUser))
}
