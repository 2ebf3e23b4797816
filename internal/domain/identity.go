package domain

// Role names mirror the ROLES table.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Identity is the authenticated caller, threaded explicitly through every
// service call instead of being read from request-scoped globals.
type Identity struct {
	UserID   string
	Username string
	Roles    []string
}

// HasRole reports whether the caller holds the given role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanAccess is the owner-or-admin rule applied to attempt-scoped resources:
// the caller may access a resource if they own it or hold the admin role.
func (i Identity) CanAccess(ownerID string) bool {
	return i.UserID == ownerID || i.HasRole(RoleAdmin)
}
