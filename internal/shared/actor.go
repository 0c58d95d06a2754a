package shared

// Role is the coarse access level assigned to a user within a tenant.
type Role string

const (
	// RoleSuperAdmin may resolve deletion requests and manage tenants.
	RoleSuperAdmin Role = "SUPER_ADMIN"
	// RoleAdmin may manage users within a tenant.
	RoleAdmin Role = "ADMIN"
	// RoleUser is a regular operator.
	RoleUser Role = "USER"
)

// Actor identifies the authenticated user performing an operation.
// Services check it before mutating data; the HTTP layer alone is not
// trusted to gate access.
type Actor struct {
	UserID      string
	TenantID    string
	Role        Role
	Permissions []string
}

// IsSuperAdmin reports whether the actor holds the SUPER_ADMIN role.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// HasModule reports whether the actor is scoped to the named module.
func (a Actor) HasModule(module string) bool {
	if a.IsSuperAdmin() {
		return true
	}
	for _, m := range a.Permissions {
		if m == module {
			return true
		}
	}
	return false
}
