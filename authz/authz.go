// Package authz provides role-based authorization for the directory API.
// Every route declares the roles allowed to call it; RequireRoles enforces
// that list against the identity attached by the authentication middleware.
package authz

import "strings"

// Role represents a user's role across the whole directory
type Role string

const (
	RoleAdmin          Role = "admin"           // Unrestricted read/write
	RoleProjectManager Role = "project_manager" // Directory views, notes, own project
	RoleEmployee       Role = "employee"        // Base role, self-service only
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleEmployee:
		return true
	}
	return false
}

// ParseRole converts user input into a Role, case-insensitively
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// Allow-lists shared by the route table
var (
	// Anyone accepts any authenticated caller
	Anyone = []Role{}
	// Admins only
	Admins = []Role{RoleAdmin}
	// Managers are admins and project managers
	Managers = []Role{RoleAdmin, RoleProjectManager}
)

// Context keys written by the authentication middleware
const (
	ContextKeyUser   = "user"
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "user_role"
)

// HasRole checks if role appears in allowed. An empty list allows every role.
func HasRole(allowed []Role, role Role) bool {
	if len(allowed) == 0 {
		return role != ""
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
