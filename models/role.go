package models

// Role is the closed set of account types recognised by the authorization
// layer. Roles are flat: there is no inheritance between them, and every
// protected route declares the exact set it accepts.
type Role string

const (
	// RolePublic is a self-registered citizen account. Public accounts are
	// auto-approved at registration.
	RolePublic Role = "PUBLIC"

	// RoleDataEncoder is a municipal staff account that maintains reference
	// data (routes, fares, locations). Requires admin approval.
	RoleDataEncoder Role = "DATA_ENCODER"

	// RoleEnforcer is a field enforcement officer account. Requires admin
	// approval.
	RoleEnforcer Role = "ENFORCER"

	// RoleAdmin is a system administrator account.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePublic, RoleDataEncoder, RoleEnforcer, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether an account with this role may be created
// through the public registration endpoint. Admin accounts are provisioned
// out of band.
func (r Role) SelfRegistrable() bool {
	switch r {
	case RolePublic, RoleDataEncoder, RoleEnforcer:
		return true
	}
	return false
}
