package domain

// Principal identifies the authenticated caller of an operation
type Principal struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the principal carries the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Owns reports whether the principal is the given user
func (p Principal) Owns(userID string) bool {
	return p.UserID == userID
}

// CanManage reports whether the principal may modify a resource owned
// by the given user. Admins can manage anything.
func (p Principal) CanManage(ownerID string) bool {
	return p.IsAdmin() || p.Owns(ownerID)
}
