package user

import "github.com/google/uuid"

// Actor describes the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanSell mirrors User.CanSell for callers that only hold the token claims.
func (a Actor) CanSell() bool {
	return a.Role == RoleTrusted || a.Role == RoleAdmin
}
