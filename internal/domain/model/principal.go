package model

// Role is the authorization role carried by a signed-in principal.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Principal is the authenticated caller of an operation. The zero value is
// an anonymous caller.
type Principal struct {
	ID   string
	Name string
	Role Role
}

// Authenticated reports whether the principal carries an identity.
func (p Principal) Authenticated() bool {
	return p.ID != ""
}

// IsAdmin reports whether the principal may mutate AI server configuration.
func (p Principal) IsAdmin() bool {
	return p.Authenticated() && p.Role == RoleAdmin
}
