package model

// Roles carried in the credential. Anything else is treated as a plain
// member by the gate.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Identity is the verified caller reference derived from a credential.
// Immutable for the lifetime of a session once verified.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Authenticated reports whether the identity came out of a verified
// credential. The zero Identity is anonymous.
func (i Identity) Authenticated() bool { return i.ID != "" }

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
