package domain

const (
	RoleAdmin   = "ADMIN"
	RoleStaff   = "STAFF"
	RoleStudent = "STUDENT"
)

// Identity is the authenticated user's profile as returned by
// /auth/user-details/. It is replaced wholesale on every fetch.
type Identity struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Role   string `json:"role"`
}

// IsStaff reports whether the identity may use the admin endpoints.
func (i Identity) IsStaff() bool {
	return i.Role == RoleAdmin || i.Role == RoleStaff
}

// Registration is the sign-up payload.
type Registration struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"required"`
	Number   string `json:"number"   validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=ADMIN STAFF STUDENT"`
}
