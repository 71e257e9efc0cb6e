package models

type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleContractor UserRole = "contractor"
	UserRoleClient     UserRole = "client"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleContractor, UserRoleClient:
		return true
	}
	return false
}

// User is the signed-in principal as the browser caches it. It is display
// state only and carries no authority on the server.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}
