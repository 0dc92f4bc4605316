package domain

import "strings"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleHotel    Role = "hotel"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleHotel, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Phone         string `json:"phone,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

// FullName joins the non-empty name parts.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegistrationForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role,omitempty"`
}
