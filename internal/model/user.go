package model

import (
	"fmt"
)

// Role is the closed set of capabilities a user can hold. Every user has
// exactly one role, assigned at signup and carried in the access token.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"

	// RoleUnknown is what ParseRole resolves for anything outside the
	// closed set. Authentication treats it as "no role" and refuses access.
	RoleUnknown Role = ""
)

// ParseRole resolves a stored or claimed role string to one of the closed
// variants. Empty strings and unrecognized values both come back as
// RoleUnknown with an error.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(s), nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

// User is the backing identity for every principal in the system. Doctor
// and Patient rows own exactly one user each; deleting the domain row
// deletes the user in the same transaction.
type User struct {
	Base
	Email        string `json:"email" db:"email"`
	Password     string `json:"password,omitempty" db:"-"`
	PasswordHash string `json:"-" db:"password_hash"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	Role         Role   `json:"role" db:"role"`
}

// FullName returns the display name used for appointment and discharge
// snapshots.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
