package entity

import (
	"time"
)

// User is the aggregate root for the credential store.
// PasswordHash always holds a bcrypt hash, never the plaintext.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Mobile       string
	PasswordHash string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
