package users

import "time"

// User is a registered account. PasswordHash is a bcrypt hash.
type User struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
