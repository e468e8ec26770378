package types

import "time"

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// FullName is the user's display name as entered at sign-up.
	FullName string `json:"fullname" db:"fullname"`

	// Username is the unique login name, stored lowercase and trimmed.
	Username string `json:"username" db:"username"`

	// Email is the user's email address. It is unique across accounts.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never rendered.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
