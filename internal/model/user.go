package model

// User mirrors a row of the users table. Password is stored in plaintext
// upstream and is exposed as-is.
type User struct {
	ID       int64
	Name     string
	Role     string
	Email    string
	Password string
}
