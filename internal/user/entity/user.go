package entity

import "time"

// User represents an account row in the `users` table. The password
// hash never leaves the service boundary in a response body.
type User struct {
	ID           int64     `db:"id" json:"userId"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	EmailAddress string    `db:"email_address" json:"emailAddress"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
