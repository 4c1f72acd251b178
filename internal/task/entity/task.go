package entity

import "time"

// Task is a to-do item owned by exactly one user. Visibility and
// mutation are gated on that ownership.
type Task struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Time        string    `db:"time" json:"time"`
	UserID      int64     `db:"user_id" json:"userId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
