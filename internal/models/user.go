package models

import "time"

// User mirrors an identity owned by the external auth provider. Rows are
// upserted from verified token claims and never mutated by business logic.
type User struct {
	ID        int64
	Subject   string // stable identifier from the auth provider
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the user's name, falling back to their email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
