// models/user.go
package models

import "time"

// User is a registered customer or staff account. Only the fields the
// booking core reads are modelled here.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	IsAdmin   bool      `bson:"isAdmin" json:"isAdmin"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Identity is the request-scoped caller derived from the bearer token.
type Identity struct {
	UserID  string
	IsAdmin bool
}

// Anonymous reports whether no caller was authenticated.
func (id Identity) Anonymous() bool {
	return id.UserID == "" && !id.IsAdmin
}
