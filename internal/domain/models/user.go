package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account able to authenticate against the back office.
// Directors carry no branch assignment; managers and sales agents must.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"fullName" json:"fullName"`
	Username     string             `bson:"username" json:"username"`
	Phone        string             `bson:"phone" json:"phone"`
	Branch       *Branch            `bson:"branch,omitempty" json:"branch,omitempty"`
	Role         Role               `bson:"role" json:"role"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Caller converts a stored user into the request-scoped identity.
func (u User) Caller() Caller {
	return Caller{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Role:     u.Role,
		Branch:   u.Branch,
	}
}
