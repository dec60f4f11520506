package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleTrainer Role = "TRAINER"
	RoleUser    Role = "USER"
)

// User represents an account in the system, either a trainer or a client.
// A client acquires a TrainerID only through registration-token redemption.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email        string              `bson:"email" json:"email"` // Unique
	Username     string              `bson:"username" json:"username"`
	PasswordHash string              `bson:"passwordHash" json:"-"` // Never expose via JSON
	Salt         string              `bson:"salt" json:"-"`
	FirstName    string              `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string              `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Role         Role                `bson:"role" json:"role"`
	TrainerID    *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsClient() bool {
	return u.Role == RoleUser
}

// DisplayName is used when naming resources after a client, e.g. cloned programs.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
