package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegistrationToken is a single-use, expiring invitation issued by a trainer.
// Redeeming it creates a client account bound to the issuing trainer.
type RegistrationToken struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Token     string              `bson:"token" json:"token"` // Unique opaque value
	TrainerID primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	ExpiresAt time.Time           `bson:"expiresAt" json:"expiresAt"`
	IsUsed    bool                `bson:"isUsed" json:"isUsed"`
	UsedByID  *primitive.ObjectID `bson:"usedById,omitempty" json:"usedById,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// Redeemable reports whether the token can still be used at the given instant.
func (t *RegistrationToken) Redeemable(now time.Time) bool {
	return !t.IsUsed && now.Before(t.ExpiresAt)
}
