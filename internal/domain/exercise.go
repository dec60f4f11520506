package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseCategory groups catalog exercises by body focus.
type ExerciseCategory string

const (
	CategoryChest     ExerciseCategory = "CHEST"
	CategoryBack      ExerciseCategory = "BACK"
	CategoryLegs      ExerciseCategory = "LEGS"
	CategoryShoulders ExerciseCategory = "SHOULDERS"
	CategoryArms      ExerciseCategory = "ARMS"
	CategoryCore      ExerciseCategory = "CORE"
	CategoryCardio    ExerciseCategory = "CARDIO"
	CategoryFullBody  ExerciseCategory = "FULL_BODY"
)

// Difficulty is shared by catalog exercises and programs.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

// Exercise is a catalog entry. CreatedBy is nil for system-seeded rows, which
// makes them immutable through the ownership-checked endpoints. Deletion is
// soft: IsActive flips to false and default catalog reads skip the row, but
// existing prescriptions and logs keep resolving it.
type Exercise struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	NameEn       string              `bson:"nameEn,omitempty" json:"nameEn,omitempty"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	Category     ExerciseCategory    `bson:"category" json:"category"`
	Difficulty   Difficulty          `bson:"difficulty" json:"difficulty"`
	MuscleGroups []string            `bson:"muscleGroups" json:"muscleGroups"`
	Equipment    []string            `bson:"equipment" json:"equipment"`
	Instructions []string            `bson:"instructions" json:"instructions"`
	Tips         []string            `bson:"tips,omitempty" json:"tips,omitempty"`
	VideoURL     string              `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ThumbnailURL string              `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	IsActive     bool                `bson:"isActive" json:"isActive"`
	CreatedBy    *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the given user authored this exercise.
// System exercises (CreatedBy == nil) are owned by nobody.
func (e *Exercise) OwnedBy(userID primitive.ObjectID) bool {
	return e.CreatedBy != nil && *e.CreatedBy == userID
}
