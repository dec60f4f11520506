package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLog records a client performing a program session.
// Lifecycle: created active (IsCompleted=false, CompletedAt=nil), completed
// (IsCompleted=true, CompletedAt set), and back again (CompletedAt cleared).
// At most one active log may exist per (UserID, ProgramSessionID) pair.
type WorkoutLog struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	ProgramSessionID primitive.ObjectID `bson:"programSessionId" json:"programSessionId"`
	StartedAt        time.Time          `bson:"startedAt" json:"startedAt"`
	CompletedAt      *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Rating           *int               `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5
	IsCompleted      bool               `bson:"isCompleted" json:"isCompleted"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseLog captures actual performance of one prescription within a workout.
// ActualReps/ActualWeight hold comma-joined per-set values ("10,8,8").
type ExerciseLog struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutLogID      primitive.ObjectID `bson:"workoutLogId" json:"workoutLogId"`
	ProgramExerciseID primitive.ObjectID `bson:"programExerciseId" json:"programExerciseId"`
	ActualSets        int                `bson:"actualSets" json:"actualSets"`
	ActualReps        string             `bson:"actualReps" json:"actualReps"`
	ActualWeight      string             `bson:"actualWeight,omitempty" json:"actualWeight,omitempty"`
	ActualRestPeriod  *int               `bson:"actualRestPeriod,omitempty" json:"actualRestPeriod,omitempty"`
	ActualRPE         *int               `bson:"actualRpe,omitempty" json:"actualRpe,omitempty"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	IsCompleted       bool               `bson:"isCompleted" json:"isCompleted"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
