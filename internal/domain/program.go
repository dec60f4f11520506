package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a multi-week training plan owned by a trainer. A template program
// (IsTemplate) is viewable by anyone and can be cloned for a specific client;
// a non-template program belongs to exactly one client via ClientID.
// Removal is soft (IsActive=false).
type Program struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	Description     string              `bson:"description,omitempty" json:"description,omitempty"`
	TrainerID       primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	ClientID        *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	IsTemplate      bool                `bson:"isTemplate" json:"isTemplate"`
	Duration        int                 `bson:"duration" json:"duration"` // weeks
	SessionsPerWeek int                 `bson:"sessionsPerWeek" json:"sessionsPerWeek"`
	Difficulty      Difficulty          `bson:"difficulty" json:"difficulty"`
	Goals           []string            `bson:"goals" json:"goals"`
	IsActive        bool                `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ViewableBy implements the program read rule: owner, assignee, or template.
func (p *Program) ViewableBy(userID primitive.ObjectID) bool {
	if p.IsTemplate || p.TrainerID == userID {
		return true
	}
	return p.ClientID != nil && *p.ClientID == userID
}

// ProgramSession is one workout day inside a program. Ownership cascades from
// the parent program's trainer.
type ProgramSession struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID  primitive.ObjectID `bson:"programId" json:"programId"`
	Name       string             `bson:"name" json:"name"`
	DayOfWeek  *int               `bson:"dayOfWeek,omitempty" json:"dayOfWeek,omitempty"` // 1 (Mon) - 7 (Sun)
	WeekNumber int                `bson:"weekNumber" json:"weekNumber"`
	Order      int                `bson:"order" json:"order"`
	RestDay    bool               `bson:"restDay" json:"restDay"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProgramExercise prescribes one catalog exercise within a session:
// sets, reps (free-form: "8-12", "AMRAP"), optional load, rest and tempo.
type ProgramExercise struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID     primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ExerciseID    primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order         int                `bson:"order" json:"order"`
	Sets          int                `bson:"sets" json:"sets"`
	Reps          string             `bson:"reps" json:"reps"`
	Weight        *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	RestPeriod    int                `bson:"restPeriod" json:"restPeriod"`             // seconds
	Tempo         string             `bson:"tempo,omitempty" json:"tempo,omitempty"`   // e.g. "3-1-2-1"
	RPE           *int               `bson:"rpe,omitempty" json:"rpe,omitempty"`       // 1-10
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	IsSuperset    bool               `bson:"isSuperset" json:"isSuperset"`
	SupersetGroup *int               `bson:"supersetGroup,omitempty" json:"supersetGroup,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
