package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineExercise is an exercise template: the same shape as a
// WorkoutExercise minus identifiers and performance, so instantiating a
// routine always mints fresh ids.
type RoutineExercise struct {
	Name     string `bson:"name" json:"name"`
	Sets     int    `bson:"sets" json:"sets"`
	RestTime int    `bson:"restTime" json:"restTime"` // seconds
}

// WorkoutRoutine is a reusable workout template, independent of any
// specific day. Created by promoting a finished or draft workout.
type WorkoutRoutine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"-"`
	Name      string             `bson:"name" json:"name"`
	Exercises []RoutineExercise  `bson:"exercises" json:"exercises"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
