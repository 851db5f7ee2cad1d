package domain

import "time"

// SetPerformance is one recorded set of one exercise.
type SetPerformance struct {
	SetNumber int     `bson:"setNumber" json:"setNumber"`
	Weight    float64 `bson:"weight" json:"weight"`
	Reps      int     `bson:"reps" json:"reps"`
}

// WorkoutExercise is one exercise slot inside a workout session.
type WorkoutExercise struct {
	ID          string           `bson:"id" json:"id"`
	Name        string           `bson:"name" json:"name"`
	Sets        int              `bson:"sets" json:"sets"`
	RestTime    int              `bson:"restTime" json:"restTime"` // seconds
	Performance []SetPerformance `bson:"performance,omitempty" json:"performance,omitempty"`
	Completed   bool             `bson:"completed" json:"completed"`
}

// WorkoutEntry is a structured workout session inside a daily ledger.
// It transitions draft -> in-progress -> completed; completing it is the
// single point where session calories become visible to nutrition totals.
type WorkoutEntry struct {
	ID              string            `bson:"id" json:"id"`
	Name            string            `bson:"name" json:"name"`
	DurationMinutes int               `bson:"durationMinutes" json:"durationMinutes"`
	CaloriesBurned  float64           `bson:"caloriesBurned" json:"caloriesBurned"`
	Completed       bool              `bson:"completed" json:"completed"`
	NewPRs          int               `bson:"newPrs" json:"newPrs"`
	Exercises       []WorkoutExercise `bson:"exercises" json:"exercises"`
	StartedAt       time.Time         `bson:"startedAt" json:"startedAt"`
}

// FindExercise returns the exercise with the given id, or nil.
func (w *WorkoutEntry) FindExercise(exerciseID string) *WorkoutExercise {
	for i := range w.Exercises {
		if w.Exercises[i].ID == exerciseID {
			return &w.Exercises[i]
		}
	}
	return nil
}
