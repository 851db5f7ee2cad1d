package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateFormat is the canonical day-granularity key for ledger documents.
const DateFormat = "2006-01-02"

// MealCategory tags a food entry with the meal it belongs to.
type MealCategory string

const (
	MealBreakfast MealCategory = "breakfast"
	MealLunch     MealCategory = "lunch"
	MealDinner    MealCategory = "dinner"
	MealSnack     MealCategory = "snack"
)

// NutritionTotals is the cached reduction of a ledger's food entries.
// It is always recomputed from scratch, never incrementally patched.
type NutritionTotals struct {
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fats     float64 `bson:"fats" json:"fats"`
}

// DailyLogEntry is one logged food item.
type DailyLogEntry struct {
	ID        string       `bson:"id" json:"id"`
	Name      string       `bson:"name" json:"name"`
	Category  MealCategory `bson:"category" json:"category"`
	Calories  float64      `bson:"calories" json:"calories"`
	Protein   float64      `bson:"protein" json:"protein"`
	Carbs     float64      `bson:"carbs" json:"carbs"`
	Fats      float64      `bson:"fats" json:"fats"`
	PhotoKey  string       `bson:"photoKey,omitempty" json:"photoKey,omitempty"`
	Timestamp time.Time    `bson:"timestamp" json:"timestamp"`
}

// EntryKind discriminates authored exercise entries from derived mirrors.
// Mirrors exist only to project a workout's calories/duration into the
// flat exercise list and must never be edited independently of their
// source.
type EntryKind string

const (
	// EntryAuthored is a hand-logged or gym-synced standalone exercise.
	EntryAuthored EntryKind = "authored"
	// EntryWorkoutMirror carries a finished session's total calories and
	// duration; SourceID is the workout id. At most one per workout.
	EntryWorkoutMirror EntryKind = "workout_mirror"
	// EntryExerciseMirror is a zero-calorie, duration-only projection of a
	// single exercise inside a workout; SourceID is the exercise id.
	EntryExerciseMirror EntryKind = "exercise_mirror"
)

// MirrorEntryID returns the deterministic id for a mirror entry. Keeping
// the id a pure function of the source id is what makes re-mirroring
// idempotent; the Kind/SourceID fields, not the id string, are what
// invariant checks discriminate on.
func MirrorEntryID(sourceID string) string {
	return "sync-" + sourceID
}

// ExerciseEntry is one flat calorie-bearing item in a ledger.
// WorkoutID is a back-reference, never an ownership link: it is used only
// to find entries to remove when a workout disappears.
type ExerciseEntry struct {
	ID              string    `bson:"id" json:"id"`
	Kind            EntryKind `bson:"kind" json:"kind"`
	SourceID        string    `bson:"sourceId,omitempty" json:"sourceId,omitempty"`
	WorkoutID       string    `bson:"workoutId,omitempty" json:"workoutId,omitempty"`
	Name            string    `bson:"name" json:"name"`
	CaloriesBurned  float64   `bson:"caloriesBurned" json:"caloriesBurned"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Timestamp       time.Time `bson:"timestamp" json:"timestamp"`
}

// IsMirror reports whether the entry is derived from a workout or one of
// its exercises.
func (e ExerciseEntry) IsMirror() bool {
	return e.Kind == EntryWorkoutMirror || e.Kind == EntryExerciseMirror
}

// DailyLog is the per-user, per-calendar-date ledger aggregating food
// entries, standalone exercise entries and workout sessions.
type DailyLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"userId" json:"userId"`
	Date      string             `bson:"date" json:"date"` // DateFormat
	Entries   []DailyLogEntry    `bson:"entries" json:"entries"`
	Exercises []ExerciseEntry    `bson:"exercises" json:"exercises"`
	Workouts  []WorkoutEntry     `bson:"workouts" json:"workouts"`
	Totals    NutritionTotals    `bson:"totals" json:"totals"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewDailyLog returns the empty skeleton for a date. Callers treat "empty"
// and "not found" identically, so reads of unwritten dates get this.
func NewDailyLog(userID, date string) *DailyLog {
	return &DailyLog{
		UserID:    userID,
		Date:      date,
		Entries:   []DailyLogEntry{},
		Exercises: []ExerciseEntry{},
		Workouts:  []WorkoutEntry{},
	}
}

// FindWorkout returns the workout with the given id, or nil.
func (l *DailyLog) FindWorkout(workoutID string) *WorkoutEntry {
	for i := range l.Workouts {
		if l.Workouts[i].ID == workoutID {
			return &l.Workouts[i]
		}
	}
	return nil
}
