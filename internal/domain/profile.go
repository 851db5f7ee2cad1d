package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender type for the basal rate constant term.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Goal drives the calorie multiplier and protein factor.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// Pace is how aggressively the user wants to move toward their goal.
// It is part of the saved profile; the current target formula does not
// use it (no deficit scaling, by product decision).
type Pace string

const (
	PaceSlow   Pace = "slow"
	PaceNormal Pace = "normal"
	PaceFast   Pace = "fast"
)

// UserType distinguishes casual users from athletes (higher protein factor).
type UserType string

const (
	UserTypeCasual   UserType = "casual"
	UserTypeAthletic UserType = "athletic"
)

// ActivityLevel is a closed enum; unknown values are a caller error.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// MacroTargets is the daily calorie and macro budget derived from the
// profile. All values are rounded integers (kcal / grams).
type MacroTargets struct {
	Calories int `bson:"calories" json:"calories"`
	Protein  int `bson:"protein" json:"protein"`
	Carbs    int `bson:"carbs" json:"carbs"`
	Fats     int `bson:"fats" json:"fats"`
}

// UserProfile holds biometrics, goals and the derived daily targets.
// Mutated only by profile-save operations; owned exclusively by the user.
type UserProfile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID         string             `bson:"userId" json:"userId"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"passwordHash,omitempty" json:"-"`
	WeightKg       float64            `bson:"weightKg" json:"weightKg"`
	HeightCm       float64            `bson:"heightCm" json:"heightCm"`
	AgeYears       int                `bson:"ageYears" json:"ageYears"`
	Gender         Gender             `bson:"gender" json:"gender"`
	Goal           Goal               `bson:"goal" json:"goal"`
	TargetWeightKg float64            `bson:"targetWeightKg" json:"targetWeightKg"`
	Pace           Pace               `bson:"pace" json:"pace"`
	UserType       UserType           `bson:"userType" json:"userType"`
	ActivityLevel  ActivityLevel      `bson:"activityLevel" json:"activityLevel"`

	// Derived on every profile save, never edited directly.
	TDEE         float64      `bson:"tdee" json:"tdee"`
	TargetMacros MacroTargets `bson:"targetMacros" json:"targetMacros"`

	// PersonalRecords maps exercise name to the best estimated one-rep-max.
	// Monotonically non-decreasing per exercise.
	PersonalRecords map[string]float64 `bson:"personalRecords,omitempty" json:"personalRecords,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
