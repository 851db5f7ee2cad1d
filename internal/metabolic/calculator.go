// Package metabolic holds the pure metabolic and strength arithmetic:
// basal rate, daily expenditure, the macro target split and the
// one-rep-max estimate. No dependencies beyond the domain enums.
package metabolic

import (
	"fmt"
	"math"

	"alcyxob/fitness-ledger/internal/domain"
)

// Errors for unrecognized enum values. These indicate a programmer error
// upstream (input should be validated at the edge) and fail fast.
var (
	ErrInvalidActivityLevel = fmt.Errorf("metabolic: invalid activity level")
	ErrInvalidGoal          = fmt.Errorf("metabolic: invalid goal")
)

// activityMultipliers is the single source of truth for valid activity
// levels and their expenditure multipliers.
var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.35,
	domain.ActivityModerate:   1.5,
	domain.ActivityActive:     1.7,
	domain.ActivityVeryActive: 1.9,
}

// Absolute protein ceilings in grams per day.
const (
	proteinCapMale   = 260.0
	proteinCapFemale = 220.0
)

// BasalRate computes the Mifflin-St Jeor basal metabolic rate in kcal/day.
// No clamping; callers must supply sane ranges.
func BasalRate(weightKg, heightCm float64, ageYears int, gender domain.Gender) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if gender == domain.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// DailyExpenditure scales a basal rate by the activity multiplier.
func DailyExpenditure(basal float64, level domain.ActivityLevel) (float64, error) {
	mult, ok := activityMultipliers[level]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidActivityLevel, level)
	}
	return basal * mult, nil
}

// TargetInput carries everything the macro split needs.
type TargetInput struct {
	Expenditure     float64
	Goal            domain.Goal
	TargetWeightKg  float64
	CurrentWeightKg float64
	Gender          domain.Gender
	Pace            domain.Pace // saved with the profile; does not alter the split
	UserType        domain.UserType
}

// MacroTargets computes the daily calorie/macro budget in four ordered,
// dependent steps. The order is load-bearing: protein reserves calories
// before fat, fat before carbs, and carbs absorb the remainder.
//
// Step 1 applies no calorie floor. That is intentional: very low
// expenditures produce very low targets, and the clamp in step 4 is the
// only correction applied.
func MacroTargets(in TargetInput) (domain.MacroTargets, error) {
	// Step 1: calorie target from goal.
	var calories float64
	switch in.Goal {
	case domain.GoalLose:
		calories = 0.80 * in.Expenditure
	case domain.GoalGain:
		calories = 1.15 * in.Expenditure
	case domain.GoalMaintain:
		calories = in.Expenditure
	default:
		return domain.MacroTargets{}, fmt.Errorf("%w: %q", ErrInvalidGoal, in.Goal)
	}

	// Step 2: protein grams from a goal factor on a clamped body weight.
	// The clamp keeps extreme target weights from producing absurd protein
	// budgets: losing users never dose below 80% of current weight, gaining
	// users never dose above 120% of it.
	var factor float64
	switch in.Goal {
	case domain.GoalMaintain:
		factor = 1.6
	default: // lose and gain
		factor = 2.0
	}
	if in.UserType == domain.UserTypeAthletic {
		factor += 0.2
	}

	var proteinWeight float64
	switch in.Goal {
	case domain.GoalLose:
		proteinWeight = math.Max(in.TargetWeightKg, in.CurrentWeightKg*0.8)
	case domain.GoalGain:
		proteinWeight = math.Min(in.TargetWeightKg, in.CurrentWeightKg*1.2)
	default:
		proteinWeight = in.TargetWeightKg
	}

	proteinG := factor * proteinWeight
	cap := proteinCapFemale
	if in.Gender == domain.GenderMale {
		cap = proteinCapMale
	}
	if proteinG > cap {
		proteinG = cap
	}
	proteinCal := proteinG * 4

	// Step 3: fat as a percentage of the calorie target, banded by the
	// target itself, then raised to a per-kilo floor if needed. Raising
	// the floor also raises the fat-calorie reservation.
	fatPct := 0.25
	switch {
	case calories < 1600:
		fatPct = 0.30
	case calories > 2800:
		fatPct = 0.20
	}
	fatG := calories * fatPct / 9
	if floor := 0.6 * in.TargetWeightKg; fatG < floor {
		fatG = floor
	}
	fatCal := fatG * 9

	// Step 4: carbs take whatever calories remain. When the protein and
	// fat reservations overrun the target, carbs clamp to zero and the
	// calorie target is recomputed so the returned numbers stay internally
	// consistent. This is the one path where the returned calories differ
	// from the nominal step-1 value.
	carbCal := calories - (proteinCal + fatCal)
	var carbsG float64
	if carbCal < 0 {
		carbsG = 0
		calories = proteinCal + fatCal
	} else {
		carbsG = carbCal / 4
	}

	// Round once, at the point of return, to avoid compounding error.
	return domain.MacroTargets{
		Calories: int(math.Round(calories)),
		Protein:  int(math.Round(proteinG)),
		Carbs:    int(math.Round(carbsG)),
		Fats:     int(math.Round(fatG)),
	}, nil
}
