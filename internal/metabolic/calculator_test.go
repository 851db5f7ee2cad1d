package metabolic_test

import (
	"testing"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/metabolic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasalRate(t *testing.T) {
	// 10*70 + 6.25*175 - 5*30 = 1643.75, +5 male / -161 female
	assert.InDelta(t, 1648.75, metabolic.BasalRate(70, 175, 30, domain.GenderMale), 0.001)
	assert.InDelta(t, 1482.75, metabolic.BasalRate(70, 175, 30, domain.GenderFemale), 0.001)
}

func TestDailyExpenditure(t *testing.T) {
	basal := metabolic.BasalRate(70, 175, 30, domain.GenderMale)

	tdee, err := metabolic.DailyExpenditure(basal, domain.ActivityLight)
	require.NoError(t, err)
	assert.InDelta(t, 1648.75*1.35, tdee, 0.001)

	tdee, err = metabolic.DailyExpenditure(1000, domain.ActivitySedentary)
	require.NoError(t, err)
	assert.InDelta(t, 1200, tdee, 0.001)

	tdee, err = metabolic.DailyExpenditure(1000, domain.ActivityVeryActive)
	require.NoError(t, err)
	assert.InDelta(t, 1900, tdee, 0.001)
}

func TestDailyExpenditure_UnknownLevel(t *testing.T) {
	_, err := metabolic.DailyExpenditure(1500, domain.ActivityLevel("couch"))
	require.ErrorIs(t, err, metabolic.ErrInvalidActivityLevel)
}

func TestMacroTargets_LoseCasual(t *testing.T) {
	// Full worked example: 70kg/175cm/30y male, light activity, losing to 65kg.
	basal := metabolic.BasalRate(70, 175, 30, domain.GenderMale)
	tdee, err := metabolic.DailyExpenditure(basal, domain.ActivityLight)
	require.NoError(t, err)

	got, err := metabolic.MacroTargets(metabolic.TargetInput{
		Expenditure:     tdee,
		Goal:            domain.GoalLose,
		TargetWeightKg:  65,
		CurrentWeightKg: 70,
		Gender:          domain.GenderMale,
		Pace:            domain.PaceNormal,
		UserType:        domain.UserTypeCasual,
	})
	require.NoError(t, err)

	// calories = 0.8 * 2225.8125 = 1780.65 -> 1781
	assert.Equal(t, 1781, got.Calories)
	// protein = 2.0 * max(65, 70*0.8=56) = 130g (no athletic bonus, under cap)
	assert.Equal(t, 130, got.Protein)
	// fat = 25% band: 1780.65*0.25/9 = 49.46g, above the 0.6*65=39 floor
	assert.Equal(t, 49, got.Fats)
	// carbs = (1780.65 - 520 - 445.1625)/4 = 203.87 -> 204
	assert.Equal(t, 204, got.Carbs)
}

func TestMacroTargets_AthleticBonusAndGainClamp(t *testing.T) {
	got, err := metabolic.MacroTargets(metabolic.TargetInput{
		Expenditure:     2400,
		Goal:            domain.GoalGain,
		TargetWeightKg:  100, // clamped down to 80*1.2 = 96
		CurrentWeightKg: 80,
		Gender:          domain.GenderMale,
		Pace:            domain.PaceFast,
		UserType:        domain.UserTypeAthletic,
	})
	require.NoError(t, err)

	// calories = 1.15 * 2400 = 2760
	assert.Equal(t, 2760, got.Calories)
	// protein = (2.0 + 0.2) * min(100, 96) = 211.2 -> 211
	assert.Equal(t, 211, got.Protein)
	// fat band is 25% (1600 <= 2760 <= 2800): 2760*0.25/9 = 76.67g; floor 60
	assert.Equal(t, 77, got.Fats)
}

func TestMacroTargets_ProteinCeiling(t *testing.T) {
	in := metabolic.TargetInput{
		Expenditure:     3500,
		Goal:            domain.GoalMaintain,
		TargetWeightKg:  200, // 1.6 * 200 = 320, over both ceilings
		CurrentWeightKg: 200,
		Gender:          domain.GenderMale,
		Pace:            domain.PaceNormal,
		UserType:        domain.UserTypeCasual,
	}

	got, err := metabolic.MacroTargets(in)
	require.NoError(t, err)
	assert.Equal(t, 260, got.Protein)

	in.Gender = domain.GenderFemale
	got, err = metabolic.MacroTargets(in)
	require.NoError(t, err)
	assert.Equal(t, 220, got.Protein)
}

func TestMacroTargets_FatBands(t *testing.T) {
	// Below 1600 kcal the fat share is 30%.
	low, err := metabolic.MacroTargets(metabolic.TargetInput{
		Expenditure:     1500,
		Goal:            domain.GoalMaintain,
		TargetWeightKg:  50,
		CurrentWeightKg: 50,
		Gender:          domain.GenderFemale,
		Pace:            domain.PaceNormal,
		UserType:        domain.UserTypeCasual,
	})
	require.NoError(t, err)
	// 1500*0.30/9 = 50g, floor 0.6*50=30 does not bite
	assert.Equal(t, 50, low.Fats)

	// Above 2800 kcal the fat share drops to 20%.
	high, err := metabolic.MacroTargets(metabolic.TargetInput{
		Expenditure:     3200,
		Goal:            domain.GoalMaintain,
		TargetWeightKg:  80,
		CurrentWeightKg: 80,
		Gender:          domain.GenderMale,
		Pace:            domain.PaceNormal,
		UserType:        domain.UserTypeCasual,
	})
	require.NoError(t, err)
	// 3200*0.20/9 = 71.1g, floor 48
	assert.Equal(t, 71, high.Fats)
}

func TestMacroTargets_FatFloorRaisesReservation(t *testing.T) {
	// Tiny calorie target with a heavy target weight: the per-kilo fat
	// floor overrides the banded percentage.
	got, err := metabolic.MacroTargets(metabolic.TargetInput{
		Expenditure:     1200,
		Goal:            domain.GoalLose, // calories = 960
		TargetWeightKg:  90,
		CurrentWeightKg: 100,
		Gender:          domain.GenderFemale,
		Pace:            domain.PaceNormal,
		UserType:        domain.UserTypeCasual,
	})
	require.NoError(t, err)
	// band fat: 960*0.30/9 = 32g; floor 0.6*90 = 54g wins
	assert.Equal(t, 54, got.Fats)
}

func TestMacroTargets_CarbClampRecomputesCalories(t *testing.T) {
	// Protein + fat reservations overrun the nominal calorie target:
	// carbs clamp to zero and calories are recomputed from the macros.
	got, err := metabolic.MacroTargets(metabolic.TargetInput{
		Expenditure:     800,
		Goal:            domain.GoalLose, // nominal calories = 640
		TargetWeightKg:  90,
		CurrentWeightKg: 100,
		Gender:          domain.GenderMale,
		Pace:            domain.PaceNormal,
		UserType:        domain.UserTypeAthletic,
	})
	require.NoError(t, err)

	// protein = 2.2 * max(90, 80) = 198g -> 792 kcal
	// fat = floor 0.6*90 = 54g -> 486 kcal
	// 792 + 486 = 1278 > 640: clamp
	assert.Equal(t, 0, got.Carbs)
	assert.Equal(t, 198, got.Protein)
	assert.Equal(t, 54, got.Fats)
	assert.Equal(t, 1278, got.Calories)
}

func TestMacroTargets_UnknownGoal(t *testing.T) {
	_, err := metabolic.MacroTargets(metabolic.TargetInput{
		Expenditure: 2000,
		Goal:        domain.Goal("bulk"),
	})
	require.ErrorIs(t, err, metabolic.ErrInvalidGoal)
}
