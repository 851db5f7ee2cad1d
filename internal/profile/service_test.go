package profile_test

import (
	"context"
	"testing"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/metabolic"
	"alcyxob/fitness-ledger/internal/profile"
	"alcyxob/fitness-ledger/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNotFound(t *testing.T) {
	svc := profile.NewService(memory.NewProfileRepository())

	_, err := svc.Get(context.Background(), domain.Session{UserID: "u1"})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)

	_, err = svc.Get(context.Background(), domain.Session{})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestSaveDerivesTargets(t *testing.T) {
	repo := memory.NewProfileRepository()
	svc := profile.NewService(repo)
	sess := domain.Session{UserID: "u1"}
	ctx := context.Background()

	saved, err := svc.Save(ctx, sess, &domain.UserProfile{
		WeightKg:       70,
		HeightCm:       175,
		AgeYears:       30,
		Gender:         domain.GenderMale,
		Goal:           domain.GoalLose,
		TargetWeightKg: 65,
		UserType:       domain.UserTypeCasual,
		ActivityLevel:  domain.ActivityLight,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.UserID)

	basal := metabolic.BasalRate(70, 175, 30, domain.GenderMale)
	tdee, err := metabolic.DailyExpenditure(basal, domain.ActivityLight)
	require.NoError(t, err)
	assert.Equal(t, tdee, saved.TDEE)
	assert.Equal(t, domain.MacroTargets{Calories: 1781, Protein: 130, Carbs: 204, Fats: 49}, saved.TargetMacros)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, saved.TargetMacros, stored.TargetMacros)
}

func TestSavePreservesIdentityFields(t *testing.T) {
	repo := memory.NewProfileRepository()
	svc := profile.NewService(repo)
	sess := domain.Session{UserID: "u1"}
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.UserProfile{
		UserID:          "u1",
		Email:           "u1@example.com",
		PasswordHash:    "hash",
		PersonalRecords: map[string]float64{"Bench Press": 100},
	}))

	saved, err := svc.Save(ctx, sess, &domain.UserProfile{
		WeightKg:       70,
		HeightCm:       175,
		AgeYears:       30,
		Gender:         domain.GenderMale,
		Goal:           domain.GoalMaintain,
		TargetWeightKg: 70,
		ActivityLevel:  domain.ActivityModerate,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", saved.Email)
	assert.Equal(t, "hash", saved.PasswordHash)
	assert.Equal(t, 100.0, saved.PersonalRecords["Bench Press"])
}

func TestSaveRejectsUnknownActivityLevel(t *testing.T) {
	svc := profile.NewService(memory.NewProfileRepository())

	_, err := svc.Save(context.Background(), domain.Session{UserID: "u1"}, &domain.UserProfile{
		WeightKg:       70,
		HeightCm:       175,
		AgeYears:       30,
		Gender:         domain.GenderMale,
		Goal:           domain.GoalLose,
		TargetWeightKg: 65,
		ActivityLevel:  domain.ActivityLevel("couch"),
	})
	assert.ErrorIs(t, err, metabolic.ErrInvalidActivityLevel)
}

func TestSaveUnauthenticated(t *testing.T) {
	svc := profile.NewService(memory.NewProfileRepository())

	_, err := svc.Save(context.Background(), domain.Session{}, &domain.UserProfile{})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}
