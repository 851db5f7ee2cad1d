package records_test

import (
	"context"
	"testing"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/records"
	"alcyxob/fitness-ledger/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePersonalRecordMonotonic(t *testing.T) {
	profiles := memory.NewProfileRepository()
	tracker := records.NewTracker(profiles)
	sess := domain.Session{UserID: "u1"}
	ctx := context.Background()

	require.NoError(t, profiles.Save(ctx, &domain.UserProfile{UserID: "u1"}))

	improved, err := tracker.UpdatePersonalRecord(ctx, sess, "Bench Press", 100)
	require.NoError(t, err)
	assert.True(t, improved)

	improved, err = tracker.UpdatePersonalRecord(ctx, sess, "Bench Press", 90)
	require.NoError(t, err)
	assert.False(t, improved)

	// Ties do not count as improvements.
	improved, err = tracker.UpdatePersonalRecord(ctx, sess, "Bench Press", 100)
	require.NoError(t, err)
	assert.False(t, improved)

	improved, err = tracker.UpdatePersonalRecord(ctx, sess, "Bench Press", 105)
	require.NoError(t, err)
	assert.True(t, improved)

	profile, err := profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 105.0, profile.PersonalRecords["Bench Press"])
}

func TestUpdatePersonalRecordPerExercise(t *testing.T) {
	profiles := memory.NewProfileRepository()
	tracker := records.NewTracker(profiles)
	sess := domain.Session{UserID: "u1"}
	ctx := context.Background()

	require.NoError(t, profiles.Save(ctx, &domain.UserProfile{
		UserID:          "u1",
		PersonalRecords: map[string]float64{"Squat": 140},
	}))

	improved, err := tracker.UpdatePersonalRecord(ctx, sess, "Deadlift", 120)
	require.NoError(t, err)
	assert.True(t, improved)

	profile, err := profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 140.0, profile.PersonalRecords["Squat"])
	assert.Equal(t, 120.0, profile.PersonalRecords["Deadlift"])
}

func TestUpdatePersonalRecordUnauthenticated(t *testing.T) {
	tracker := records.NewTracker(memory.NewProfileRepository())

	improved, err := tracker.UpdatePersonalRecord(context.Background(), domain.Session{}, "Bench Press", 100)
	require.NoError(t, err)
	assert.False(t, improved)
}

func TestUpdatePersonalRecordWithoutProfile(t *testing.T) {
	tracker := records.NewTracker(memory.NewProfileRepository())

	improved, err := tracker.UpdatePersonalRecord(context.Background(), domain.Session{UserID: "u1"}, "Bench Press", 100)
	require.NoError(t, err)
	assert.False(t, improved)
}
