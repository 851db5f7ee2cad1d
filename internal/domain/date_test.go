package domain_test

import (
	"testing"
	"time"

	"alcyxob/fitness-ledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDays(t *testing.T) {
	got, err := domain.AddDays("2025-03-10", -3)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-07", got)

	got, err = domain.AddDays("2025-02-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", got)

	got, err = domain.AddDays("2025-01-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", got)

	_, err = domain.AddDays("not-a-date", 1)
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	days, err := domain.DaysBetween("2025-03-10", "2025-03-07")
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	days, err = domain.DaysBetween("2025-03-07", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, -3, days)
}

func TestFormatDate(t *testing.T) {
	// A time late in the day in a western timezone is still keyed by its UTC day.
	loc := time.FixedZone("PST", -8*3600)
	assert.Equal(t, "2025-03-11", domain.FormatDate(time.Date(2025, 3, 10, 23, 0, 0, 0, loc)))
}

func TestMirrorEntryID(t *testing.T) {
	assert.Equal(t, "sync-w1", domain.MirrorEntryID("w1"))
}

func TestExerciseEntryIsMirror(t *testing.T) {
	assert.False(t, domain.ExerciseEntry{Kind: domain.EntryAuthored}.IsMirror())
	assert.True(t, domain.ExerciseEntry{Kind: domain.EntryWorkoutMirror}.IsMirror())
	assert.True(t, domain.ExerciseEntry{Kind: domain.EntryExerciseMirror}.IsMirror())
}

func TestSessionHistoryWindow(t *testing.T) {
	assert.Equal(t, 30, domain.Session{UserID: "u1", Premium: true}.HistoryWindowDays())
	assert.Equal(t, 1, domain.Session{UserID: "u1"}.HistoryWindowDays())
	assert.False(t, domain.Session{}.Authenticated())
	assert.True(t, domain.Session{UserID: "u1"}.Authenticated())
}
