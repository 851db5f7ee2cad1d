package ledger_test

import (
	"context"
	"errors"
	"testing"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/history"
	"alcyxob/fitness-ledger/internal/ledger"
	"alcyxob/fitness-ledger/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*ledger.Service, *memory.DailyLogRepository) {
	logRepo := memory.NewDailyLogRepository()
	profileRepo := memory.NewProfileRepository()
	return ledger.NewService(logRepo, profileRepo, history.NewScanner(logRepo)), logRepo
}

func TestCalculateTotals(t *testing.T) {
	totals := ledger.CalculateTotals([]domain.DailyLogEntry{
		{Calories: 300, Protein: 20, Carbs: 30, Fats: 10},
		{Calories: 450.5, Protein: 35, Carbs: 40, Fats: 12.5},
	})
	assert.Equal(t, 750.5, totals.Calories)
	assert.Equal(t, 55.0, totals.Protein)
	assert.Equal(t, 70.0, totals.Carbs)
	assert.Equal(t, 22.5, totals.Fats)

	assert.Equal(t, domain.NutritionTotals{}, ledger.CalculateTotals(nil))
}

func TestGetReturnsSkeletonForUnwrittenDate(t *testing.T) {
	svc, _ := newTestService()
	sess := domain.Session{UserID: "u1"}

	dayLog, err := svc.Get(context.Background(), sess, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "u1", dayLog.UserID)
	assert.Equal(t, "2025-03-10", dayLog.Date)
	assert.Empty(t, dayLog.Entries)
	assert.Empty(t, dayLog.Exercises)
	assert.Empty(t, dayLog.Workouts)
}

func TestGetUnauthenticatedReturnsSkeleton(t *testing.T) {
	svc, logRepo := newTestService()
	seed := domain.NewDailyLog("u1", "2025-03-10")
	seed.Entries = append(seed.Entries, domain.DailyLogEntry{ID: "e1", Calories: 100})
	require.NoError(t, logRepo.Put(context.Background(), seed))

	dayLog, err := svc.Get(context.Background(), domain.Session{}, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, dayLog.Entries)
}

func TestPutUnauthenticatedIsSkipped(t *testing.T) {
	svc, logRepo := newTestService()

	dayLog := domain.NewDailyLog("", "2025-03-10")
	dayLog.Entries = append(dayLog.Entries, domain.DailyLogEntry{ID: "e1", Calories: 100})
	err := svc.Put(context.Background(), domain.Session{}, dayLog)
	require.NoError(t, err)
	assert.Zero(t, logRepo.PutCount)
}

func TestPutStampsSessionUser(t *testing.T) {
	svc, _ := newTestService()
	sess := domain.Session{UserID: "u1"}

	dayLog := domain.NewDailyLog("someone-else", "2025-03-10")
	require.NoError(t, svc.Put(context.Background(), sess, dayLog))

	stored, err := svc.Get(context.Background(), sess, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
}

func TestAddMealEntryRecomputesTotals(t *testing.T) {
	svc, _ := newTestService()
	sess := domain.Session{UserID: "u1"}
	ctx := context.Background()

	dayLog, err := svc.AddMealEntry(ctx, sess, "2025-03-10", domain.DailyLogEntry{
		Name: "Oatmeal", Category: domain.MealBreakfast, Calories: 300, Protein: 10, Carbs: 55, Fats: 5,
	})
	require.NoError(t, err)
	require.Len(t, dayLog.Entries, 1)
	assert.NotEmpty(t, dayLog.Entries[0].ID)
	assert.False(t, dayLog.Entries[0].Timestamp.IsZero())
	assert.Equal(t, 300.0, dayLog.Totals.Calories)

	dayLog, err = svc.AddMealEntry(ctx, sess, "2025-03-10", domain.DailyLogEntry{
		Name: "Chicken", Category: domain.MealLunch, Calories: 450, Protein: 40,
	})
	require.NoError(t, err)
	assert.Len(t, dayLog.Entries, 2)
	assert.Equal(t, 750.0, dayLog.Totals.Calories)
	assert.Equal(t, 50.0, dayLog.Totals.Protein)
}

func TestUpdateMealEntry(t *testing.T) {
	svc, _ := newTestService()
	sess := domain.Session{UserID: "u1"}
	ctx := context.Background()

	dayLog, err := svc.AddMealEntry(ctx, sess, "2025-03-10", domain.DailyLogEntry{ID: "e1", Name: "Rice", Calories: 200})
	require.NoError(t, err)
	require.Equal(t, 200.0, dayLog.Totals.Calories)

	dayLog, err = svc.UpdateMealEntry(ctx, sess, "2025-03-10", domain.DailyLogEntry{ID: "e1", Name: "Rice (large)", Calories: 320})
	require.NoError(t, err)
	assert.Equal(t, "Rice (large)", dayLog.Entries[0].Name)
	assert.Equal(t, 320.0, dayLog.Totals.Calories)

	_, err = svc.UpdateMealEntry(ctx, sess, "2025-03-10", domain.DailyLogEntry{ID: "nope", Calories: 1})
	assert.ErrorIs(t, err, ledger.ErrEntryNotFound)
}

func TestRemoveMealEntry(t *testing.T) {
	svc, _ := newTestService()
	sess := domain.Session{UserID: "u1"}
	ctx := context.Background()

	_, err := svc.AddMealEntry(ctx, sess, "2025-03-10", domain.DailyLogEntry{ID: "e1", Calories: 200})
	require.NoError(t, err)
	_, err = svc.AddMealEntry(ctx, sess, "2025-03-10", domain.DailyLogEntry{ID: "e2", Calories: 300})
	require.NoError(t, err)

	dayLog, err := svc.RemoveMealEntry(ctx, sess, "2025-03-10", "e1")
	require.NoError(t, err)
	require.Len(t, dayLog.Entries, 1)
	assert.Equal(t, "e2", dayLog.Entries[0].ID)
	assert.Equal(t, 300.0, dayLog.Totals.Calories)

	_, err = svc.RemoveMealEntry(ctx, sess, "2025-03-10", "e1")
	assert.ErrorIs(t, err, ledger.ErrEntryNotFound)
}

func TestGetAwaitReturnsImmediatelyWhenReady(t *testing.T) {
	svc, _ := newTestService()
	sess := domain.Session{UserID: "u1"}

	dayLog, err := svc.GetAwait(context.Background(), sess, "2025-03-10", func(*domain.DailyLog) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", dayLog.Date)
}

func TestGetAwaitLastReadWinsWhenNeverReady(t *testing.T) {
	svc, _ := newTestService()
	sess := domain.Session{UserID: "u1"}

	// Never-satisfied predicate: the retry budget is spent, then the
	// last read is returned without error.
	dayLog, err := svc.GetAwait(context.Background(), sess, "2025-03-10", func(*domain.DailyLog) bool { return false })
	require.NoError(t, err)
	assert.NotNil(t, dayLog)
}

func TestGetAwaitHonorsContextCancellation(t *testing.T) {
	svc, _ := newTestService()
	sess := domain.Session{UserID: "u1"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dayLog, err := svc.GetAwait(ctx, sess, "2025-03-10", func(*domain.DailyLog) bool { return false })
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, dayLog)
}

func seedMeals(t *testing.T, logRepo *memory.DailyLogRepository, userID, date string, entries ...domain.DailyLogEntry) {
	t.Helper()
	dayLog := domain.NewDailyLog(userID, date)
	dayLog.Entries = entries
	dayLog.Totals = ledger.CalculateTotals(entries)
	require.NoError(t, logRepo.Put(context.Background(), dayLog))
}

func TestRepeatLastMealClonesMostRecentCategory(t *testing.T) {
	svc, logRepo := newTestService()
	sess := domain.Session{UserID: "u1", Premium: true}
	ctx := context.Background()

	seedMeals(t, logRepo, "u1", "2025-03-07",
		domain.DailyLogEntry{ID: "old", Category: domain.MealLunch, Name: "Soup", Calories: 250})
	seedMeals(t, logRepo, "u1", "2025-03-09",
		domain.DailyLogEntry{ID: "l1", Category: domain.MealLunch, Name: "Chicken", Calories: 450, Protein: 40},
		domain.DailyLogEntry{ID: "l2", Category: domain.MealLunch, Name: "Rice", Calories: 200},
		domain.DailyLogEntry{ID: "b1", Category: domain.MealBreakfast, Name: "Eggs", Calories: 150})

	clones, err := svc.RepeatLastMeal(ctx, sess, domain.MealLunch, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, clones, 2)
	for _, c := range clones {
		assert.NotEqual(t, "l1", c.ID)
		assert.NotEqual(t, "l2", c.ID)
		assert.Equal(t, domain.MealLunch, c.Category)
	}

	dayLog, err := svc.Get(ctx, sess, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, dayLog.Entries, 2)
	assert.Equal(t, 650.0, dayLog.Totals.Calories)
}

func TestRepeatLastMealFreeTierWindow(t *testing.T) {
	svc, logRepo := newTestService()
	ctx := context.Background()

	// The only matching day is 3 days back, beyond the free lookback.
	seedMeals(t, logRepo, "u1", "2025-03-07",
		domain.DailyLogEntry{ID: "l1", Category: domain.MealLunch, Name: "Chicken", Calories: 450})

	clones, err := svc.RepeatLastMeal(ctx, domain.Session{UserID: "u1"}, domain.MealLunch, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, clones)

	clones, err = svc.RepeatLastMeal(ctx, domain.Session{UserID: "u1", Premium: true}, domain.MealLunch, "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, clones, 1)
}

func TestRepeatLastMealUnauthenticatedIsNoop(t *testing.T) {
	svc, logRepo := newTestService()

	clones, err := svc.RepeatLastMeal(context.Background(), domain.Session{}, domain.MealLunch, "2025-03-10")
	require.NoError(t, err)
	assert.Nil(t, clones)
	assert.Zero(t, logRepo.PutCount)
}

func TestRepeatLastMealRollbackOnWriteFailure(t *testing.T) {
	svc, logRepo := newTestService()
	sess := domain.Session{UserID: "u1", Premium: true}
	ctx := context.Background()

	seedMeals(t, logRepo, "u1", "2025-03-09",
		domain.DailyLogEntry{ID: "l1", Category: domain.MealLunch, Name: "Chicken", Calories: 450})

	writeErr := errors.New("store unavailable")
	logRepo.FailNextPut = writeErr

	clones, err := svc.RepeatLastMeal(ctx, sess, domain.MealLunch, "2025-03-10")
	assert.ErrorIs(t, err, writeErr)
	assert.Nil(t, clones)

	// The target date carries none of the rejected rows.
	dayLog, err := svc.Get(ctx, sess, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, dayLog.Entries)
}

func TestSummary(t *testing.T) {
	logRepo := memory.NewDailyLogRepository()
	profileRepo := memory.NewProfileRepository()
	svc := ledger.NewService(logRepo, profileRepo, history.NewScanner(logRepo))
	sess := domain.Session{UserID: "u1"}
	ctx := context.Background()

	require.NoError(t, profileRepo.Save(ctx, &domain.UserProfile{
		UserID:       "u1",
		TargetMacros: domain.MacroTargets{Calories: 2000, Protein: 150, Carbs: 200, Fats: 60},
	}))

	dayLog := domain.NewDailyLog("u1", "2025-03-10")
	dayLog.Entries = []domain.DailyLogEntry{
		{ID: "e1", Calories: 600, Protein: 45},
		{ID: "e2", Calories: 400, Protein: 20},
	}
	dayLog.Exercises = []domain.ExerciseEntry{
		{ID: "x1", Kind: domain.EntryAuthored, CaloriesBurned: 250},
		{ID: "sync-w1", Kind: domain.EntryWorkoutMirror, SourceID: "w1", WorkoutID: "w1", CaloriesBurned: 300},
	}
	dayLog.Workouts = []domain.WorkoutEntry{{ID: "w1", Completed: true, CaloriesBurned: 300}}
	require.NoError(t, logRepo.Put(ctx, dayLog))

	summary, err := svc.Summary(ctx, sess, "2025-03-10", "w1")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, summary.Consumed.Calories)
	assert.Equal(t, 550.0, summary.CaloriesBurned)
	assert.Equal(t, 2000, summary.Targets.Calories)
	// 2000 - 1000 + 550
	assert.Equal(t, 1550.0, summary.RemainingKcal)
}

func TestSummaryWithoutProfileUsesZeroTargets(t *testing.T) {
	svc, _ := newTestService()

	summary, err := svc.Summary(context.Background(), domain.Session{UserID: "u1"}, "2025-03-10", "")
	require.NoError(t, err)
	assert.Equal(t, domain.MacroTargets{}, summary.Targets)
	assert.Equal(t, 0.0, summary.RemainingKcal)
}
