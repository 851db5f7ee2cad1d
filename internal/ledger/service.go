// Package ledger implements the daily ledger store: per-date reads that
// never fail into the UI, whole-document writes, and the cached totals
// invariant (totals are a pure function of the food entries, recomputed
// on every mutation).
//
// Concurrency note: the backing store has no field-level merge and no
// compare-and-swap, so two concurrent load-modify-store sequences against
// the same date can clobber each other. This is accepted for the
// single-user, single-device usage pattern. Operations that would make
// such loss user-visible (RepeatLastMeal) pre-generate their ids locally
// and merge into a freshly loaded view before writing, so a later reload
// reconciles instead of silently dropping rows.
package ledger

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Sentinel errors surfaced to handlers.
var (
	ErrEntryNotFound = errors.New("ledger: entry not found")
)

// Bounded read-after-write retry: a summary read racing a just-finished
// write may see stale state; retry briefly, then proceed with whatever
// was read (stale-but-available over blocking).
const (
	maxReadRetries = 2
	retryBaseDelay = 500 * time.Millisecond
)

// MealHistory locates the most recent ledger entries for a meal category.
// Implemented by the history scanner; declared here so the ledger and
// history packages stay acyclic.
type MealHistory interface {
	LastMatchingMealEntries(ctx context.Context, sess domain.Session, category domain.MealCategory, beforeDate string, maxDaysBack int) (string, []domain.DailyLogEntry, error)
}

// Service is the daily ledger store.
type Service struct {
	logs     repository.DailyLogRepository
	profiles repository.ProfileRepository
	meals    MealHistory
}

// NewService creates a ledger service. meals may be nil if RepeatLastMeal
// is not used (tests).
func NewService(logs repository.DailyLogRepository, profiles repository.ProfileRepository, meals MealHistory) *Service {
	return &Service{
		logs:     logs,
		profiles: profiles,
		meals:    meals,
	}
}

// CalculateTotals reduces food entries to nutrition totals. Pure; callers
// replace the cached totals with this on every entries mutation, never
// patch them incrementally.
func CalculateTotals(entries []domain.DailyLogEntry) domain.NutritionTotals {
	var totals domain.NutritionTotals
	for _, e := range entries {
		totals.Calories += e.Calories
		totals.Protein += e.Protein
		totals.Carbs += e.Carbs
		totals.Fats += e.Fats
	}
	return totals
}

// Get returns the ledger for a date. A never-written date and an
// unauthenticated session both yield the empty skeleton: callers must
// treat "empty" and "not found" identically.
func (s *Service) Get(ctx context.Context, sess domain.Session, date string) (*domain.DailyLog, error) {
	if !sess.Authenticated() {
		return domain.NewDailyLog("", date), nil
	}
	dayLog, err := s.logs.Get(ctx, sess.UserID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewDailyLog(sess.UserID, date), nil
		}
		return nil, err
	}
	return dayLog, nil
}

// Put persists the whole ledger document. Unauthenticated writes are
// skipped with a warning rather than failing, keeping callers simple at
// the accepted cost of silent loss for signed-out states.
func (s *Service) Put(ctx context.Context, sess domain.Session, dayLog *domain.DailyLog) error {
	if !sess.Authenticated() {
		log.Warnf("ledger: skipping write for date [%s]: no authenticated user", dayLog.Date)
		return nil
	}
	dayLog.UserID = sess.UserID
	return s.logs.Put(ctx, dayLog)
}

// GetAwait reads the ledger until ready reports true, retrying at most
// maxReadRetries times with delays of retryBaseDelay x attempt. After the
// budget is spent the last read wins, ready or not.
func (s *Service) GetAwait(ctx context.Context, sess domain.Session, date string, ready func(*domain.DailyLog) bool) (*domain.DailyLog, error) {
	dayLog, err := s.Get(ctx, sess, date)
	if err != nil {
		return nil, err
	}
	for attempt := 1; attempt <= maxReadRetries && !ready(dayLog); attempt++ {
		select {
		case <-ctx.Done():
			return dayLog, ctx.Err()
		case <-time.After(retryBaseDelay * time.Duration(attempt)):
		}
		if dayLog, err = s.Get(ctx, sess, date); err != nil {
			return nil, err
		}
	}
	return dayLog, nil
}

// AddMealEntry appends a food entry and recomputes totals. A missing
// entry id is filled with a fresh uuid.
func (s *Service) AddMealEntry(ctx context.Context, sess domain.Session, date string, entry domain.DailyLogEntry) (*domain.DailyLog, error) {
	dayLog, err := s.Get(ctx, sess, date)
	if err != nil {
		return nil, err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	dayLog.Entries = append(dayLog.Entries, entry)
	dayLog.Totals = CalculateTotals(dayLog.Entries)
	if err := s.Put(ctx, sess, dayLog); err != nil {
		return nil, err
	}
	return dayLog, nil
}

// UpdateMealEntry replaces a food entry by id and recomputes totals.
func (s *Service) UpdateMealEntry(ctx context.Context, sess domain.Session, date string, entry domain.DailyLogEntry) (*domain.DailyLog, error) {
	dayLog, err := s.Get(ctx, sess, date)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range dayLog.Entries {
		if dayLog.Entries[i].ID == entry.ID {
			dayLog.Entries[i] = entry
			found = true
			break
		}
	}
	if !found {
		return nil, ErrEntryNotFound
	}
	dayLog.Totals = CalculateTotals(dayLog.Entries)
	if err := s.Put(ctx, sess, dayLog); err != nil {
		return nil, err
	}
	return dayLog, nil
}

// RemoveMealEntry deletes a food entry by id and recomputes totals.
func (s *Service) RemoveMealEntry(ctx context.Context, sess domain.Session, date, entryID string) (*domain.DailyLog, error) {
	dayLog, err := s.Get(ctx, sess, date)
	if err != nil {
		return nil, err
	}
	kept := dayLog.Entries[:0]
	found := false
	for _, e := range dayLog.Entries {
		if e.ID == entryID {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return nil, ErrEntryNotFound
	}
	dayLog.Entries = kept
	dayLog.Totals = CalculateTotals(dayLog.Entries)
	if err := s.Put(ctx, sess, dayLog); err != nil {
		return nil, err
	}
	return dayLog, nil
}

// RepeatLastMeal clones the most recent entries of a category (within the
// session's history window) into the given date. The clones get locally
// pre-generated ids and are merged into a freshly loaded view before the
// store write starts. On a write failure the authoritative ledger is
// reloaded and the optimistic overlay discarded: rollback-by-reload, not
// patch-by-diff.
func (s *Service) RepeatLastMeal(ctx context.Context, sess domain.Session, category domain.MealCategory, toDate string) ([]domain.DailyLogEntry, error) {
	if !sess.Authenticated() {
		log.Warnf("ledger: skipping repeat-last-meal for date [%s]: no authenticated user", toDate)
		return nil, nil
	}

	_, source, err := s.meals.LastMatchingMealEntries(ctx, sess, category, toDate, sess.HistoryWindowDays())
	if err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	clones := make([]domain.DailyLogEntry, len(source))
	for i, e := range source {
		clone := e
		clone.ID = uuid.NewString()
		clone.Timestamp = now
		clones[i] = clone
	}

	dayLog, err := s.Get(ctx, sess, toDate)
	if err != nil {
		return nil, err
	}
	dayLog.Entries = append(dayLog.Entries, clones...)
	dayLog.Totals = CalculateTotals(dayLog.Entries)

	if err := s.Put(ctx, sess, dayLog); err != nil {
		// Discard the overlay: reload authoritative state so callers that
		// hold the returned log never act on rows the store rejected.
		if _, reloadErr := s.Get(ctx, sess, toDate); reloadErr != nil {
			log.Errorf("ledger: reload after failed repeat-last-meal write for date [%s]: %s", toDate, reloadErr)
		}
		return nil, err
	}
	return clones, nil
}

// DaySummary is the daily budget view: consumed vs targets, exercise
// burn, and the remaining calorie budget.
type DaySummary struct {
	Date           string                 `json:"date"`
	Consumed       domain.NutritionTotals `json:"consumed"`
	CaloriesBurned float64                `json:"caloriesBurned"`
	Targets        domain.MacroTargets    `json:"targets"`
	RemainingKcal  float64                `json:"remainingKcal"`
}

// Summary computes the day's budget view. When expectWorkoutID is
// non-empty the read waits (bounded) for that workout to appear
// completed, closing the window where a just-finished session has not
// landed in a fresh read yet.
func (s *Service) Summary(ctx context.Context, sess domain.Session, date, expectWorkoutID string) (*DaySummary, error) {
	ready := func(*domain.DailyLog) bool { return true }
	if expectWorkoutID != "" {
		ready = func(l *domain.DailyLog) bool {
			w := l.FindWorkout(expectWorkoutID)
			return w != nil && w.Completed
		}
	}
	dayLog, err := s.GetAwait(ctx, sess, date, ready)
	if err != nil {
		return nil, err
	}

	var burned float64
	for _, ex := range dayLog.Exercises {
		burned += ex.CaloriesBurned
	}

	var targets domain.MacroTargets
	if sess.Authenticated() {
		profile, err := s.profiles.Get(ctx, sess.UserID)
		switch {
		case err == nil:
			targets = profile.TargetMacros
		case errors.Is(err, repository.ErrNotFound):
			// no profile yet: zero targets
		default:
			return nil, err
		}
	}

	consumed := CalculateTotals(dayLog.Entries)
	return &DaySummary{
		Date:           date,
		Consumed:       consumed,
		CaloriesBurned: burned,
		Targets:        targets,
		RemainingKcal:  float64(targets.Calories) - consumed.Calories + burned,
	}, nil
}
