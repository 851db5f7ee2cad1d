// Package history implements bounded backward-in-time searches across
// daily ledgers: last meal of a category, last performance of an
// exercise, and personal-record history.
//
// The walks are O(days x workouts x exercises) with one ledger fetch per
// day, an accepted cost for small bounded windows; no indexing structure
// is assumed on the backing store.
package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/repository"
)

// Walk bounds, in days.
const (
	performanceLookbackDays = 60
	historyLookbackDays     = 90
)

// timeNow is overridable in tests.
var timeNow = time.Now

// Scanner searches ledgers backward in time.
type Scanner struct {
	logs repository.DailyLogRepository
}

// NewScanner creates a history scanner over the ledger store.
func NewScanner(logs repository.DailyLogRepository) *Scanner {
	return &Scanner{logs: logs}
}

// LastMatchingMealEntries returns the date and entries of the most recent
// ledger strictly before beforeDate, within maxDaysBack, containing at
// least one entry of the category. The ledger dated exactly maxDaysBack
// days before beforeDate is still inside the window. Returns "" and nil
// when nothing matches.
//
// All ledgers are fetched and filtered in memory, sorted by date
// descending; scanning stops as soon as a date older than the cutoff is
// seen, which is exact (not approximate) because of the sort order.
func (s *Scanner) LastMatchingMealEntries(ctx context.Context, sess domain.Session, category domain.MealCategory, beforeDate string, maxDaysBack int) (string, []domain.DailyLogEntry, error) {
	if !sess.Authenticated() {
		return "", nil, nil
	}
	cutoff, err := domain.AddDays(beforeDate, -maxDaysBack)
	if err != nil {
		return "", nil, err
	}

	logs, err := s.logs.ListByUser(ctx, sess.UserID) // sorted date descending
	if err != nil {
		return "", nil, err
	}
	for _, dayLog := range logs {
		if dayLog.Date >= beforeDate {
			continue
		}
		if dayLog.Date < cutoff {
			break
		}
		var matched []domain.DailyLogEntry
		for _, entry := range dayLog.Entries {
			if entry.Category == category {
				matched = append(matched, entry)
			}
		}
		if len(matched) > 0 {
			return dayLog.Date, matched, nil
		}
	}
	return "", nil, nil
}

// LastExercisePerformance returns the most recent recorded set
// performance for an exercise name (case-insensitive), walking backward
// day by day from beforeDate for up to 60 days. Within a day, workouts
// are scanned in reverse order so the latest session of the day wins.
// Returns nil when nothing matches.
func (s *Scanner) LastExercisePerformance(ctx context.Context, sess domain.Session, exerciseName, beforeDate string) ([]domain.SetPerformance, error) {
	var result []domain.SetPerformance
	err := s.walkBack(ctx, sess, beforeDate, performanceLookbackDays, exerciseName,
		func(_ string, performance []domain.SetPerformance) bool {
			result = performance
			return false // first match is enough
		})
	return result, err
}

// PerformanceOnDate is one day's recorded performance of an exercise.
type PerformanceOnDate struct {
	Date        string                  `json:"date"`
	Performance []domain.SetPerformance `json:"performance"`
}

// ExerciseHistory accumulates up to limit recent performances of an
// exercise, walking backward for up to 90 days.
func (s *Scanner) ExerciseHistory(ctx context.Context, sess domain.Session, exerciseName string, limit int) ([]PerformanceOnDate, error) {
	if limit <= 0 {
		return nil, nil
	}
	var results []PerformanceOnDate
	today := domain.FormatDate(timeNow())
	tomorrow, err := domain.AddDays(today, 1) // include today in the walk
	if err != nil {
		return nil, err
	}
	err = s.walkBack(ctx, sess, tomorrow, historyLookbackDays, exerciseName,
		func(date string, performance []domain.SetPerformance) bool {
			results = append(results, PerformanceOnDate{Date: date, Performance: performance})
			return len(results) < limit
		})
	return results, err
}

// walkBack visits matching completed exercises day by day, newest first,
// starting the day before beforeDate. visit returns false to stop early.
func (s *Scanner) walkBack(ctx context.Context, sess domain.Session, beforeDate string, maxDays int, exerciseName string, visit func(date string, performance []domain.SetPerformance) bool) error {
	if !sess.Authenticated() {
		return nil
	}
	date := beforeDate
	for day := 1; day <= maxDays; day++ {
		var err error
		if date, err = domain.AddDays(date, -1); err != nil {
			return err
		}

		dayLog, err := s.logs.Get(ctx, sess.UserID, date)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return err
		}

		// Latest session of the day first.
		for i := len(dayLog.Workouts) - 1; i >= 0; i-- {
			for _, ex := range dayLog.Workouts[i].Exercises {
				if !ex.Completed || len(ex.Performance) == 0 {
					continue
				}
				if !strings.EqualFold(ex.Name, exerciseName) {
					continue
				}
				if !visit(date, ex.Performance) {
					return nil
				}
			}
		}
	}
	return nil
}
