// Package records tracks per-exercise personal bests on the user profile.
package records

import (
	"context"
	"errors"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/repository"

	log "github.com/sirupsen/logrus"
)

// Tracker compares candidate one-rep-max estimates against the stored
// best per exercise name and persists improvements.
type Tracker struct {
	profiles repository.ProfileRepository
}

// NewTracker creates a record tracker.
func NewTracker(profiles repository.ProfileRepository) *Tracker {
	return &Tracker{profiles: profiles}
}

// UpdatePersonalRecord persists candidate as the new best for the
// exercise if it strictly beats the stored record (default 0 when
// absent), returning whether it did. Ties and regressions leave the
// profile untouched, so redundant calls are no-ops: records are
// monotonically non-decreasing over time.
func (t *Tracker) UpdatePersonalRecord(ctx context.Context, sess domain.Session, exerciseName string, candidate float64) (bool, error) {
	if !sess.Authenticated() {
		log.Warnf("records: skipping PR update for [%s]: no authenticated user", exerciseName)
		return false, nil
	}

	profile, err := t.profiles.Get(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// No profile yet means no records to beat either.
			return false, nil
		}
		return false, err
	}

	if candidate <= profile.PersonalRecords[exerciseName] {
		return false, nil
	}

	if profile.PersonalRecords == nil {
		profile.PersonalRecords = make(map[string]float64)
	}
	profile.PersonalRecords[exerciseName] = candidate
	if err := t.profiles.Save(ctx, profile); err != nil {
		return false, err
	}
	return true, nil
}
