package repository

import (
	"context"

	"alcyxob/fitness-ledger/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DailyLogRepository is the per-user, per-date ledger store. The unit of
// atomicity is one whole-document write: Put replaces the full document
// (last-writer-wins), there is no field-level merge and no
// compare-and-swap token.
type DailyLogRepository interface {
	// Get returns the ledger for a date, or ErrNotFound if never written.
	Get(ctx context.Context, userID, date string) (*domain.DailyLog, error)
	// Put upserts the whole ledger document keyed by (userID, date).
	Put(ctx context.Context, log *domain.DailyLog) error
	Delete(ctx context.Context, userID, date string) error
	// ListByUser fetches every ledger document for the user. History
	// scanning filters and sorts the result in memory; no server-side
	// query predicates are relied on.
	ListByUser(ctx context.Context, userID string) ([]domain.DailyLog, error)
}

// ProfileRepository stores the single profile document per user.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	// Save upserts the whole profile document keyed by userID.
	Save(ctx context.Context, profile *domain.UserProfile) error
}

// RoutineRepository stores reusable workout templates, independent of any
// single day.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.WorkoutRoutine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutRoutine, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.WorkoutRoutine, error)
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}
