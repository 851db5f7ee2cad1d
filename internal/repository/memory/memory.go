// Package memory provides in-memory implementations of the repository
// interfaces. They back the unit tests (no MongoDB needed) and mimic the
// document store's semantics: whole-document writes, copies on read so a
// held pointer never aliases stored state.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyLogRepository is an in-memory repository.DailyLogRepository.
type DailyLogRepository struct {
	mu   sync.Mutex
	logs map[string]domain.DailyLog // key: userID + "/" + date

	// FailNextPut makes the next Put return this error once, to exercise
	// write-failure handling.
	FailNextPut error
	// PutCount counts successful writes.
	PutCount int
}

// NewDailyLogRepository creates an empty in-memory ledger store.
func NewDailyLogRepository() *DailyLogRepository {
	return &DailyLogRepository{logs: make(map[string]domain.DailyLog)}
}

func logKey(userID, date string) string { return userID + "/" + date }

func (r *DailyLogRepository) Get(_ context.Context, userID, date string) (*domain.DailyLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[logKey(userID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := cloneLog(log)
	return &cp, nil
}

func (r *DailyLogRepository) Put(_ context.Context, log *domain.DailyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailNextPut != nil {
		err := r.FailNextPut
		r.FailNextPut = nil
		return err
	}
	log.UpdatedAt = time.Now().UTC()
	r.logs[logKey(log.UserID, log.Date)] = cloneLog(*log)
	r.PutCount++
	return nil
}

func (r *DailyLogRepository) Delete(_ context.Context, userID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := logKey(userID, date)
	if _, ok := r.logs[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.logs, key)
	return nil
}

func (r *DailyLogRepository) ListByUser(_ context.Context, userID string) ([]domain.DailyLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var logs []domain.DailyLog
	for _, log := range r.logs {
		if log.UserID == userID {
			logs = append(logs, cloneLog(log))
		}
	}
	// Newest date first, matching the Mongo implementation.
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
	return logs, nil
}

func cloneLog(log domain.DailyLog) domain.DailyLog {
	cp := log
	cp.Entries = append([]domain.DailyLogEntry(nil), log.Entries...)
	cp.Exercises = append([]domain.ExerciseEntry(nil), log.Exercises...)
	cp.Workouts = make([]domain.WorkoutEntry, len(log.Workouts))
	for i, w := range log.Workouts {
		cp.Workouts[i] = cloneWorkout(w)
	}
	return cp
}

func cloneWorkout(w domain.WorkoutEntry) domain.WorkoutEntry {
	cp := w
	cp.Exercises = make([]domain.WorkoutExercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		exCp := ex
		exCp.Performance = append([]domain.SetPerformance(nil), ex.Performance...)
		cp.Exercises[i] = exCp
	}
	return cp
}

// ProfileRepository is an in-memory repository.ProfileRepository.
type ProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]domain.UserProfile // key: userID

	// SaveCount counts successful writes.
	SaveCount int
}

// NewProfileRepository creates an empty in-memory profile store.
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]domain.UserProfile)}
}

func (r *ProfileRepository) Get(_ context.Context, userID string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := cloneProfile(profile)
	return &cp, nil
}

func (r *ProfileRepository) GetByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.Email == email {
			cp := cloneProfile(profile)
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ProfileRepository) Save(_ context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	r.profiles[profile.UserID] = cloneProfile(*profile)
	r.SaveCount++
	return nil
}

func cloneProfile(p domain.UserProfile) domain.UserProfile {
	cp := p
	if p.PersonalRecords != nil {
		cp.PersonalRecords = make(map[string]float64, len(p.PersonalRecords))
		for k, v := range p.PersonalRecords {
			cp.PersonalRecords[k] = v
		}
	}
	return cp
}

// RoutineRepository is an in-memory repository.RoutineRepository.
type RoutineRepository struct {
	mu       sync.Mutex
	routines map[primitive.ObjectID]domain.WorkoutRoutine
}

// NewRoutineRepository creates an empty in-memory routine store.
func NewRoutineRepository() *RoutineRepository {
	return &RoutineRepository{routines: make(map[primitive.ObjectID]domain.WorkoutRoutine)}
}

func (r *RoutineRepository) Create(_ context.Context, routine *domain.WorkoutRoutine) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	routine.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now
	r.routines[routine.ID] = cloneRoutine(*routine)
	return routine.ID, nil
}

func (r *RoutineRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutRoutine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	routine, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := cloneRoutine(routine)
	return &cp, nil
}

func (r *RoutineRepository) GetByUserID(_ context.Context, userID string) ([]domain.WorkoutRoutine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var routines []domain.WorkoutRoutine
	for _, routine := range r.routines {
		if routine.UserID == userID {
			routines = append(routines, cloneRoutine(routine))
		}
	}
	sort.Slice(routines, func(i, j int) bool {
		return routines[i].CreatedAt.After(routines[j].CreatedAt)
	})
	return routines, nil
}

func (r *RoutineRepository) Delete(_ context.Context, id primitive.ObjectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	routine, ok := r.routines[id]
	if !ok || routine.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.routines, id)
	return nil
}

func cloneRoutine(routine domain.WorkoutRoutine) domain.WorkoutRoutine {
	cp := routine
	cp.Exercises = append([]domain.RoutineExercise(nil), routine.Exercises...)
	return cp
}
