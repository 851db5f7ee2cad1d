// Package workout keeps workout sessions and their mirror entries in the
// flat exercise list consistent through the workout lifecycle.
//
// The core primitive is remove-then-reinsert, not diff-and-patch: every
// upsert first strips the mirrors it owns and then appends at most one
// fresh session mirror. Called repeatedly, or after a partial prior
// failure, it converges back to the invariant state on its own.
package workout

import (
	"context"
	"errors"
	"math"
	"time"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/ledger"
	"alcyxob/fitness-ledger/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors. NotFound conditions are fatal to the specific
// operation and surfaced to the caller, never silently skipped.
var (
	ErrWorkoutNotFound  = errors.New("workout: workout not found")
	ErrExerciseNotFound = errors.New("workout: exercise not found")
	ErrRoutineNotFound  = errors.New("workout: routine not found")
	ErrMirrorEntry      = errors.New("workout: entry is a derived mirror and cannot be edited directly")
)

// Rough per-set execution time used to estimate the duration of an
// exercise mirror (templates carry sets and rest only).
const estimatedSecondsPerSet = 45

// RecordKeeper persists personal-record improvements. Implemented by the
// records tracker.
type RecordKeeper interface {
	UpdatePersonalRecord(ctx context.Context, sess domain.Session, exerciseName string, candidate float64) (bool, error)
}

// OneRepMax estimates a 1RM from one set; injected so the engine carries
// no direct dependency on the math package.
type OneRepMax func(weight float64, reps int) float64

// Engine maintains the invariant relationship between workouts and their
// calorie-contributing mirror entries inside a daily ledger.
type Engine struct {
	ledger   *ledger.Service
	routines repository.RoutineRepository
	records  RecordKeeper
	oneRM    OneRepMax
}

// NewEngine creates a sync engine.
func NewEngine(ledgerSvc *ledger.Service, routines repository.RoutineRepository, records RecordKeeper, oneRM OneRepMax) *Engine {
	return &Engine{
		ledger:   ledgerSvc,
		routines: routines,
		records:  records,
		oneRM:    oneRM,
	}
}

// InstantiateFromRoutine copies a routine's exercise templates with
// freshly generated ids into a new, not-yet-completed workout on the
// given date. With mirrorToLedger, one zero-calorie duration-only mirror
// is appended per exercise; session calories are attributed at finish,
// not per exercise.
func (e *Engine) InstantiateFromRoutine(ctx context.Context, sess domain.Session, date string, routineID primitive.ObjectID, mirrorToLedger bool) (string, error) {
	routine, err := e.routines.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRoutineNotFound
		}
		return "", err
	}
	if routine.UserID != sess.UserID {
		return "", ErrRoutineNotFound
	}

	now := time.Now().UTC()
	w := domain.WorkoutEntry{
		ID:        uuid.NewString(),
		Name:      routine.Name,
		Completed: false,
		StartedAt: now,
		Exercises: make([]domain.WorkoutExercise, len(routine.Exercises)),
	}
	for i, tmpl := range routine.Exercises {
		w.Exercises[i] = domain.WorkoutExercise{
			ID:       uuid.NewString(),
			Name:     tmpl.Name,
			Sets:     tmpl.Sets,
			RestTime: tmpl.RestTime,
		}
	}

	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return "", err
	}
	dayLog.Workouts = append(dayLog.Workouts, w)
	if mirrorToLedger {
		for _, ex := range w.Exercises {
			dayLog.Exercises = append(dayLog.Exercises, exerciseMirror(w.ID, ex, now))
		}
	}
	if err := e.ledger.Put(ctx, sess, dayLog); err != nil {
		return "", err
	}
	return w.ID, nil
}

// UpsertWorkout replaces (or appends) the workout and reconciles its
// mirrors, persisting the ledger as one document write:
//
//  1. every session mirror of this workout is removed, as is every
//     exercise mirror whose source exercise no longer exists in it
//     (mirrors are disambiguated by which source object currently
//     exists, not by id shape);
//  2. if mirroring is on and the session burned calories, exactly one
//     fresh session mirror is appended.
//
// The unconditional cleanup is what makes repeated calls idempotent and
// heals any stale mirrors a previously interrupted operation left behind.
func (e *Engine) UpsertWorkout(ctx context.Context, sess domain.Session, date string, w domain.WorkoutEntry, mirrorToLedger bool) error {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return err
	}
	applyUpsert(dayLog, w, mirrorToLedger)
	return e.ledger.Put(ctx, sess, dayLog)
}

// applyUpsert is the in-memory invariant-preserving step shared by every
// operation that rewrites a workout. Callers persist the log afterwards.
func applyUpsert(dayLog *domain.DailyLog, w domain.WorkoutEntry, mirrorToLedger bool) {
	replaced := false
	for i := range dayLog.Workouts {
		if dayLog.Workouts[i].ID == w.ID {
			dayLog.Workouts[i] = w
			replaced = true
			break
		}
	}
	if !replaced {
		dayLog.Workouts = append(dayLog.Workouts, w)
	}

	live := make(map[string]bool, len(w.Exercises))
	for _, ex := range w.Exercises {
		live[ex.ID] = true
	}
	kept := dayLog.Exercises[:0]
	for _, entry := range dayLog.Exercises {
		switch {
		case entry.Kind == domain.EntryWorkoutMirror && entry.SourceID == w.ID:
			continue // re-created below when mirroring
		case entry.Kind == domain.EntryExerciseMirror && entry.WorkoutID == w.ID && !live[entry.SourceID]:
			continue // source exercise is gone
		}
		kept = append(kept, entry)
	}
	dayLog.Exercises = kept

	if mirrorToLedger && w.CaloriesBurned > 0 {
		dayLog.Exercises = append(dayLog.Exercises, domain.ExerciseEntry{
			ID:              domain.MirrorEntryID(w.ID),
			Kind:            domain.EntryWorkoutMirror,
			SourceID:        w.ID,
			WorkoutID:       w.ID,
			Name:            w.Name,
			CaloriesBurned:  w.CaloriesBurned,
			DurationMinutes: w.DurationMinutes,
			Timestamp:       time.Now().UTC(),
		})
	}
}

// RecordSetPerformance writes set performance onto one exercise of a
// workout, marks the exercise completed, and reconciles mirrors. Session
// calories are NOT mirrored here; that only happens on Finish.
func (e *Engine) RecordSetPerformance(ctx context.Context, sess domain.Session, date, workoutID, exerciseID string, performance []domain.SetPerformance, mirrorToLedger bool) error {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return err
	}
	w := dayLog.FindWorkout(workoutID)
	if w == nil {
		return ErrWorkoutNotFound
	}
	ex := w.FindExercise(exerciseID)
	if ex == nil {
		return ErrExerciseNotFound
	}
	ex.Performance = performance
	ex.Completed = true

	applyUpsert(dayLog, *w, mirrorToLedger)
	return e.ledger.Put(ctx, sess, dayLog)
}

// Finish marks the workout completed, runs personal-record detection over
// its completed exercises, and upserts with mirroring forced on. This is
// the single point where session calories become visible to the
// nutrition totals.
func (e *Engine) Finish(ctx context.Context, sess domain.Session, date, workoutID string) error {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return err
	}
	w := dayLog.FindWorkout(workoutID)
	if w == nil {
		return ErrWorkoutNotFound
	}
	w.Completed = true

	newPRs := 0
	for _, ex := range w.Exercises {
		if !ex.Completed || len(ex.Performance) == 0 {
			continue
		}
		var best float64
		for _, set := range ex.Performance {
			if est := e.oneRM(set.Weight, set.Reps); est > best {
				best = est
			}
		}
		if best <= 0 {
			continue
		}
		improved, err := e.records.UpdatePersonalRecord(ctx, sess, ex.Name, best)
		if err != nil {
			return err
		}
		if improved {
			newPRs++
		}
	}
	w.NewPRs = newPRs

	applyUpsert(dayLog, *w, true)
	return e.ledger.Put(ctx, sess, dayLog)
}

// RemoveWorkout deletes the workout and every exercise entry
// back-referencing it, in the same document write.
func (e *Engine) RemoveWorkout(ctx context.Context, sess domain.Session, date, workoutID string) error {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return err
	}

	removed := false
	keptWorkouts := dayLog.Workouts[:0]
	for _, w := range dayLog.Workouts {
		if w.ID == workoutID {
			removed = true
			continue
		}
		keptWorkouts = append(keptWorkouts, w)
	}
	dayLog.Workouts = keptWorkouts

	keptEntries := dayLog.Exercises[:0]
	for _, entry := range dayLog.Exercises {
		if entry.WorkoutID == workoutID || (entry.Kind == domain.EntryWorkoutMirror && entry.SourceID == workoutID) {
			removed = true
			continue
		}
		keptEntries = append(keptEntries, entry)
	}
	dayLog.Exercises = keptEntries

	if !removed {
		return ErrWorkoutNotFound
	}
	return e.ledger.Put(ctx, sess, dayLog)
}

// AddStandaloneExercise appends an authored exercise entry, independent
// of any workout (manually logged or gym-synced cardio).
func (e *Engine) AddStandaloneExercise(ctx context.Context, sess domain.Session, date string, entry domain.ExerciseEntry) (*domain.ExerciseEntry, error) {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return nil, err
	}
	entry.Kind = domain.EntryAuthored
	entry.SourceID = ""
	entry.WorkoutID = ""
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	dayLog.Exercises = append(dayLog.Exercises, entry)
	if err := e.ledger.Put(ctx, sess, dayLog); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveStandaloneExercise deletes an authored exercise entry by id.
// Mirror entries belong to their source workout and are refused.
func (e *Engine) RemoveStandaloneExercise(ctx context.Context, sess domain.Session, date, entryID string) error {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return err
	}
	kept := dayLog.Exercises[:0]
	found := false
	for _, entry := range dayLog.Exercises {
		if entry.ID == entryID {
			if entry.IsMirror() {
				return ErrMirrorEntry
			}
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return ledger.ErrEntryNotFound
	}
	dayLog.Exercises = kept
	return e.ledger.Put(ctx, sess, dayLog)
}

// AddExerciseToWorkout appends an exercise with a freshly generated id,
// optionally with its own zero-calorie duration-only mirror. Exercise
// mirrors and a session mirror can coexist for the same workout; they
// are told apart by kind and source, never by id shape.
func (e *Engine) AddExerciseToWorkout(ctx context.Context, sess domain.Session, date, workoutID string, tmpl domain.RoutineExercise, mirrorToLedger bool) (string, error) {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return "", err
	}
	w := dayLog.FindWorkout(workoutID)
	if w == nil {
		return "", ErrWorkoutNotFound
	}
	ex := domain.WorkoutExercise{
		ID:       uuid.NewString(),
		Name:     tmpl.Name,
		Sets:     tmpl.Sets,
		RestTime: tmpl.RestTime,
	}
	w.Exercises = append(w.Exercises, ex)
	if mirrorToLedger {
		dayLog.Exercises = append(dayLog.Exercises, exerciseMirror(w.ID, ex, time.Now().UTC()))
	}
	if err := e.ledger.Put(ctx, sess, dayLog); err != nil {
		return "", err
	}
	return ex.ID, nil
}

// UpdateExerciseInWorkout replaces an exercise by id and keeps its mirror
// (if present) in lockstep, with the same remove-then-reinsert discipline
// as UpsertWorkout.
func (e *Engine) UpdateExerciseInWorkout(ctx context.Context, sess domain.Session, date, workoutID string, ex domain.WorkoutExercise) error {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return err
	}
	w := dayLog.FindWorkout(workoutID)
	if w == nil {
		return ErrWorkoutNotFound
	}
	existing := w.FindExercise(ex.ID)
	if existing == nil {
		return ErrExerciseNotFound
	}
	*existing = ex

	if removeExerciseMirror(dayLog, ex.ID) {
		dayLog.Exercises = append(dayLog.Exercises, exerciseMirror(w.ID, ex, time.Now().UTC()))
	}
	return e.ledger.Put(ctx, sess, dayLog)
}

// RemoveExerciseFromWorkout deletes an exercise and its mirror (if
// present) in the same document write.
func (e *Engine) RemoveExerciseFromWorkout(ctx context.Context, sess domain.Session, date, workoutID, exerciseID string) error {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return err
	}
	w := dayLog.FindWorkout(workoutID)
	if w == nil {
		return ErrWorkoutNotFound
	}
	kept := w.Exercises[:0]
	found := false
	for _, ex := range w.Exercises {
		if ex.ID == exerciseID {
			found = true
			continue
		}
		kept = append(kept, ex)
	}
	if !found {
		return ErrExerciseNotFound
	}
	w.Exercises = kept

	removeExerciseMirror(dayLog, exerciseID)
	return e.ledger.Put(ctx, sess, dayLog)
}

// PromoteToRoutine saves a workout's exercise shapes as a reusable
// template, independent of any single day. Ids are dropped so
// instantiation always mints fresh ones.
func (e *Engine) PromoteToRoutine(ctx context.Context, sess domain.Session, date, workoutID, name string) (primitive.ObjectID, error) {
	dayLog, err := e.ledger.Get(ctx, sess, date)
	if err != nil {
		return primitive.NilObjectID, err
	}
	w := dayLog.FindWorkout(workoutID)
	if w == nil {
		return primitive.NilObjectID, ErrWorkoutNotFound
	}
	if name == "" {
		name = w.Name
	}
	routine := &domain.WorkoutRoutine{
		UserID:    sess.UserID,
		Name:      name,
		Exercises: make([]domain.RoutineExercise, len(w.Exercises)),
	}
	for i, ex := range w.Exercises {
		routine.Exercises[i] = domain.RoutineExercise{
			Name:     ex.Name,
			Sets:     ex.Sets,
			RestTime: ex.RestTime,
		}
	}
	return e.routines.Create(ctx, routine)
}

// exerciseMirror builds the zero-calorie, duration-only projection of one
// workout exercise.
func exerciseMirror(workoutID string, ex domain.WorkoutExercise, now time.Time) domain.ExerciseEntry {
	return domain.ExerciseEntry{
		ID:              domain.MirrorEntryID(ex.ID),
		Kind:            domain.EntryExerciseMirror,
		SourceID:        ex.ID,
		WorkoutID:       workoutID,
		Name:            ex.Name,
		CaloriesBurned:  0,
		DurationMinutes: estimateMinutes(ex),
		Timestamp:       now,
	}
}

// estimateMinutes approximates how long an exercise takes from its set
// count and rest time.
func estimateMinutes(ex domain.WorkoutExercise) int {
	if ex.Sets <= 0 {
		return 0
	}
	seconds := ex.Sets * (ex.RestTime + estimatedSecondsPerSet)
	return int(math.Round(float64(seconds) / 60))
}

// removeExerciseMirror strips the mirror of one exercise, reporting
// whether one was present.
func removeExerciseMirror(dayLog *domain.DailyLog, exerciseID string) bool {
	kept := dayLog.Exercises[:0]
	had := false
	for _, entry := range dayLog.Exercises {
		if entry.Kind == domain.EntryExerciseMirror && entry.SourceID == exerciseID {
			had = true
			continue
		}
		kept = append(kept, entry)
	}
	dayLog.Exercises = kept
	return had
}
