package api

import (
	"errors"
	"fmt"
	"net/http"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/ledger"
	"alcyxob/fitness-ledger/internal/repository"
	"alcyxob/fitness-ledger/internal/workout"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler serves workout sessions, their mirror entries and
// routines.
type WorkoutHandler struct {
	engine   *workout.Engine
	routines repository.RoutineRepository
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(engine *workout.Engine, routines repository.RoutineRepository) *WorkoutHandler {
	return &WorkoutHandler{engine: engine, routines: routines}
}

// abortEngineError maps engine sentinels to HTTP status codes.
func abortEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workout.ErrWorkoutNotFound),
		errors.Is(err, workout.ErrExerciseNotFound),
		errors.Is(err, workout.ErrRoutineNotFound),
		errors.Is(err, ledger.ErrEntryNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, workout.ErrMirrorEntry):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "operation failed")
	}
}

type InstantiateRoutineRequest struct {
	RoutineID      string `json:"routineId" binding:"required"`
	MirrorToLedger bool   `json:"mirrorToLedger"`
}

// InstantiateFromRoutine starts a workout session from a routine template.
func (h *WorkoutHandler) InstantiateFromRoutine(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var req InstantiateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid routine id")
		return
	}

	workoutID, err := h.engine.InstantiateFromRoutine(c.Request.Context(), sess, date, routineID, req.MirrorToLedger)
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"workoutId": workoutID})
}

type UpsertWorkoutRequest struct {
	Workout        domain.WorkoutEntry `json:"workout" binding:"required"`
	MirrorToLedger bool                `json:"mirrorToLedger"`
}

// UpsertWorkout replaces or appends a workout, reconciling its mirrors.
func (h *WorkoutHandler) UpsertWorkout(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var req UpsertWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.Workout.ID == "" {
		abortWithError(c, http.StatusBadRequest, "workout id is required")
		return
	}

	if err := h.engine.UpsertWorkout(c.Request.Context(), sess, date, req.Workout, req.MirrorToLedger); err != nil {
		abortEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type RecordPerformanceRequest struct {
	Performance    []domain.SetPerformance `json:"performance" binding:"required"`
	MirrorToLedger bool                    `json:"mirrorToLedger"`
}

// RecordPerformance writes set performance onto one exercise.
func (h *WorkoutHandler) RecordPerformance(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var req RecordPerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	err = h.engine.RecordSetPerformance(c.Request.Context(), sess, date,
		c.Param("workoutId"), c.Param("exerciseId"), req.Performance, req.MirrorToLedger)
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FinishWorkout completes a session: PR detection runs and session
// calories become visible to nutrition totals.
func (h *WorkoutHandler) FinishWorkout(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	if err := h.engine.Finish(c.Request.Context(), sess, date, c.Param("workoutId")); err != nil {
		abortEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveWorkout deletes a workout and every entry back-referencing it.
func (h *WorkoutHandler) RemoveWorkout(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	if err := h.engine.RemoveWorkout(c.Request.Context(), sess, date, c.Param("workoutId")); err != nil {
		abortEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type AddExerciseRequest struct {
	Name           string `json:"name" binding:"required"`
	Sets           int    `json:"sets" binding:"required,min=1"`
	RestTime       int    `json:"restTime"`
	MirrorToLedger bool   `json:"mirrorToLedger"`
}

// AddExercise appends an exercise to a workout.
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exerciseID, err := h.engine.AddExerciseToWorkout(c.Request.Context(), sess, date, c.Param("workoutId"),
		domain.RoutineExercise{Name: req.Name, Sets: req.Sets, RestTime: req.RestTime}, req.MirrorToLedger)
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"exerciseId": exerciseID})
}

// UpdateExercise replaces an exercise, keeping its mirror in lockstep.
func (h *WorkoutHandler) UpdateExercise(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var ex domain.WorkoutExercise
	if err := c.ShouldBindJSON(&ex); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	ex.ID = c.Param("exerciseId")

	if err := h.engine.UpdateExerciseInWorkout(c.Request.Context(), sess, date, c.Param("workoutId"), ex); err != nil {
		abortEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveExercise deletes an exercise and its mirror.
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	err = h.engine.RemoveExerciseFromWorkout(c.Request.Context(), sess, date, c.Param("workoutId"), c.Param("exerciseId"))
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddStandaloneExercise appends an authored (non-mirror) exercise entry.
func (h *WorkoutHandler) AddStandaloneExercise(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var entry domain.ExerciseEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	created, err := h.engine.AddStandaloneExercise(c.Request.Context(), sess, date, entry)
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// RemoveStandaloneExercise deletes an authored exercise entry.
func (h *WorkoutHandler) RemoveStandaloneExercise(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	if err := h.engine.RemoveStandaloneExercise(c.Request.Context(), sess, date, c.Param("entryId")); err != nil {
		abortEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type PromoteRequest struct {
	Name string `json:"name"`
}

// PromoteToRoutine saves a workout as a reusable template.
func (h *WorkoutHandler) PromoteToRoutine(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var req PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	routineID, err := h.engine.PromoteToRoutine(c.Request.Context(), sess, date, c.Param("workoutId"), req.Name)
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"routineId": routineID.Hex()})
}

// ListRoutines returns the user's saved routines.
func (h *WorkoutHandler) ListRoutines(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	routines, err := h.routines.GetByUserID(c.Request.Context(), sess.UserID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list routines")
		return
	}
	if routines == nil {
		routines = []domain.WorkoutRoutine{}
	}
	c.JSON(http.StatusOK, routines)
}

// DeleteRoutine removes one of the user's routines.
func (h *WorkoutHandler) DeleteRoutine(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	routineID, err := primitive.ObjectIDFromHex(c.Param("routineId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid routine id")
		return
	}

	if err := h.routines.Delete(c.Request.Context(), routineID, sess.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "routine not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "failed to delete routine")
		return
	}
	c.Status(http.StatusNoContent)
}
