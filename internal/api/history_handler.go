package api

import (
	"net/http"
	"strconv"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/history"

	"github.com/gin-gonic/gin"
)

const (
	defaultMealLookbackDays = 14
	defaultHistoryLimit     = 10
)

// HistoryHandler serves backward scans over past daily logs.
type HistoryHandler struct {
	scanner *history.Scanner
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(scanner *history.Scanner) *HistoryHandler {
	return &HistoryHandler{scanner: scanner}
}

type LastMealsResponse struct {
	Date    string                 `json:"date"`
	Entries []domain.DailyLogEntry `json:"entries"`
}

// LastMeals returns the most recent day carrying entries of a meal
// category before the given date.
func (h *HistoryHandler) LastMeals(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}
	category := domain.MealCategory(c.Query("category"))
	if category == "" {
		abortWithError(c, http.StatusBadRequest, "category query parameter is required")
		return
	}
	lookback := defaultMealLookbackDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortWithError(c, http.StatusBadRequest, "invalid days query parameter")
			return
		}
		lookback = n
	}

	foundDate, entries, err := h.scanner.LastMatchingMealEntries(c.Request.Context(), sess, category, date, lookback)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "history scan failed")
		return
	}
	if entries == nil {
		entries = []domain.DailyLogEntry{}
	}
	c.JSON(http.StatusOK, LastMealsResponse{Date: foundDate, Entries: entries})
}

// LastPerformance returns the most recent recorded set performance for
// an exercise before the given date.
func (h *HistoryHandler) LastPerformance(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}
	name := c.Query("exercise")
	if name == "" {
		abortWithError(c, http.StatusBadRequest, "exercise query parameter is required")
		return
	}

	performance, err := h.scanner.LastExercisePerformance(c.Request.Context(), sess, name, date)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "history scan failed")
		return
	}
	if performance == nil {
		performance = []domain.SetPerformance{}
	}
	c.JSON(http.StatusOK, gin.H{"performance": performance})
}

// ExerciseHistory returns dated performance snapshots for an exercise,
// newest first.
func (h *HistoryHandler) ExerciseHistory(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	name := c.Query("exercise")
	if name == "" {
		abortWithError(c, http.StatusBadRequest, "exercise query parameter is required")
		return
	}
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortWithError(c, http.StatusBadRequest, "invalid limit query parameter")
			return
		}
		limit = n
	}

	snapshots, err := h.scanner.ExerciseHistory(c.Request.Context(), sess, name, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "history scan failed")
		return
	}
	if snapshots == nil {
		snapshots = []history.PerformanceOnDate{}
	}
	c.JSON(http.StatusOK, snapshots)
}
