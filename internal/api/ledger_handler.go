package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/ledger"
	"alcyxob/fitness-ledger/internal/storage"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves daily ledger reads and food entry mutations.
type LedgerHandler struct {
	ledger      *ledger.Service
	fileStorage storage.FileStorage
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService *ledger.Service, fileStorage storage.FileStorage) *LedgerHandler {
	return &LedgerHandler{ledger: ledgerService, fileStorage: fileStorage}
}

// dateParam extracts and validates the :date path parameter.
func dateParam(c *gin.Context) (string, bool) {
	date := c.Param("date")
	if _, err := domain.ParseDate(date); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", date))
		return "", false
	}
	return date, true
}

// GetLog returns the ledger for one date (empty skeleton if unwritten).
func (h *LedgerHandler) GetLog(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	dayLog, err := h.ledger.Get(c.Request.Context(), sess, date)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to load daily log")
		return
	}
	c.JSON(http.StatusOK, dayLog)
}

// GetSummary returns the day's budget view. The optional expectWorkout
// query parameter makes the read wait (bounded) for that workout to
// appear completed.
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	summary, err := h.ledger.Summary(c.Request.Context(), sess, date, c.Query("expectWorkout"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to build summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddMealEntry appends a food entry.
func (h *LedgerHandler) AddMealEntry(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var entry domain.DailyLogEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	dayLog, err := h.ledger.AddMealEntry(c.Request.Context(), sess, date, entry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to add entry")
		return
	}
	c.JSON(http.StatusCreated, dayLog)
}

// UpdateMealEntry replaces a food entry by id.
func (h *LedgerHandler) UpdateMealEntry(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var entry domain.DailyLogEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	entry.ID = c.Param("entryId")

	dayLog, err := h.ledger.UpdateMealEntry(c.Request.Context(), sess, date, entry)
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "failed to update entry")
		return
	}
	c.JSON(http.StatusOK, dayLog)
}

// RemoveMealEntry deletes a food entry by id.
func (h *LedgerHandler) RemoveMealEntry(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	dayLog, err := h.ledger.RemoveMealEntry(c.Request.Context(), sess, date, c.Param("entryId"))
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "failed to remove entry")
		return
	}
	c.JSON(http.StatusOK, dayLog)
}

type RepeatMealRequest struct {
	Category domain.MealCategory `json:"category" binding:"required"`
}

// RepeatLastMeal clones the most recent entries of a category into the
// given date.
func (h *LedgerHandler) RepeatLastMeal(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var req RepeatMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entries, err := h.ledger.RepeatLastMeal(c.Request.Context(), sess, req.Category, date)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to repeat last meal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type PhotoUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type PhotoUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// RequestPhotoUploadURL presigns a PUT URL for one food entry's photo.
// The client uploads directly to object storage and then saves the
// returned key onto the entry via UpdateMealEntry.
func (h *LedgerHandler) RequestPhotoUploadURL(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	var req PhotoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if !strings.HasPrefix(strings.ToLower(req.ContentType), "image/") {
		abortWithError(c, http.StatusBadRequest, "content type must be an image")
		return
	}

	ext := req.ContentType[strings.Index(req.ContentType, "/")+1:]
	objectKey := storage.MealPhotoKey(sess.UserID, date, c.Param("entryId"), ext)
	uploadURL, err := h.fileStorage.GeneratePresignedUploadURL(c.Request.Context(), objectKey, req.ContentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, PhotoUploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// GetPhotoDownloadURL presigns a GET URL for a food entry's stored photo.
func (h *LedgerHandler) GetPhotoDownloadURL(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}

	dayLog, err := h.ledger.Get(c.Request.Context(), sess, date)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to load daily log")
		return
	}
	entryID := c.Param("entryId")
	for _, entry := range dayLog.Entries {
		if entry.ID == entryID {
			if entry.PhotoKey == "" {
				abortWithError(c, http.StatusNotFound, "entry has no photo")
				return
			}
			url, err := h.fileStorage.GeneratePresignedDownloadURL(c.Request.Context(), entry.PhotoKey, storage.DefaultPresignedURLExpiry)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "failed to generate download URL")
				return
			}
			c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
			return
		}
	}
	abortWithError(c, http.StatusNotFound, "entry not found")
}
