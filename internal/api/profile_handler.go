package api

import (
	"errors"
	"fmt"
	"net/http"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/profile"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the user profile and its derived macro targets.
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile returns the caller's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	p, err := h.profiles.Get(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, "profile not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

type SaveProfileRequest struct {
	Gender         domain.Gender        `json:"gender" binding:"required"`
	AgeYears       int                  `json:"ageYears" binding:"required,min=13,max=120"`
	HeightCm       float64              `json:"heightCm" binding:"required,gt=0"`
	WeightKg       float64              `json:"weightKg" binding:"required,gt=0"`
	TargetWeightKg float64              `json:"targetWeightKg" binding:"required,gt=0"`
	Goal           domain.Goal          `json:"goal" binding:"required"`
	Pace           domain.Pace          `json:"pace"`
	UserType       domain.UserType      `json:"userType"`
	ActivityLevel  domain.ActivityLevel `json:"activityLevel" binding:"required"`
}

// SaveProfile stores the caller's biometrics and rederives expenditure
// and macro targets.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	saved, err := h.profiles.Save(c.Request.Context(), sess, &domain.UserProfile{
		Gender:         req.Gender,
		AgeYears:       req.AgeYears,
		HeightCm:       req.HeightCm,
		WeightKg:       req.WeightKg,
		TargetWeightKg: req.TargetWeightKg,
		Goal:           req.Goal,
		Pace:           req.Pace,
		UserType:       req.UserType,
		ActivityLevel:  req.ActivityLevel,
	})
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, saved)
}
