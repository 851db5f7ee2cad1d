// Package profile derives the daily targets from body metrics and goals
// on every profile save.
package profile

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/metabolic"
	"alcyxob/fitness-ledger/internal/repository"
)

// ErrProfileNotFound is returned when a user has no saved profile.
var ErrProfileNotFound = errors.New("profile: not found")

// Service owns profile reads and the save pipeline.
type Service struct {
	profiles repository.ProfileRepository
}

// NewService creates a profile service.
func NewService(profiles repository.ProfileRepository) *Service {
	return &Service{profiles: profiles}
}

// Get returns the stored profile.
func (s *Service) Get(ctx context.Context, sess domain.Session) (*domain.UserProfile, error) {
	if !sess.Authenticated() {
		return nil, ErrProfileNotFound
	}
	profile, err := s.profiles.Get(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Save derives TDEE and the macro targets from the submitted biometrics
// and persists the whole profile. Derivation runs basal rate, then daily
// expenditure, then the four-step macro split; enum errors from the
// calculator propagate unchanged (validated input should make them
// impossible).
func (s *Service) Save(ctx context.Context, sess domain.Session, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if !sess.Authenticated() {
		return nil, ErrProfileNotFound
	}
	profile.UserID = sess.UserID

	// Keep identity fields that the save payload does not carry.
	if existing, err := s.profiles.Get(ctx, sess.UserID); err == nil {
		if profile.Email == "" {
			profile.Email = existing.Email
		}
		if profile.PasswordHash == "" {
			profile.PasswordHash = existing.PasswordHash
		}
		if profile.PersonalRecords == nil {
			profile.PersonalRecords = existing.PersonalRecords
		}
		profile.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	basal := metabolic.BasalRate(profile.WeightKg, profile.HeightCm, profile.AgeYears, profile.Gender)
	tdee, err := metabolic.DailyExpenditure(basal, profile.ActivityLevel)
	if err != nil {
		return nil, fmt.Errorf("derive expenditure: %w", err)
	}
	targets, err := metabolic.MacroTargets(metabolic.TargetInput{
		Expenditure:     tdee,
		Goal:            profile.Goal,
		TargetWeightKg:  profile.TargetWeightKg,
		CurrentWeightKg: profile.WeightKg,
		Gender:          profile.Gender,
		Pace:            profile.Pace,
		UserType:        profile.UserType,
	})
	if err != nil {
		return nil, fmt.Errorf("derive macro targets: %w", err)
	}

	profile.TDEE = tdee
	profile.TargetMacros = targets
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
