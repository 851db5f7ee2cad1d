package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// EntitlementChecker is the subscription collaborator: it answers the one
// question the engine cares about, whether the user is premium. The
// engine itself never queries entitlement; the flag rides on the session.
type EntitlementChecker interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

// StaticEntitlement grants the same tier to everyone; used until a real
// billing integration is wired in.
type StaticEntitlement bool

func (s StaticEntitlement) IsPremium(context.Context, string) (bool, error) {
	return bool(s), nil
}

// AuthService issues and backs the credentials the API layer turns into
// sessions.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.UserProfile, error)
	Login(ctx context.Context, email, password string) (token string, profile *domain.UserProfile, err error)
}

type authService struct {
	profiles      repository.ProfileRepository
	entitlements  EntitlementChecker
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(profiles repository.ProfileRepository, entitlements EntitlementChecker, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		profiles:      profiles,
		entitlements:  entitlements,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a profile shell for a new user. Biometrics and targets
// are filled in by the first profile save.
func (s *authService) Register(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}

	_, err := s.profiles.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	profile := &domain.UserProfile{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}

	profile.PasswordHash = ""
	return profile, nil
}

// Login authenticates and returns a signed JWT carrying the user id and
// premium flag.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.UserProfile, error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	premium, err := s.entitlements.IsPremium(ctx, profile.UserID)
	if err != nil {
		// Entitlement lookup failures degrade to the free tier rather than
		// blocking login.
		premium = false
	}

	token, err := s.generateJWT(profile.UserID, premium)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	profile.PasswordHash = ""
	return token, profile, nil
}

// Claims is the JWT payload shared with the API middleware.
type Claims struct {
	UserID  string `json:"uid"`
	Premium bool   `json:"premium"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(userID string, premium bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		Premium: premium,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
