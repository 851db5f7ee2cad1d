package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context key for the resolved session.
const contextSessionKey = "session"

// AuthMiddleware creates a Gin middleware for JWT authentication. On
// success it stores a domain.Session in the request context; every
// downstream handler takes identity from there, never from globals.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &service.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}
		if !token.Valid || claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(contextSessionKey, domain.Session{
			UserID:  claims.UserID,
			Premium: claims.Premium,
		})
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// sessionFromContext returns the session set by AuthMiddleware.
func sessionFromContext(c *gin.Context) (domain.Session, error) {
	raw, exists := c.Get(contextSessionKey)
	if !exists {
		return domain.Session{}, errors.New("session not found in context")
	}
	sess, ok := raw.(domain.Session)
	if !ok {
		return domain.Session{}, errors.New("invalid session type in context")
	}
	return sess, nil
}
