package middleware

import (
	"strings"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bazaar/internal/delivery/http/response"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextKeyUserID = "userID"
	ContextKeyRole   = "role"
)

// AuthMiddleware verifies bearer tokens and resolves them to local accounts.
type AuthMiddleware struct {
	verifier service.IdentityVerifier
	userRepo repository.UserRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(verifier service.IdentityVerifier, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, userRepo: userRepo}
}

// Authenticate validates the bearer token and upserts the local account from
// the verified identity. First login creates the account; later logins refresh
// email and name. The local account id, not the provider subject, is what
// handlers see.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid token format, must be Bearer token")
		}

		identity, err := m.verifier.Verify(c.Request().Context(), tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid or expired token")
		}

		user := &entity.User{
			SubjectID: identity.SubjectID,
			Email:     identity.Email,
			Name:      identity.Name,
			Role:      identity.Role,
		}
		if err := m.userRepo.UpsertBySubject(c.Request().Context(), user); err != nil {
			return errors.WithStack(err)
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyRole, user.Role)

		return next(c)
	}
}

// RequireCapability gates a route on a role capability. It must be used AFTER
// the Authenticate middleware.
func (m *AuthMiddleware) RequireCapability(capability entity.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextKeyRole).(entity.Role)
			if !ok {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied: role information missing")
			}

			if !role.HasCapability(capability) {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied: missing '"+string(capability)+"' capability")
			}

			return next(c)
		}
	}
}

// GetUserID extracts the authenticated user's account id from the context.
func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user id missing from request context")
	}

	return userID, nil
}
