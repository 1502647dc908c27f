package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"peopledesk/internal/auth"
	"peopledesk/internal/entity"
)

const (
	currentUserContextKey = "current-user"
)

// RequestUser holds the authenticated user attached to the request context.
type RequestUser struct {
	ID            string
	Username      string
	Email         string
	Role          string
	Permissions   []string
	SectionAccess []string
}

// IsAdmin reports whether the user holds the admin role.
func (u *RequestUser) IsAdmin() bool {
	return u != nil && u.Role == entity.UserRoleAdmin
}

// IsAdminOrHR reports whether the user holds the admin or hr role.
func (u *RequestUser) IsAdminOrHR() bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case entity.UserRoleAdmin, entity.UserRoleHR:
		return true
	default:
		return false
	}
}

// Subject converts the request user into a policy subject.
func (u *RequestUser) Subject() *auth.Subject {
	if u == nil {
		return nil
	}
	return &auth.Subject{
		Role:        u.Role,
		Permissions: u.Permissions,
		Sections:    u.SectionAccess,
	}
}

// AuthMiddleware verifies the bearer token and loads the current user.
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "invalid authorization header format",
			})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			code := ErrCodeUnauthorized
			message := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				code = ErrCodeSessionExpired
				message = "token expired"
			}
			logrus.WithError(err).Warn("failed to parse bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    code,
				Message: message,
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := h.repo.GetUserByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeUnauthorized,
					Message: "user no longer exists",
				})
				return
			}
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("failed to load user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
				Code:    ErrCodeInternalError,
				Message: "failed to verify user",
			})
			return
		}

		if !user.IsActive() {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "account is not active",
			})
			return
		}

		requestUser := &RequestUser{
			ID:            user.ID,
			Username:      user.Username,
			Email:         user.Email,
			Role:          user.Role,
			Permissions:   user.Permissions.ToSlice(),
			SectionAccess: user.SectionAccess.ToSlice(),
		}

		c.Set(currentUserContextKey, requestUser)
		c.Next()
	}
}

// RequireAccess guards a route group with a policy requirement. Every
// protected route goes through the same evaluator instead of ad hoc role
// switches.
func (h *HTTPHandler) RequireAccess(req auth.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if !auth.Evaluate(user.Subject(), req) {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "insufficient privileges",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser reads the authenticated user from the request context.
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}
