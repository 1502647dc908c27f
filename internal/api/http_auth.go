package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"peopledesk/internal/entity"
	"peopledesk/internal/service"
)

func (h *HTTPHandler) Login(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, token, expiresAt, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			BadRequest(c, ErrCodeValidation, "username and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			Unauthorized(c, ErrCodeInvalidCredentials, "invalid username or password")
		default:
			logrus.WithError(err).Error("login failed")
			InternalError(c, "failed to process login")
		}
		return
	}

	c.JSON(http.StatusOK, entity.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      makeUserSummary(user),
	})
}

// Logout always succeeds. Sessions are stateless: the server keeps no token
// table, discarding the token client-side is the whole operation. A stolen
// token therefore stays valid until its natural expiry.
func (h *HTTPHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, ErrCodeUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load user profile")
		InternalError(c, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(dbUser))
}

func makeUserSummary(user *entity.DbUser) entity.UserSummary {
	if user == nil {
		return entity.UserSummary{}
	}
	return entity.UserSummary{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Avatar:         user.Avatar,
		Role:           user.Role,
		Status:         user.Status,
		Department:     user.Department,
		Organization:   user.Organization,
		LinkedEmployee: user.LinkedEmployee,
		Permissions:    user.Permissions.ToSlice(),
		SectionAccess:  user.SectionAccess.ToSlice(),
		Username:       user.Username,
		GuestID:        user.GuestID,
		LastLogin:      user.LastLogin,
		CreatedDate:    user.CreatedAt,
		UpdatedDate:    user.UpdatedAt,
	}
}
