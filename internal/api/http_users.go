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

func (h *HTTPHandler) ListUsers(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeValidation, "invalid query parameters")
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	if query.PageSize > 100 {
		query.PageSize = 100
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, meta, err := h.repo.ListUsers(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		InternalError(c, "failed to load users")
		return
	}

	response := entity.UserListResponse{
		Users: make([]entity.UserSummary, 0, len(users)),
		Meta:  meta,
	}
	for idx := range users {
		response.Users = append(response.Users, makeUserSummary(&users[idx]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *HTTPHandler) GetUser(c *gin.Context) {
	requestUser := CurrentUser(c)
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		BadRequest(c, ErrCodeValidation, "invalid user id")
		return
	}

	// Own record is always readable; anyone else needs admin or hr.
	if requestUser == nil {
		Unauthorized(c, ErrCodeUnauthorized, "authentication required")
		return
	}
	if requestUser.ID != id {
		req := auth.Requirement{Roles: []string{entity.UserRoleAdmin, entity.UserRoleHR}}
		if !auth.Evaluate(requestUser.Subject(), req) {
			Forbidden(c, "insufficient privileges")
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to load user")
		InternalError(c, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(user))
}

func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeValidation, "name, email, username, password and role are required")
		return
	}

	role := sanitizeRole(req.Role)
	if role == "" {
		BadRequest(c, ErrCodeValidation, "invalid role")
		return
	}

	status := entity.UserStatusActive
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		status = sanitizeStatus(trimmed)
		if status == "" {
			BadRequest(c, ErrCodeValidation, "invalid status")
			return
		}
	}

	// Only plaintext passwords are accepted; the hash is computed here.
	hash, err := auth.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		logrus.WithError(err).Error("failed to hash password for new user")
		InternalError(c, "failed to create user")
		return
	}

	user := &entity.DbUser{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		Avatar:         strings.TrimSpace(req.Avatar),
		Role:           role,
		Status:         status,
		Department:     strings.TrimSpace(req.Department),
		Organization:   strings.TrimSpace(req.Organization),
		LinkedEmployee: strings.TrimSpace(req.LinkedEmployee),
		GuestID:        strings.TrimSpace(req.GuestID),
		Permissions:    entity.StringArray(req.Permissions),
		SectionAccess:  entity.StringArray(req.SectionAccess),
		Username:       strings.TrimSpace(req.Username),
		PasswordHash:   hash,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "username or email already exists")
			return
		}
		logrus.WithError(err).Error("failed to create user")
		InternalError(c, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, makeUserSummary(user))
}

func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	requestUser := CurrentUser(c)
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		BadRequest(c, ErrCodeValidation, "invalid user id")
		return
	}

	if requestUser == nil {
		Unauthorized(c, ErrCodeUnauthorized, "authentication required")
		return
	}
	if requestUser.ID != id && !requestUser.IsAdmin() {
		Forbidden(c, "insufficient privileges")
		return
	}

	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	// Non-admins cannot touch the authorization-bearing fields; the patch
	// loses them silently rather than failing.
	if !requestUser.IsAdmin() {
		req.Role = nil
		req.Status = nil
		req.Permissions = nil
		req.SectionAccess = nil
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			BadRequest(c, ErrCodeValidation, "email must not be empty")
			return
		}
		updates["email"] = email
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*req.Avatar)
	}
	if req.Department != nil {
		updates["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Organization != nil {
		updates["organization"] = strings.TrimSpace(*req.Organization)
	}
	if req.LinkedEmployee != nil {
		updates["linked_employee"] = strings.TrimSpace(*req.LinkedEmployee)
	}
	if req.GuestID != nil {
		updates["guest_id"] = strings.TrimSpace(*req.GuestID)
	}
	if req.Password != nil {
		password := strings.TrimSpace(*req.Password)
		if password == "" {
			BadRequest(c, ErrCodeValidation, "password must not be empty")
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			logrus.WithError(err).Error("failed to hash password for update")
			InternalError(c, "failed to update user")
			return
		}
		updates["password_hash"] = hash
	}
	if req.Role != nil {
		role := sanitizeRole(*req.Role)
		if role == "" {
			BadRequest(c, ErrCodeValidation, "invalid role")
			return
		}
		updates["role"] = role
	}
	if req.Status != nil {
		status := sanitizeStatus(*req.Status)
		if status == "" {
			BadRequest(c, ErrCodeValidation, "invalid status")
			return
		}
		updates["status"] = status
	}
	if req.Permissions != nil {
		updates["permissions"] = entity.StringArray(*req.Permissions)
	}
	if req.SectionAccess != nil {
		updates["section_access"] = entity.StringArray(*req.SectionAccess)
	}

	if len(updates) == 0 {
		BadRequest(c, ErrCodeValidation, "no updatable fields in payload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateUser(ctx, id, updates); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			NotFound(c, "user not found")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			Conflict(c, "username or email already exists")
		default:
			logrus.WithError(err).Error("failed to update user")
			InternalError(c, "failed to update user")
		}
		return
	}

	updated, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload user after update")
		InternalError(c, "failed to load updated user")
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(updated))
}

func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	requestUser := CurrentUser(c)
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		BadRequest(c, ErrCodeValidation, "invalid user id")
		return
	}

	if requestUser != nil && requestUser.ID == id {
		BadRequest(c, ErrCodeValidation, "cannot delete current user")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		logrus.WithError(err).Error("failed to delete user")
		InternalError(c, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func sanitizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case entity.UserRoleAdmin:
		return entity.UserRoleAdmin
	case entity.UserRoleHR:
		return entity.UserRoleHR
	case entity.UserRoleGuest:
		return entity.UserRoleGuest
	default:
		return ""
	}
}

func sanitizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case entity.UserStatusActive:
		return entity.UserStatusActive
	case entity.UserStatusInactive:
		return entity.UserStatusInactive
	case entity.UserStatusPending:
		return entity.UserStatusPending
	default:
		return ""
	}
}
