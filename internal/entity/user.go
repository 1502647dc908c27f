package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserRoleAdmin = "admin"
	UserRoleHR    = "hr"
	UserRoleGuest = "guest"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

// DbUser represents a persisted user account.
type DbUser struct {
	ID             string      `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt      time.Time   `json:"created_date"`
	UpdatedAt      time.Time   `json:"updated_date"`
	Name           string      `gorm:"column:name;type:varchar(255)" json:"name"`
	Email          string      `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone          string      `gorm:"column:phone;type:varchar(64)" json:"phone,omitempty"`
	Avatar         string      `gorm:"column:avatar;type:varchar(512)" json:"avatar,omitempty"`
	Role           string      `gorm:"column:role;type:varchar(50);index;not null" json:"role"`
	Status         string      `gorm:"column:status;type:varchar(50);index;not null" json:"status"`
	Department     string      `gorm:"column:department;type:varchar(255)" json:"department,omitempty"`
	Organization   string      `gorm:"column:organization;type:varchar(255)" json:"organization,omitempty"`
	LinkedEmployee string      `gorm:"column:linked_employee;type:varchar(255)" json:"linked_employee,omitempty"`
	Permissions    StringArray `gorm:"column:permissions;type:text" json:"permissions"`
	SectionAccess  StringArray `gorm:"column:section_access;type:text" json:"section_access"`
	Username       string      `gorm:"column:username;type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash   string      `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	GuestID        string      `gorm:"column:guest_id;type:varchar(64)" json:"guest_id,omitempty"`
	LastLogin      *time.Time  `gorm:"column:last_login" json:"last_login,omitempty"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// BeforeCreate assigns an opaque id when none is set.
func (u *DbUser) BeforeCreate(_ *gorm.DB) error {
	if strings.TrimSpace(u.ID) == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the account may authenticate.
func (u *DbUser) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}

// UserSummary is the user representation returned to clients. It never carries
// the password hash.
type UserSummary struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Avatar         string     `json:"avatar,omitempty"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	Department     string     `json:"department,omitempty"`
	Organization   string     `json:"organization,omitempty"`
	LinkedEmployee string     `json:"linked_employee,omitempty"`
	Permissions    []string   `json:"permissions"`
	SectionAccess  []string   `json:"section_access"`
	Username       string     `json:"username"`
	GuestID        string     `json:"guest_id,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedDate    time.Time  `json:"created_date"`
	UpdatedDate    time.Time  `json:"updated_date"`
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	Role    string `json:"role" form:"role" query:"role"`
	Status  string `json:"status" form:"status" query:"status"`
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

type AuthLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

type UserCreateRequest struct {
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Username       string   `json:"username" binding:"required"`
	Password       string   `json:"password" binding:"required,min=6"`
	Role           string   `json:"role" binding:"required"`
	Status         string   `json:"status"`
	Phone          string   `json:"phone"`
	Avatar         string   `json:"avatar"`
	Department     string   `json:"department"`
	Organization   string   `json:"organization"`
	LinkedEmployee string   `json:"linked_employee"`
	GuestID        string   `json:"guest_id"`
	Permissions    []string `json:"permissions"`
	SectionAccess  []string `json:"section_access"`
}

type UserUpdateRequest struct {
	Name           *string   `json:"name,omitempty"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Avatar         *string   `json:"avatar,omitempty"`
	Role           *string   `json:"role,omitempty"`
	Status         *string   `json:"status,omitempty"`
	Department     *string   `json:"department,omitempty"`
	Organization   *string   `json:"organization,omitempty"`
	LinkedEmployee *string   `json:"linked_employee,omitempty"`
	GuestID        *string   `json:"guest_id,omitempty"`
	Password       *string   `json:"password,omitempty"`
	Permissions    *[]string `json:"permissions,omitempty"`
	SectionAccess  *[]string `json:"section_access,omitempty"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Meta  *Meta         `json:"meta"`
}
