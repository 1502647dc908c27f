package model

import (
	"context"
	"time"

	"peopledesk/internal/entity"
)

// Repository defines the persistence operations the application needs.
type Repository interface {
	// User directory
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error
	GetUserByID(ctx context.Context, id string) (*entity.DbUser, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// Documents
	CreateDocument(ctx context.Context, doc *entity.DbDocument) error
	GetDocument(ctx context.Context, id string) (*entity.DbDocument, error)
	ListDocuments(ctx context.Context, params *entity.DocumentQuery) ([]entity.DbDocument, *entity.Meta, error)
	DeleteDocument(ctx context.Context, id string) error
}
