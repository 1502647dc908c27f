package sql

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"peopledesk/internal/entity"
)

// CreateDocument persists document metadata.
func (r *GormRepository) CreateDocument(ctx context.Context, doc *entity.DbDocument) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetDocument loads a document by ID.
func (r *GormRepository) GetDocument(ctx context.Context, id string) (*entity.DbDocument, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid document id")
	}
	var doc entity.DbDocument
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns paginated documents, optionally filtered by category.
func (r *GormRepository) ListDocuments(ctx context.Context, params *entity.DocumentQuery) ([]entity.DbDocument, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbDocument{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.Category); trimmed != "" {
			query = query.Where("category = ?", trimmed)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page := 1
	pageSize := 20
	if params != nil {
		if params.Page > 0 {
			page = int(params.Page)
		}
		if params.PageSize > 0 {
			pageSize = int(params.PageSize)
		}
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	var docs []entity.DbDocument
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&docs).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return docs, meta, nil
}

// DeleteDocument removes document metadata by ID.
func (r *GormRepository) DeleteDocument(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid document id")
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DbDocument{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
