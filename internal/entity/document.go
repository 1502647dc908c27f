package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DbDocument describes an uploaded HR document. The binary itself lives in the
// configured storage backend under ObjectKey.
type DbDocument struct {
	ID          string    `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_date"`
	UpdatedAt   time.Time `json:"updated_date"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Category    string    `gorm:"column:category;type:varchar(100);index" json:"category"`
	ObjectKey   string    `gorm:"column:object_key;type:varchar(512);not null" json:"object_key"`
	ContentType string    `gorm:"column:content_type;type:varchar(100)" json:"content_type"`
	SizeBytes   int64     `gorm:"column:size_bytes" json:"size_bytes"`
	UploadedBy  string    `gorm:"column:uploaded_by;type:varchar(36);index" json:"uploaded_by"`
}

// TableName overrides default pluralised name.
func (DbDocument) TableName() string {
	return "documents"
}

// BeforeCreate assigns an opaque id when none is set.
func (d *DbDocument) BeforeCreate(_ *gorm.DB) error {
	if strings.TrimSpace(d.ID) == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// DocumentQuery supports listing documents with pagination.
type DocumentQuery struct {
	BaseParams
	Category string `json:"category" form:"category" query:"category"`
}

type DocumentListResponse struct {
	Documents []DbDocument `json:"documents"`
	Meta      *Meta        `json:"meta"`
}
