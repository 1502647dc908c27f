package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"peopledesk/internal/entity"
	"peopledesk/internal/storage"
)

const maxDocumentSize = 32 << 20 // 32 MiB

func (h *HTTPHandler) UploadDocument(c *gin.Context) {
	if h.storage == nil {
		ServiceUnavailable(c, "document storage not available")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	if fileHeader.Size > maxDocumentSize {
		BadRequest(c, ErrCodeValidation, "file exceeds the maximum allowed size")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = fileHeader.Filename
	}
	category := strings.TrimSpace(c.PostForm("category"))
	if category == "" {
		category = "general"
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	if len(data) == 0 {
		BadRequest(c, ErrCodeValidation, "uploaded file is empty")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	ext := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	contentType := fileHeader.Header.Get("Content-Type")

	objectKey, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:    category,
		BaseName:    strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename)),
		Extension:   ext,
		ContentType: contentType,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to store document")
		InternalError(c, "failed to store document")
		return
	}

	requestUser := CurrentUser(c)
	doc := &entity.DbDocument{
		Title:       title,
		Category:    category,
		ObjectKey:   objectKey,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}
	if requestUser != nil {
		doc.UploadedBy = requestUser.ID
	}

	if err := h.repo.CreateDocument(ctx, doc); err != nil {
		logrus.WithError(err).Error("failed to persist document metadata")
		InternalError(c, "failed to save document")
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *HTTPHandler) ListDocuments(c *gin.Context) {
	var query entity.DocumentQuery
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

	docs, meta, err := h.repo.ListDocuments(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list documents")
		InternalError(c, "failed to load documents")
		return
	}

	if docs == nil {
		docs = []entity.DbDocument{}
	}
	c.JSON(http.StatusOK, entity.DocumentListResponse{
		Documents: docs,
		Meta:      meta,
	})
}

func (h *HTTPHandler) DeleteDocument(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		BadRequest(c, ErrCodeValidation, "invalid document id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteDocument(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "document not found")
			return
		}
		logrus.WithError(err).Error("failed to delete document")
		InternalError(c, "failed to delete document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
