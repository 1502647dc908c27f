package storage

import (
	"context"
	"fmt"
	"strings"

	"peopledesk/internal/config"
)

const (
	// TypeLocal stores blobs on the local filesystem.
	TypeLocal = "local"
	// TypeS3 targets Amazon S3 or a compatible backend.
	TypeS3 = "s3"
	// TypeOSS targets Aliyun OSS.
	TypeOSS = "oss"
	// TypeCOS targets Tencent COS.
	TypeCOS = "cos"
	// TypeR2 targets Cloudflare R2.
	TypeR2 = "r2"
)

// SaveOptions controls how a backend persists a document blob.
//
// Category groups objects on disk (e.g. "contracts"), BaseName hints the file
// name, Extension the preferred extension without the leading dot. ContentType
// overrides extension-based detection when set.
type SaveOptions struct {
	Category    string
	Extension   string
	BaseName    string
	ContentType string
}

// Storage persists binary data and returns a backend-specific object key that
// can later be used to build a public URL.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider is implemented by backends exposing a local directory
// that can be served over HTTP directly.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage instantiates the backend selected by configuration.
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
