package repo

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Storage persists bundles and generated files by key. Implementations must
// be safe for concurrent use.
type Storage interface {
	Write(ctx context.Context, key string, data []byte) error
	// Read returns os.ErrNotExist for unknown keys
	Read(ctx context.Context, key string) ([]byte, error)
	// List keys with prefix, sorted descending
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete is a no-op for unknown keys
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	StorageTypeFilesystem = "filesystem"
	StorageTypeBlob       = "blob"
)

// SupportedBlobSchemes bucket url schemes with a registered driver
var SupportedBlobSchemes = []string{"gs://", "file://", "mem://"}

// NewStorage creates the storage backend of the given type. dir is used by
// the filesystem backend, bucketURL and prefix by the blob backend.
func NewStorage(ctx context.Context, l *zap.Logger, storageType, dir, bucketURL, prefix string) (Storage, error) {
	if storageType != StorageTypeBlob && (bucketURL != "" || prefix != "") {
		l.Warn("blob storage flags are set but storage type is not blob, they will be ignored",
			zap.String("storage_type", storageType),
			zap.String("bucket", bucketURL),
			zap.String("prefix", prefix),
		)
	}

	switch storageType {
	case StorageTypeBlob:
		if bucketURL == "" {
			return nil, errors.Errorf("bucket url is required for blob storage (supported schemes: %s)", strings.Join(SupportedBlobSchemes, ", "))
		}
		if !isSupportedBlobScheme(bucketURL) {
			return nil, errors.Errorf("unsupported bucket url %q (supported schemes: %s)", bucketURL, strings.Join(SupportedBlobSchemes, ", "))
		}
		l.Info("using blob storage", zap.String("bucket", bucketURL), zap.String("prefix", prefix))
		return NewBlobStorage(ctx, bucketURL, prefix)
	case StorageTypeFilesystem, "":
		l.Info("using filesystem storage", zap.String("dir", dir))
		return NewFilesystemStorage(dir)
	default:
		return nil, errors.Errorf("unknown storage type: %s (supported: %s, %s)", storageType, StorageTypeFilesystem, StorageTypeBlob)
	}
}

func isSupportedBlobScheme(bucketURL string) bool {
	for _, scheme := range SupportedBlobSchemes {
		if strings.HasPrefix(bucketURL, scheme) {
			return true
		}
	}
	return false
}
