package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/orgdesk/directory-api/internal/config"
	"go.uber.org/zap"
)

// ErrInvalidName is returned for object names that escape the storage root
var ErrInvalidName = errors.New("invalid object name")

// ErrNotFound is returned when an object does not exist
var ErrNotFound = errors.New("object not found")

// Storage keeps report exports under caller chosen names such as
// "<organization>/contacts-20260101T020000Z.csv"
type Storage interface {
	Upload(ctx context.Context, name string, contentType string, data io.Reader) (int64, error)
	Download(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// NewStorage creates a new storage instance based on configuration.
// For local mode, exports are written to the local filesystem.
// For cloud/azure mode, exports are written to Azure Blob Storage.
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalStorage(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// CleanName normalizes an object name to a relative slash separated path
func CleanName(name string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return cleaned, nil
}

// LocalStorage implements Storage for the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

func (s *LocalStorage) fullPath(name string) (string, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleaned)), nil
}

// Upload writes data to name, replacing any previous object
func (s *LocalStorage) Upload(ctx context.Context, name string, contentType string, data io.Reader) (int64, error) {
	fullPath, err := s.fullPath(name)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return size, nil
}

// Download opens the object stored under name
func (s *LocalStorage) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	fullPath, err := s.fullPath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes the object. Missing objects are not an error.
func (s *LocalStorage) Delete(ctx context.Context, name string) error {
	fullPath, err := s.fullPath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
