package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orgdesk/directory-api/internal/config"
	"github.com/orgdesk/directory-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		invalid  bool
	}{
		{name: "org/contacts.csv", expected: "org/contacts.csv"},
		{name: "/org//contacts.csv", expected: "org/contacts.csv"},
		{name: `org\contacts.csv`, expected: "org/contacts.csv"},
		{name: "../etc/passwd", invalid: true},
		{name: "org/../../x", invalid: true},
		{name: "", invalid: true},
		{name: "/", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.CleanName(tt.name)
			if tt.invalid {
				assert.ErrorIs(t, err, storage.ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLocalStorage_UploadDownloadDelete(t *testing.T) {
	base := t.TempDir()
	store, err := storage.NewLocalStorage(base)
	require.NoError(t, err)
	ctx := context.Background()

	size, err := store.Upload(ctx, "org-1/contacts.csv", "text/csv", strings.NewReader("id,name\n1,Amy\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(14), size)
	assert.FileExists(t, filepath.Join(base, "org-1", "contacts.csv"))

	rc, err := store.Download(ctx, "org-1/contacts.csv")
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Amy\n", string(content))

	require.NoError(t, store.Delete(ctx, "org-1/contacts.csv"))
	_, err = store.Download(ctx, "org-1/contacts.csv")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// deleting a missing object is fine
	assert.NoError(t, store.Delete(ctx, "org-1/contacts.csv"))
}

func TestLocalStorage_RejectsEscapingNames(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "../outside.csv", "text/csv", strings.NewReader("x"))
	assert.ErrorIs(t, err, storage.ErrInvalidName)
}

func TestNewStorage(t *testing.T) {
	base := filepath.Join(t.TempDir(), "exports")

	store, err := storage.NewStorage(&config.StorageConfig{Mode: "local", LocalBasePath: base}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, store)
	_, err = os.Stat(base)
	assert.NoError(t, err)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "azure"}, zap.NewNop())
	assert.ErrorContains(t, err, "connection string")

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported storage mode")
}
