package checks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lore-sync/core/lore"
	"lore-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckStructure(t *testing.T) {
	t.Run("All Missing", func(t *testing.T) {
		root := t.TempDir()
		store := lore.NewFSStore(root, zap.NewNop())

		missing, err := CheckStructure(context.Background(), store, lore.AllCategories)
		require.NoError(t, err)
		assert.Len(t, missing, len(lore.AllCategories))
		assert.Contains(t, missing, filepath.Join(root, "characters", "formatted"))
	})

	t.Run("Some Present", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "magic", "formatted"), 0o755))
		store := lore.NewFSStore(root, zap.NewNop())

		missing, err := CheckStructure(context.Background(), store, []lore.Category{lore.Magic, lore.Plots})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "plots", "formatted")}, missing)
	})

	t.Run("No Layout", func(t *testing.T) {
		missing, err := CheckStructure(context.Background(), lore.NewMemoryStore(), lore.AllCategories)
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("Bucket Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "lore").Return(false, errors.New("connection refused"))
		store := lore.NewObjectStore(client, "lore", "", zap.NewNop())

		_, err := CheckStructure(context.Background(), store, lore.AllCategories)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestFixStructure(t *testing.T) {
	t.Run("Creates Directories", func(t *testing.T) {
		root := t.TempDir()
		store := lore.NewFSStore(root, zap.NewNop())
		missing, err := CheckStructure(context.Background(), store, lore.AllCategories)
		require.NoError(t, err)

		require.NoError(t, FixStructure(context.Background(), store, zap.NewNop(), missing))

		missing, err = CheckStructure(context.Background(), store, lore.AllCategories)
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("Creates Bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("MakeBucket", mock.Anything, "lore", minio.MakeBucketOptions{}).Return(nil)
		store := lore.NewObjectStore(client, "lore", "", zap.NewNop())

		require.NoError(t, FixStructure(context.Background(), store, zap.NewNop(), []string{"lore"}))
		client.AssertExpectations(t)
	})

	t.Run("Bucket Failure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("MakeBucket", mock.Anything, "lore", mock.Anything).Return(errors.New("denied"))
		store := lore.NewObjectStore(client, "lore", "", zap.NewNop())

		assert.Error(t, FixStructure(context.Background(), store, zap.NewNop(), []string{"lore"}))
	})
}
