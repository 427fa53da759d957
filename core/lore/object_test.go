package lore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"lore-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestObjectStoreReadCategory(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	store := NewObjectStore(client, "lore", "/data/", nil)

	client.On("ListObjects", ctx, "lore", minio.ListObjectsOptions{Prefix: "data/creatures/formatted/"}).
		Return(mocks.Objects(
			"data/creatures/formatted/_index.json",
			"data/creatures/formatted/Wyrm.json",
			"data/creatures/formatted/nested/Skip.json",
		))
	client.On("GetObject", ctx, "lore", "data/creatures/formatted/Wyrm.json", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader(`{"name":"Wyrm"}`)), nil)

	out, err := store.ReadCategory(ctx, Creatures)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Wyrm", out[0].Name())
	assert.Equal(t, "creatures/formatted/Wyrm.json", out[0].Get(PathSourceFile))
	client.AssertExpectations(t)
}

func TestObjectStoreWriteCategory(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	store := NewObjectStore(client, "lore", "", nil)

	client.On("PutObject", ctx, "lore", "magic/formatted/Glamour.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()
	client.On("PutObject", ctx, "lore", "magic/formatted/_index.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	err := store.WriteCategory(ctx, Magic, []Record{{"name": "Glamour"}})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestObjectStoreListError(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	store := NewObjectStore(client, "lore", "", nil)

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("access denied")}
	close(ch)
	client.On("ListObjects", ctx, "lore", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	_, err := store.ReadCategory(ctx, Plots)
	assert.ErrorContains(t, err, "access denied")
}

func TestObjectStoreLayout(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	store := NewObjectStore(client, "lore", "", nil)

	client.On("BucketExists", ctx, "lore").Return(false, nil)
	client.On("MakeBucket", ctx, "lore", minio.MakeBucketOptions{}).Return(nil)

	missing, err := store.MissingLayout(ctx, AllCategories)
	require.NoError(t, err)
	assert.Equal(t, []string{"lore"}, missing)
	require.NoError(t, store.FixLayout(ctx, missing))
	client.AssertExpectations(t)
}
