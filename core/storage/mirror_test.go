package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"armory/core/storage"
	"armory/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMirror_EnsureBucket(t *testing.T) {
	t.Run("AlreadyExists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "armory-configs").Return(true, nil)

		m := storage.NewMirror(client, "armory-configs", zap.NewNop())
		require.NoError(t, m.EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CreatesMissing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "armory-configs").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "armory-configs", mock.Anything).Return(nil)

		m := storage.NewMirror(client, "armory-configs", zap.NewNop())
		require.NoError(t, m.EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})
}

func TestMirror_PutAndFetch(t *testing.T) {
	client := new(mocks.Client)
	payload := []byte(`{"bindPort": 2001}`)

	client.On("PutObject", mock.Anything, "armory-configs", "configs/profile-1.json",
		mock.Anything, int64(len(payload)), mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/json"
		})).Return(minio.UploadInfo{}, nil)
	client.On("GetObject", mock.Anything, "armory-configs", "configs/profile-1.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(string(payload))), nil)

	m := storage.NewMirror(client, "armory-configs", zap.NewNop())
	require.NoError(t, m.Put(context.Background(), "profile-1", payload))

	got, err := m.Fetch(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	client.AssertExpectations(t)
}

func TestMirror_Remove(t *testing.T) {
	client := new(mocks.Client)
	client.On("RemoveObject", mock.Anything, "armory-configs", "configs/profile-1.json", mock.Anything).
		Return(nil)

	m := storage.NewMirror(client, "armory-configs", zap.NewNop())
	require.NoError(t, m.Remove(context.Background(), "profile-1"))
	client.AssertExpectations(t)
}

func TestMirror_List(t *testing.T) {
	client := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "configs/profile-1.json"}
	ch <- minio.ObjectInfo{Key: "configs/profile-2.json"}
	close(ch)
	client.On("ListObjects", mock.Anything, "armory-configs", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))

	m := storage.NewMirror(client, "armory-configs", zap.NewNop())
	ids, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"profile-1", "profile-2"}, ids)
}
