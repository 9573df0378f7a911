package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const configPrefix = "configs/"

// Mirror keeps a copy of every generated server configuration in object
// storage, one object per profile. The local file written by the generator
// stays authoritative; the mirror exists for backup and for sharing configs
// across hosts.
type Mirror struct {
	client Client
	bucket string
	logger *zap.Logger
}

// NewMirror creates a mirror on an existing storage client.
func NewMirror(client Client, bucket string, logger *zap.Logger) *Mirror {
	return &Mirror{client: client, bucket: bucket, logger: logger}
}

// EnsureBucket verifies the target bucket exists, creating it if missing.
func (m *Mirror) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.bucket, err)
	}
	m.logger.Info("created mirror bucket", zap.String("bucket", m.bucket))
	return nil
}

// Put uploads the config payload for a profile, replacing any previous copy.
func (m *Mirror) Put(ctx context.Context, profileID string, payload []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName(profileID),
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("mirror config for %s: %w", profileID, err)
	}
	return nil
}

// Fetch downloads the mirrored config for a profile.
func (m *Mirror) Fetch(ctx context.Context, profileID string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectName(profileID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch mirrored config for %s: %w", profileID, err)
	}
	defer obj.Close()

	payload, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read mirrored config for %s: %w", profileID, err)
	}
	return payload, nil
}

// Remove deletes the mirrored config for a profile; part of the profile
// deletion cascade.
func (m *Mirror) Remove(ctx context.Context, profileID string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, objectName(profileID), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove mirrored config for %s: %w", profileID, err)
	}
	return nil
}

// List returns the profile ids that have a mirrored config.
func (m *Mirror) List(ctx context.Context) ([]string, error) {
	var ids []string
	for info := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: configPrefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list mirrored configs: %w", info.Err)
		}
		name := strings.TrimSuffix(path.Base(info.Key), ".json")
		ids = append(ids, name)
	}
	return ids, nil
}

func objectName(profileID string) string {
	return configPrefix + profileID + ".json"
}
