// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the config mirror needs. This abstraction supports both AWS S3
// and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Mirror
//
// Mirror keeps one object per profile under configs/{id}.json. Every time the
// generator writes a server configuration locally, the same payload is
// uploaded to the mirror bucket. Mirroring is optional and failures degrade
// to a warning; the local artifact is always the one used for launches.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	mirror := storage.NewMirror(client, config.Bucket, logger)
//	err = mirror.EnsureBucket(ctx)
package storage
