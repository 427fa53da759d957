// Package storage wraps the MinIO Go client for the bucket backed lore store.
//
// The Client interface is the narrow slice of minio-go that lore.ObjectStore needs; the
// testify mock in core/storage/mocks stands in for it in unit tests. Both AWS S3 and
// self-hosted MinIO endpoints are supported.
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
