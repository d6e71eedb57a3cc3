// Package storage wraps the MinIO client used to archive board snapshots.
//
// Only the calls the archive makes are part of Client, so tests can substitute
// core/storage/mocks. Any S3 compatible service works.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
