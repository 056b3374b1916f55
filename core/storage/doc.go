// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a read-only interface over the
// gallery bucket. This abstraction supports both AWS S3 and self-hosted
// MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - ListObjects: Lists objects under a prefix. The channel drains every
//     continuation page before closing, so callers see the complete listing
//     or an explicit error entry, never a silently truncated one.
//   - StatObject: Retrieves object metadata (size, content type).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "gallery")
package storage
