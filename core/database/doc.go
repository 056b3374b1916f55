// Package database manages the connection to the media catalog database.
//
// It wraps GORM and supports two drivers:
//   - mysql: the production driver, with pooled connections, DSN-level
//     connect/read/write timeouts and a ping-on-connect liveness check.
//   - sqlite: used for local development and in-memory test catalogs.
//
// # Precondition
//
// The catalog relies on storage-level unique indexes (on media_id and
// original_key) as its only concurrency primitive. Both supported drivers
// enforce these; any replacement driver must as well.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
package database
