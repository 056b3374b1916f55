// Package gallery implements the published-media gallery feature.
//
// Media dropped into the object-storage bucket is published onto a public
// gallery under a permanent, zero-padded 5-digit identifier. The catalog
// (a relational table of MediaRecord rows) is kept consistent with the
// bucket's actual contents by two independent writers:
//
//  1. The event ingest path (POST /gallery/events): bucket notifications
//     applied immediately, one key at a time.
//  2. The reconciliation job: a periodic (or operator-triggered) full-bucket
//     diff that creates, reactivates and deactivates records in bulk. It is
//     the final authority that heals drift from missed or reordered events.
//
// Both writers share the identifier allocator and the catalog's unique
// indexes; every mutation is idempotent, so the two paths converge instead
// of corrupting each other.
//
// # Components
//
//   - catalog: the MediaRecord store and the identifier allocator.
//   - reconcile: the full-scan diff job.
//   - webhook: notification payload parsing (flat and S3 Records shapes).
//   - mediakeys: key classification, decoding, and public URL derivation.
//   - scheduler: the periodic reconciliation trigger.
//   - Service/Handler/Feature: orchestration, HTTP surface, loader glue.
//
// # HTTP Endpoints
//
//   - GET  /gallery            : list published media.
//   - GET  /gallery/:id        : look up one record by identifier.
//   - POST /gallery/events     : bucket notification ingress (shared secret).
//   - POST /admin/reconcile    : manual reconciliation run (API key).
package gallery
