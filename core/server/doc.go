// Package server holds the HTTP server configuration.
//
// The admin API key configured here protects operator endpoints (the manual
// reconciliation trigger); public gallery reads and the bucket-notification
// webhook carry their own access policies.
package server
