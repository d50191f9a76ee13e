// Package validation checks user input before it reaches an object store.
//
// Bucket names follow the S3 DNS naming rules, object keys and key prefixes
// are screened for traversal sequences and control characters, and metadata
// and tag sets are checked against the S3 size limits.
package validation
