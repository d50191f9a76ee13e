// Package internal contains private implementation details for the tagsweep module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - operations: bucket lifecycle, populate, listing and conditional deletion
//   - s3api: the subset of the AWS S3 client used by the s3 store
//   - validation: input validation logic
//   - config: environment and .env configuration loading
//   - testutil: mocks, fixtures and LocalStack helpers for tests
package internal
