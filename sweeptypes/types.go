// Package sweeptypes provides shared type definitions for the tagsweep module.
package sweeptypes

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Backend selects the object store implementation used by a client.
type Backend string

// Supported backends
const (
	// BackendS3 talks to Amazon S3 (or any endpoint) through the AWS SDK
	BackendS3 Backend = "s3"

	// BackendMinio talks to an S3-compatible server through minio-go
	BackendMinio Backend = "minio"
)

// Valid reports whether b names a supported backend.
func (b Backend) Valid() bool {
	return b == BackendS3 || b == BackendMinio
}

// Defaults used when the corresponding option is not set.
const (
	DefaultRegion      = "ap-south-1"
	DefaultPrefix      = "sample-data/"
	DefaultObjectCount = 200
	DefaultPayloadSize = 1024
	DefaultMaxRetries  = 3
)

// Object represents a listed object with its basic attributes.
type Object struct {
	// Key is the object key
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the entity tag reported by the store
	ETag string
}

// BucketStatus reports what EnsureBucket found.
type BucketStatus int

const (
	// BucketUnknown is reported alongside an error when the bucket state
	// could not be established
	BucketUnknown BucketStatus = iota

	// BucketExists means the bucket was already present
	BucketExists

	// BucketCreated means the bucket was absent and has been created
	BucketCreated
)

// String returns a human readable status.
func (s BucketStatus) String() string {
	switch s {
	case BucketUnknown:
		return "unknown"
	case BucketExists:
		return "exists"
	case BucketCreated:
		return "created"
	default:
		return "unknown"
	}
}

// SweepResult summarises a conditional deletion run.
type SweepResult struct {
	// Scanned is the number of listed objects that were examined
	Scanned int

	// Deleted is the number of matching objects that were removed
	Deleted int

	// Skipped counts objects whose tags or metadata could not be read
	Skipped int

	// Failed counts matching objects whose delete call failed and was tolerated
	Failed int

	// Duration is how long the scan took
	Duration time.Duration
}

// PopulateResult summarises a populate run.
type PopulateResult struct {
	// Bucket is the populated bucket
	Bucket string

	// Status reports whether the bucket was created or already existed
	Status BucketStatus

	// Cleared is the number of pre-existing objects removed first
	Cleared int

	// Written is the number of objects written
	Written int

	// Duration is how long the run took
	Duration time.Duration
}

// ClientConfig holds configuration for a tagsweep client.
type ClientConfig struct {
	// Backend selects the store implementation
	Backend Backend

	// Region is the region used for the client and for bucket creation
	Region string

	// Endpoint overrides the store endpoint (LocalStack, MinIO, ...)
	Endpoint string

	// AccessKeyID, SecretAccessKey and SessionToken are static credentials.
	// The AWS backend falls back to the default credential chain when empty.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// UseSSL enables TLS for the MinIO backend
	UseSSL bool

	// ForcePathStyle forces path-style addressing on the AWS backend
	ForcePathStyle bool

	// MaxRetries configures the SDK retryer of the AWS backend
	MaxRetries int

	// CustomAWSConfig replaces default AWS configuration loading
	CustomAWSConfig *aws.Config

	// Logger receives progress and warning logs
	Logger *slog.Logger

	// Rand is the random source for generated objects
	Rand *rand.Rand

	// PageSize is the listing page size; 0 uses the store default
	PageSize int32

	// ObjectCount is the fixed number of objects to populate
	ObjectCount int

	// ObjectCountMin and ObjectCountMax, when Max > 0, make the populator draw
	// the object count once from [Min, Max] instead of using ObjectCount
	ObjectCountMin int
	ObjectCountMax int

	// Prefix is prepended to generated object keys
	Prefix string

	// PayloadSize is the generated payload size in bytes
	PayloadSize int

	// ContinueOnDeleteError keeps a deletion scan going when a delete fails
	ContinueOnDeleteError bool
}

// Option is a functional option for configuring a client.
type Option func(*ClientConfig)
