// Package store defines the narrow object store capability the tagsweep
// operations depend on.
//
// Implementations live in sub-packages: s3store (AWS SDK), miniostore
// (S3-compatible servers through minio-go) and memstore (in-memory, for
// tests). Every implementation reports missing buckets and objects by
// wrapping errors.ErrBucketNotFound and errors.ErrObjectNotFound.
package store

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// Store is the object store surface used by tagsweep.
type Store interface {
	// HeadBucket checks that a bucket exists. A missing bucket yields an error
	// matching errors.ErrBucketNotFound.
	HeadBucket(ctx context.Context, bucket string) error

	// CreateBucket creates a bucket in the given region.
	CreateBucket(ctx context.Context, bucket, region string) error

	// ListObjects returns one page of the bucket listing.
	ListObjects(ctx context.Context, bucket string, in ListInput) (*ListPage, error)

	// PutObject writes an object together with its metadata.
	PutObject(ctx context.Context, in PutInput) error

	// PutObjectTagging replaces the tag set of an object.
	PutObjectTagging(ctx context.Context, bucket, key string, tags map[string]string) error

	// GetObjectTagging returns the tag set of an object.
	GetObjectTagging(ctx context.Context, bucket, key string) (map[string]string, error)

	// HeadObject returns the user metadata of an object.
	HeadObject(ctx context.Context, bucket, key string) (map[string]string, error)

	// DeleteObject removes an object.
	DeleteObject(ctx context.Context, bucket, key string) error
}

// ListInput selects a page of a listing.
type ListInput struct {
	// Prefix restricts the listing to keys with this prefix
	Prefix string

	// ContinuationToken is the NextToken of the previous page, empty for the first
	ContinuationToken string

	// MaxKeys bounds the page size; 0 uses the store default
	MaxKeys int32
}

// ListPage is one page of a listing.
type ListPage struct {
	// Objects are the listed objects in key order
	Objects []sweeptypes.Object

	// NextToken continues the listing when IsTruncated is set
	NextToken string

	// IsTruncated reports whether more pages follow
	IsTruncated bool
}

// PutInput describes an object to write.
type PutInput struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
	Metadata    map[string]string
}
