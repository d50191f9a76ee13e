// Package miniostore implements store.Store for S3-compatible servers using minio-go.
//
// minio-go streams listings through a channel; pages are cut from that stream
// and continued with StartAfter, using the last key of a page as its token.
package miniostore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// DefaultPageSize is used when a listing does not ask for a page size.
const DefaultPageSize = 1000

// API is the subset of *minio.Client used by Store.
type API interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PutObject(
		ctx context.Context,
		bucketName, objectName string,
		reader io.Reader,
		objectSize int64,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	PutObjectTagging(
		ctx context.Context,
		bucketName, objectName string,
		otags *tags.Tags,
		opts minio.PutObjectTaggingOptions,
	) error
	GetObjectTagging(
		ctx context.Context,
		bucketName, objectName string,
		opts minio.GetObjectTaggingOptions,
	) (*tags.Tags, error)
	StatObject(
		ctx context.Context,
		bucketName, objectName string,
		opts minio.StatObjectOptions,
	) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var _ API = (*minio.Client)(nil)

// Config holds connection settings for a MinIO endpoint.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
	UseSSL          bool
}

// Store is a store.Store backed by minio-go.
type Store struct {
	client API
}

// New wraps a minio client (or a test double).
func New(client API) *Store {
	return &Store{client: client}
}

// Dial creates a minio client for cfg and wraps it.
func Dial(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, tserrors.NewError("dial", tserrors.ErrInvalidConfig).
			WithMessage("minio endpoint cannot be empty")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, tserrors.NewError("dial", err)
	}
	return New(client), nil
}

// HeadBucket implements store.Store.
func (s *Store) HeadBucket(ctx context.Context, bucket string) error {
	ok, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return tserrors.NewBucketError("headBucket", bucket, translateError(err, tserrors.ErrBucketNotFound))
	}
	if !ok {
		return tserrors.NewBucketError("headBucket", bucket, tserrors.ErrBucketNotFound)
	}
	return nil
}

// CreateBucket implements store.Store.
func (s *Store) CreateBucket(ctx context.Context, bucket, region string) error {
	err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region})
	if err != nil {
		return tserrors.NewBucketError("createBucket", bucket, translateError(err, tserrors.ErrBucketNotFound))
	}
	return nil
}

// ListObjects implements store.Store.
func (s *Store) ListObjects(ctx context.Context, bucket string, in store.ListInput) (*store.ListPage, error) {
	limit := int(in.MaxKeys)
	if limit <= 0 {
		limit = DefaultPageSize
	}

	// Stop the listing goroutine once the page is full.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:     in.Prefix,
		StartAfter: in.ContinuationToken,
		Recursive:  true,
		MaxKeys:    limit,
	})

	page := &store.ListPage{Objects: make([]sweeptypes.Object, 0, limit)}
	for info := range objects {
		if info.Err != nil {
			return nil, tserrors.NewBucketError("list", bucket, translateError(info.Err, tserrors.ErrBucketNotFound))
		}
		if len(page.Objects) == limit {
			// One more object exists past the page boundary.
			page.IsTruncated = true
			page.NextToken = page.Objects[limit-1].Key
			break
		}
		page.Objects = append(page.Objects, sweeptypes.Object{
			Key:          info.Key,
			Size:         info.Size,
			LastModified: info.LastModified,
			ETag:         info.ETag,
		})
	}
	return page, nil
}

// PutObject implements store.Store.
func (s *Store) PutObject(ctx context.Context, in store.PutInput) error {
	_, err := s.client.PutObject(ctx, in.Bucket, in.Key,
		bytes.NewReader(in.Body), int64(len(in.Body)),
		minio.PutObjectOptions{
			ContentType:  in.ContentType,
			UserMetadata: in.Metadata,
		})
	if err != nil {
		return tserrors.NewObjectError("put", in.Bucket, in.Key, translateError(err, tserrors.ErrBucketNotFound))
	}
	return nil
}

// PutObjectTagging implements store.Store.
func (s *Store) PutObjectTagging(ctx context.Context, bucket, key string, tagMap map[string]string) error {
	otags, err := tags.MapToObjectTags(tagMap)
	if err != nil {
		return tserrors.NewObjectError("putTagging", bucket, key, tserrors.Classify(tserrors.ErrInvalidInput, err))
	}

	if err := s.client.PutObjectTagging(ctx, bucket, key, otags, minio.PutObjectTaggingOptions{}); err != nil {
		return tserrors.NewObjectError("putTagging", bucket, key, translateError(err, tserrors.ErrObjectNotFound))
	}
	return nil
}

// GetObjectTagging implements store.Store.
func (s *Store) GetObjectTagging(ctx context.Context, bucket, key string) (map[string]string, error) {
	otags, err := s.client.GetObjectTagging(ctx, bucket, key, minio.GetObjectTaggingOptions{})
	if err != nil {
		return nil, tserrors.NewObjectError("getTagging", bucket, key, translateError(err, tserrors.ErrObjectNotFound))
	}
	if otags == nil {
		return map[string]string{}, nil
	}
	return otags.ToMap(), nil
}

// HeadObject implements store.Store. minio-go reports user metadata under
// canonical header names; keys are lower-cased to match S3.
func (s *Store) HeadObject(ctx context.Context, bucket, key string) (map[string]string, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, tserrors.NewObjectError("headObject", bucket, key, translateError(err, tserrors.ErrObjectNotFound))
	}

	metadata := make(map[string]string, len(info.UserMetadata))
	for k, v := range info.UserMetadata {
		metadata[strings.ToLower(k)] = v
	}
	return metadata, nil
}

// DeleteObject implements store.Store.
func (s *Store) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return tserrors.NewObjectError("delete", bucket, key, translateError(err, tserrors.ErrBucketNotFound))
	}
	return nil
}

// translateError maps minio error responses onto the tagsweep sentinels.
// A bare 404 is mapped to notFound.
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchBucket":
		return tserrors.Classify(tserrors.ErrBucketNotFound, err)
	case "NoSuchKey", "NoSuchObject":
		return tserrors.Classify(tserrors.ErrObjectNotFound, err)
	case "AccessDenied":
		return tserrors.Classify(tserrors.ErrAccessDenied, err)
	case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
		return tserrors.Classify(tserrors.ErrBucketAlreadyExists, err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return tserrors.Classify(notFound, err)
	case http.StatusForbidden:
		return tserrors.Classify(tserrors.ErrAccessDenied, err)
	}

	return err
}

var _ store.Store = (*Store)(nil)
