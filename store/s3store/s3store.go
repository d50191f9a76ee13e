// Package s3store implements store.Store on top of the AWS SDK v2 S3 client.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// defaultRegion is the region in which CreateBucket must not send a
// location constraint.
const defaultRegion = "us-east-1"

// Store is a store.Store backed by S3.
type Store struct {
	client s3api.S3API
}

// New wraps an S3 client. Tests pass a mock implementing s3api.S3API.
func New(client s3api.S3API) *Store {
	return &Store{client: client}
}

// HeadBucket implements store.Store.
func (s *Store) HeadBucket(ctx context.Context, bucket string) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return tserrors.NewBucketError("headBucket", bucket, convertError(err, tserrors.ErrBucketNotFound))
	}
	return nil
}

// CreateBucket implements store.Store.
func (s *Store) CreateBucket(ctx context.Context, bucket, region string) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}

	if region != "" && region != defaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return tserrors.NewBucketError("createBucket", bucket, convertError(err, tserrors.ErrBucketNotFound))
	}
	return nil
}

// ListObjects implements store.Store.
func (s *Store) ListObjects(ctx context.Context, bucket string, in store.ListInput) (*store.ListPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if in.Prefix != "" {
		input.Prefix = aws.String(in.Prefix)
	}
	if in.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(in.MaxKeys)
	}
	if in.ContinuationToken != "" {
		input.ContinuationToken = aws.String(in.ContinuationToken)
	}

	output, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, tserrors.NewBucketError("list", bucket, convertError(err, tserrors.ErrBucketNotFound))
	}

	page := &store.ListPage{
		Objects:     make([]sweeptypes.Object, 0, len(output.Contents)),
		IsTruncated: aws.ToBool(output.IsTruncated),
		NextToken:   aws.ToString(output.NextContinuationToken),
	}
	for _, obj := range output.Contents {
		page.Objects = append(page.Objects, sweeptypes.Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         aws.ToString(obj.ETag),
		})
	}
	return page, nil
}

// PutObject implements store.Store.
func (s *Store) PutObject(ctx context.Context, in store.PutInput) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(in.Bucket),
		Key:           aws.String(in.Key),
		Body:          bytes.NewReader(in.Body),
		ContentLength: aws.Int64(int64(len(in.Body))),
		Metadata:      in.Metadata,
	}
	if in.ContentType != "" {
		input.ContentType = aws.String(in.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return tserrors.NewObjectError("put", in.Bucket, in.Key, convertError(err, tserrors.ErrBucketNotFound))
	}
	return nil
}

// PutObjectTagging implements store.Store. Tags are sent in key order.
func (s *Store) PutObjectTagging(ctx context.Context, bucket, key string, tags map[string]string) error {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tagSet := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		tagSet = append(tagSet, types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}

	_, err := s.client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket:  aws.String(bucket),
		Key:     aws.String(key),
		Tagging: &types.Tagging{TagSet: tagSet},
	})
	if err != nil {
		return tserrors.NewObjectError("putTagging", bucket, key, convertError(err, tserrors.ErrObjectNotFound))
	}
	return nil
}

// GetObjectTagging implements store.Store.
func (s *Store) GetObjectTagging(ctx context.Context, bucket, key string) (map[string]string, error) {
	output, err := s.client.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, tserrors.NewObjectError("getTagging", bucket, key, convertError(err, tserrors.ErrObjectNotFound))
	}

	tags := make(map[string]string, len(output.TagSet))
	for _, tag := range output.TagSet {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags, nil
}

// HeadObject implements store.Store.
func (s *Store) HeadObject(ctx context.Context, bucket, key string) (map[string]string, error) {
	output, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, tserrors.NewObjectError("headObject", bucket, key, convertError(err, tserrors.ErrObjectNotFound))
	}

	metadata := make(map[string]string, len(output.Metadata))
	for k, v := range output.Metadata {
		metadata[k] = v
	}
	return metadata, nil
}

// DeleteObject implements store.Store.
func (s *Store) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return tserrors.NewObjectError("delete", bucket, key, convertError(err, tserrors.ErrBucketNotFound))
	}
	return nil
}

// convertError maps AWS SDK errors onto the tagsweep sentinels. A bare
// "NotFound" (HEAD requests carry no error body) is mapped to notFound,
// which depends on whether a bucket or an object was addressed.
func convertError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return tserrors.Classify(tserrors.ErrBucketNotFound, err)
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return tserrors.Classify(tserrors.ErrObjectNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return tserrors.Classify(tserrors.ErrBucketNotFound, err)
		case "NoSuchKey":
			return tserrors.Classify(tserrors.ErrObjectNotFound, err)
		case "NotFound", "404":
			return tserrors.Classify(notFound, err)
		case "AccessDenied", "Forbidden", "403":
			return tserrors.Classify(tserrors.ErrAccessDenied, err)
		case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
			return tserrors.Classify(tserrors.ErrBucketAlreadyExists, err)
		}
	}

	return err
}

var _ store.Store = (*Store)(nil)
