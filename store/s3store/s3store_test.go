package s3store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
)

// TestStore_HeadBucket tests error classification of HeadBucket.
func TestStore_HeadBucket(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantErr   bool
		notFound  bool
		forbidden bool
	}{
		{name: "exists"},
		{name: "typed not found", err: &types.NotFound{}, wantErr: true, notFound: true},
		{name: "no such bucket", err: &types.NoSuchBucket{}, wantErr: true, notFound: true},
		{
			name:     "generic 404 code",
			err:      &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"},
			wantErr:  true,
			notFound: true,
		},
		{
			name:      "forbidden",
			err:       &smithy.GenericAPIError{Code: "Forbidden", Message: "Forbidden"},
			wantErr:   true,
			forbidden: true,
		},
		{name: "transport failure", err: errors.New("connection reset"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockS3Client{
				HeadBucketFunc: func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
					assert.Equal(t, "books", aws.ToString(params.Bucket))
					if tt.err != nil {
						return nil, tt.err
					}
					return &s3.HeadBucketOutput{}, nil
				},
			}

			err := New(mock).HeadBucket(context.Background(), "books")
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.notFound, tserrors.IsBucketNotFound(err))
			assert.Equal(t, tt.forbidden, tserrors.IsAccessDenied(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// TestStore_CreateBucket tests the location constraint handling.
func TestStore_CreateBucket(t *testing.T) {
	tests := []struct {
		name       string
		region     string
		wantConfig bool
	}{
		{"regional bucket", "ap-south-1", true},
		{"us-east-1 has no constraint", "us-east-1", false},
		{"empty region", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockS3Client{
				CreateBucketFunc: func(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
					assert.Equal(t, "books", aws.ToString(params.Bucket))
					if tt.wantConfig {
						require.NotNil(t, params.CreateBucketConfiguration)
						assert.Equal(t,
							types.BucketLocationConstraint(tt.region),
							params.CreateBucketConfiguration.LocationConstraint)
					} else {
						assert.Nil(t, params.CreateBucketConfiguration)
					}
					return &s3.CreateBucketOutput{}, nil
				},
			}

			require.NoError(t, New(mock).CreateBucket(context.Background(), "books", tt.region))
		})
	}
}

// TestStore_CreateBucket_AlreadyOwned tests that ownership conflicts are classified.
func TestStore_CreateBucket_AlreadyOwned(t *testing.T) {
	mock := &testutil.MockS3Client{
		CreateBucketFunc: func(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
			return nil, &types.BucketAlreadyOwnedByYou{}
		},
	}

	err := New(mock).CreateBucket(context.Background(), "books", "ap-south-1")
	assert.ErrorIs(t, err, tserrors.ErrBucketAlreadyExists)
}

// TestStore_ListObjects tests conversion of a listing page and token passing.
func TestStore_ListObjects(t *testing.T) {
	mock := &testutil.MockS3Client{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			assert.Equal(t, "books", aws.ToString(params.Bucket))
			assert.Equal(t, "sample-data/", aws.ToString(params.Prefix))
			assert.Equal(t, int32(2), aws.ToInt32(params.MaxKeys))
			assert.Equal(t, "tok-1", aws.ToString(params.ContinuationToken))

			return &s3.ListObjectsV2Output{
				Contents: []types.Object{
					testutil.CreateTestObject("sample-data/object_1.txt", 10),
					testutil.CreateTestObject("sample-data/object_2.txt", 20),
				},
				IsTruncated:           aws.Bool(true),
				NextContinuationToken: aws.String("tok-2"),
			}, nil
		},
	}

	page, err := New(mock).ListObjects(context.Background(), "books", store.ListInput{
		Prefix:            "sample-data/",
		MaxKeys:           2,
		ContinuationToken: "tok-1",
	})
	require.NoError(t, err)
	require.Len(t, page.Objects, 2)
	assert.Equal(t, "sample-data/object_1.txt", page.Objects[0].Key)
	assert.Equal(t, int64(20), page.Objects[1].Size)
	assert.True(t, page.IsTruncated)
	assert.Equal(t, "tok-2", page.NextToken)
}

// TestStore_ListObjects_Defaults tests that optional inputs are left unset.
func TestStore_ListObjects_Defaults(t *testing.T) {
	mock := &testutil.MockS3Client{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			assert.Nil(t, params.Prefix)
			assert.Nil(t, params.MaxKeys)
			assert.Nil(t, params.ContinuationToken)
			return &s3.ListObjectsV2Output{}, nil
		},
	}

	page, err := New(mock).ListObjects(context.Background(), "books", store.ListInput{})
	require.NoError(t, err)
	assert.Empty(t, page.Objects)
	assert.False(t, page.IsTruncated)
}

// TestStore_PutObject tests payload, metadata and content type forwarding.
func TestStore_PutObject(t *testing.T) {
	mock := &testutil.MockS3Client{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			body, err := io.ReadAll(params.Body)
			require.NoError(t, err)
			assert.Equal(t, "hello", string(body))
			assert.Equal(t, int64(5), aws.ToInt64(params.ContentLength))
			assert.Equal(t, "text/plain", aws.ToString(params.ContentType))
			assert.Equal(t, map[string]string{"language": "English"}, params.Metadata)
			return &s3.PutObjectOutput{}, nil
		},
	}

	err := New(mock).PutObject(context.Background(), store.PutInput{
		Bucket:      "books",
		Key:         "a.txt",
		Body:        []byte("hello"),
		ContentType: "text/plain",
		Metadata:    map[string]string{"language": "English"},
	})
	require.NoError(t, err)
}

// TestStore_Tagging tests tag set conversion in both directions.
func TestStore_Tagging(t *testing.T) {
	mock := &testutil.MockS3Client{
		PutObjectTaggingFunc: func(ctx context.Context, params *s3.PutObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.PutObjectTaggingOutput, error) {
			require.NotNil(t, params.Tagging)
			require.Len(t, params.Tagging.TagSet, 2)
			assert.Equal(t, "region", aws.ToString(params.Tagging.TagSet[0].Key))
			assert.Equal(t, "status", aws.ToString(params.Tagging.TagSet[1].Key))
			return &s3.PutObjectTaggingOutput{}, nil
		},
		GetObjectTaggingFunc: func(ctx context.Context, params *s3.GetObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error) {
			return &s3.GetObjectTaggingOutput{
				TagSet: testutil.TagSet(map[string]string{"region": "Europe"}),
			}, nil
		},
	}

	s := New(mock)
	ctx := context.Background()

	require.NoError(t, s.PutObjectTagging(ctx, "books", "a.txt", map[string]string{
		"status": "Draft",
		"region": "Europe",
	}))

	tags, err := s.GetObjectTagging(ctx, "books", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"region": "Europe"}, tags)
}

// TestStore_HeadObject tests metadata retrieval and missing object handling.
func TestStore_HeadObject(t *testing.T) {
	calls := 0
	mock := &testutil.MockS3Client{
		HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			calls++
			if aws.ToString(params.Key) == "gone.txt" {
				return nil, &types.NotFound{}
			}
			return &s3.HeadObjectOutput{Metadata: map[string]string{"language": "English"}}, nil
		},
	}

	s := New(mock)
	ctx := context.Background()

	md, err := s.HeadObject(ctx, "books", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"language": "English"}, md)

	_, err = s.HeadObject(ctx, "books", "gone.txt")
	require.Error(t, err)
	assert.True(t, tserrors.IsObjectNotFound(err))
	assert.False(t, tserrors.IsBucketNotFound(err))
	assert.Equal(t, 2, calls)
}

// TestStore_DeleteObject tests delete error wrapping.
func TestStore_DeleteObject(t *testing.T) {
	mock := &testutil.MockS3Client{
		DeleteObjectFunc: func(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
		},
	}

	err := New(mock).DeleteObject(context.Background(), "books", "a.txt")
	require.Error(t, err)
	assert.True(t, tserrors.IsAccessDenied(err))

	var opErr *tserrors.Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "delete", opErr.Op)
	assert.Equal(t, "a.txt", opErr.Key)
}
