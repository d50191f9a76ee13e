// Package testutil provides test helper functions.
package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
)

// GenerateTestBucketName generates a valid test bucket name.
// Bucket names must be DNS-compliant and globally unique.
func GenerateTestBucketName(prefix string) string {
	timestamp := time.Now().Unix()
	random := rand.Int31n(10000)
	name := fmt.Sprintf("%s-%d-%d", prefix, timestamp, random)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

// CreateTestObject creates a test S3 object structure for ListObjectsV2 responses.
func CreateTestObject(key string, size int64) types.Object {
	return types.Object{
		Key:          aws.String(key),
		Size:         aws.Int64(size),
		LastModified: aws.Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		ETag:         aws.String(fmt.Sprintf(`"%x"`, len(key))),
		StorageClass: types.ObjectStorageClassStandard,
	}
}

// TagSet converts a map into an S3 tag set.
func TagSet(tags map[string]string) []types.Tag {
	set := make([]types.Tag, 0, len(tags))
	for k, v := range tags {
		set = append(set, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return set
}

// SeedObject writes an object with the given metadata and tags to s.
func SeedObject(
	t *testing.T,
	s store.Store,
	bucket, key string,
	tags, metadata map[string]string,
) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, s.PutObject(ctx, store.PutInput{
		Bucket:   bucket,
		Key:      key,
		Body:     []byte("data"),
		Metadata: metadata,
	}))
	require.NoError(t, s.PutObjectTagging(ctx, bucket, key, tags))
}
