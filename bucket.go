package tagsweep

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// EnsureBucket creates the bucket in region if it does not exist.
// An empty region uses the client region. Creation is attempted only when the
// store reports the bucket as missing; every other failure is returned.
func (c *Client) EnsureBucket(ctx context.Context, name, region string) (sweeptypes.BucketStatus, error) {
	if err := validation.ValidateBucketName(name); err != nil {
		return sweeptypes.BucketUnknown, err
	}
	if region == "" {
		region = c.config.Region
	}
	return c.buckets.Ensure(ctx, name, region)
}

// BucketExists reports whether the bucket exists. A missing bucket is not an
// error; any other failure is.
func (c *Client) BucketExists(ctx context.Context, name string) (bool, error) {
	if err := validation.ValidateBucketName(name); err != nil {
		return false, err
	}
	return c.bucketExists(ctx, name)
}

// ClearBucket deletes every object in the bucket and returns the count.
func (c *Client) ClearBucket(ctx context.Context, name string) (int, error) {
	if err := validation.ValidateBucketName(name); err != nil {
		return 0, err
	}
	return c.buckets.Clear(ctx, name)
}
