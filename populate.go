package tagsweep

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/operations/populate"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// Populate fills the bucket with generated objects.
//
// The bucket is created in region when missing (an empty region uses the
// client region) and emptied first when it already exists. The object count,
// key prefix and payload size come from the client options.
func (c *Client) Populate(ctx context.Context, bucket, region string) (*sweeptypes.PopulateResult, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	if err := validation.ValidatePrefix(c.config.Prefix); err != nil {
		return nil, err
	}
	if region == "" {
		region = c.config.Region
	}

	return c.populator.Run(ctx, populate.Config{
		Bucket:      bucket,
		Region:      region,
		Prefix:      c.config.Prefix,
		Count:       c.config.ObjectCount,
		CountMin:    c.config.ObjectCountMin,
		CountMax:    c.config.ObjectCountMax,
		PayloadSize: c.config.PayloadSize,
	})
}
