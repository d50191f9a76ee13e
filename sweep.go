package tagsweep

import (
	"context"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/filter"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/operations/sweep"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// DeleteMatching deletes every object of the bucket whose tags satisfy
// tagFilter and whose metadata satisfies metadataFilter.
//
// The bucket must exist; a missing bucket returns ErrBucketNotFound before
// any object is listed. Objects whose tags or metadata cannot be read are
// skipped. A failed delete aborts the scan unless WithContinueOnDeleteError
// is set; the partial result is returned with the error.
func (c *Client) DeleteMatching(
	ctx context.Context,
	bucket string,
	tagFilter, metadataFilter filter.Filter,
) (*sweeptypes.SweepResult, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}

	exists, err := c.bucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, tserrors.NewBucketError("deleteMatching", bucket, tserrors.ErrBucketNotFound)
	}

	return c.engine.Run(ctx, sweep.Config{
		Bucket:                bucket,
		TagFilter:             tagFilter,
		MetadataFilter:        metadataFilter,
		PageSize:              c.config.PageSize,
		ContinueOnDeleteError: c.config.ContinueOnDeleteError,
	})
}

func (c *Client) bucketExists(ctx context.Context, bucket string) (bool, error) {
	err := c.store.HeadBucket(ctx, bucket)
	switch {
	case err == nil:
		return true, nil
	case tserrors.IsBucketNotFound(err):
		return false, nil
	default:
		return false, err
	}
}
