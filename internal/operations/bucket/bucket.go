package bucket

import (
	"context"
	"log/slog"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/operations/list"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// Manager creates and empties buckets.
type Manager struct {
	store    store.Store
	logger   *slog.Logger
	pageSize int32
}

// New creates a Manager. A nil logger discards output.
func New(s store.Store, logger *slog.Logger, pageSize int32) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{store: s, logger: logger, pageSize: pageSize}
}

// Ensure checks that the bucket exists and creates it in region when it does
// not. Only a not-found answer leads to creation; any other failure is
// returned as is.
func (m *Manager) Ensure(ctx context.Context, name, region string) (sweeptypes.BucketStatus, error) {
	err := m.store.HeadBucket(ctx, name)
	if err == nil {
		m.logger.Info("bucket already exists", "bucket", name)
		return sweeptypes.BucketExists, nil
	}
	if !tserrors.IsBucketNotFound(err) {
		m.logger.Error("failed to check bucket", "bucket", name, "error", err)
		return sweeptypes.BucketUnknown, err
	}

	m.logger.Info("bucket does not exist, creating it", "bucket", name, "region", region)
	if err := m.store.CreateBucket(ctx, name, region); err != nil {
		m.logger.Error("failed to create bucket", "bucket", name, "error", err)
		return sweeptypes.BucketUnknown, err
	}
	m.logger.Info("bucket created", "bucket", name, "region", region)
	return sweeptypes.BucketCreated, nil
}

// Clear deletes every object in the bucket and returns how many were removed.
// The first failure aborts the run.
func (m *Manager) Clear(ctx context.Context, name string) (int, error) {
	deleted := 0
	err := list.Walk(ctx, m.store, list.Config{Bucket: name, PageSize: m.pageSize}, func(page *list.Page) error {
		for _, obj := range page.Objects {
			if err := m.store.DeleteObject(ctx, name, obj.Key); err != nil {
				return err
			}
			deleted++
			m.logger.Debug("deleted object", "bucket", name, "key", obj.Key)
		}
		return nil
	})
	if err != nil {
		m.logger.Error("failed to clear bucket", "bucket", name, "deleted", deleted, "error", err)
		return deleted, err
	}

	m.logger.Info("cleared bucket", "bucket", name, "deleted", deleted)
	return deleted, nil
}
