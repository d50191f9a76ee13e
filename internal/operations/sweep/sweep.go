package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/filter"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/operations/list"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// Config holds the inputs of one sweep.
type Config struct {
	Bucket         string
	Prefix         string
	TagFilter      filter.Filter
	MetadataFilter filter.Filter

	// PageSize is the listing page size; 0 lets the store decide
	PageSize int32

	// ContinueOnDeleteError counts failed deletes instead of aborting
	ContinueOnDeleteError bool
}

// Engine runs conditional deletions against a store.
type Engine struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates an Engine. A nil logger discards output.
func New(s store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{store: s, logger: logger, now: time.Now}
}

// Run scans the bucket and deletes every object matching both filters.
// On a fatal error the partial result is returned together with the error.
func (e *Engine) Run(ctx context.Context, cfg Config) (*sweeptypes.SweepResult, error) {
	start := e.now()
	result := &sweeptypes.SweepResult{}

	e.logger.Info("starting deletion scan",
		"bucket", cfg.Bucket,
		"tags", cfg.TagFilter.String(),
		"metadata", cfg.MetadataFilter.String())

	err := list.Walk(ctx, e.store, list.Config{
		Bucket:   cfg.Bucket,
		Prefix:   cfg.Prefix,
		PageSize: cfg.PageSize,
	}, func(page *list.Page) error {
		e.logger.Debug("processing page", "bucket", cfg.Bucket, "page", page.Number, "objects", len(page.Objects))
		for _, obj := range page.Objects {
			if err := e.visit(ctx, cfg, obj.Key, result); err != nil {
				return err
			}
		}
		return nil
	})
	result.Duration = e.now().Sub(start)

	if err != nil {
		e.logger.Error("deletion scan aborted",
			"bucket", cfg.Bucket,
			"scanned", result.Scanned,
			"deleted", result.Deleted,
			"error", err)
		return result, err
	}

	e.logger.Info("deletion scan finished",
		"bucket", cfg.Bucket,
		"scanned", result.Scanned,
		"deleted", result.Deleted,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", result.Duration)
	return result, nil
}

// visit evaluates one object. Only a fatal delete failure or a canceled
// context is returned.
func (e *Engine) visit(ctx context.Context, cfg Config, key string, result *sweeptypes.SweepResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result.Scanned++

	tags, err := e.store.GetObjectTagging(ctx, cfg.Bucket, key)
	if err != nil {
		e.logger.Warn("skipping object, could not read tags", "bucket", cfg.Bucket, "key", key, "error", err)
		result.Skipped++
		return nil
	}

	metadata, err := e.store.HeadObject(ctx, cfg.Bucket, key)
	if err != nil {
		e.logger.Warn("skipping object, could not read metadata", "bucket", cfg.Bucket, "key", key, "error", err)
		result.Skipped++
		return nil
	}

	if !filter.MatchesAll(tags, metadata, cfg.TagFilter, cfg.MetadataFilter) {
		return nil
	}

	if err := e.store.DeleteObject(ctx, cfg.Bucket, key); err != nil {
		if !cfg.ContinueOnDeleteError {
			return err
		}
		e.logger.Warn("failed to delete matching object", "bucket", cfg.Bucket, "key", key, "error", err)
		result.Failed++
		return nil
	}

	result.Deleted++
	e.logger.Info("deleted object", "bucket", cfg.Bucket, "key", key)
	return nil
}
