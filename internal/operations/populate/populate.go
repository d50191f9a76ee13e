package populate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gabriel-vasile/mimetype"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/generate"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/operations/bucket"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// progressEvery controls how often an info-level progress line is logged.
const progressEvery = 50

// Config holds the inputs of one populate run.
type Config struct {
	Bucket string
	Region string
	Prefix string

	// Count is the number of objects to write when CountMax is zero
	Count int

	// CountMin and CountMax bound a count drawn once per run
	CountMin int
	CountMax int

	PayloadSize int
}

// Populator writes generated objects to a store.
type Populator struct {
	store   store.Store
	buckets *bucket.Manager
	gen     *generate.Generator
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Populator. A nil logger discards output.
func New(s store.Store, buckets *bucket.Manager, gen *generate.Generator, logger *slog.Logger) *Populator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Populator{store: s, buckets: buckets, gen: gen, logger: logger, now: time.Now}
}

// Run prepares the bucket and writes the objects. The partial result is
// returned alongside any error.
func (p *Populator) Run(ctx context.Context, cfg Config) (*sweeptypes.PopulateResult, error) {
	start := p.now()
	result := &sweeptypes.PopulateResult{Bucket: cfg.Bucket}
	defer func() {
		if result.Duration == 0 {
			result.Duration = p.now().Sub(start)
		}
	}()

	count, err := p.objectCount(cfg)
	if err != nil {
		return result, err
	}

	status, err := p.buckets.Ensure(ctx, cfg.Bucket, cfg.Region)
	result.Status = status
	if err != nil {
		return result, err
	}

	if status == sweeptypes.BucketExists {
		p.logger.Info("clearing existing bucket", "bucket", cfg.Bucket)
		cleared, err := p.buckets.Clear(ctx, cfg.Bucket)
		result.Cleared = cleared
		if err != nil {
			return result, err
		}
	}

	p.logger.Info("populating bucket", "bucket", cfg.Bucket, "objects", count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		key := fmt.Sprintf("%sobject_%d.txt", cfg.Prefix, i)
		if err := p.writeObject(ctx, cfg, key); err != nil {
			p.logger.Error("failed to write object", "bucket", cfg.Bucket, "key", key, "error", err)
			return result, err
		}
		result.Written++

		if result.Written%progressEvery == 0 {
			p.logger.Info("populate progress", "bucket", cfg.Bucket, "written", result.Written, "total", count)
		}
	}

	result.Duration = p.now().Sub(start)
	p.logger.Info("populate finished",
		"bucket", cfg.Bucket,
		"status", result.Status.String(),
		"cleared", result.Cleared,
		"written", result.Written,
		"duration", result.Duration)
	return result, nil
}

func (p *Populator) objectCount(cfg Config) (int, error) {
	if cfg.CountMax > 0 {
		if cfg.CountMin < 0 || cfg.CountMin > cfg.CountMax {
			return 0, tserrors.NewError("populate", tserrors.ErrInvalidInput).
				WithMessage(fmt.Sprintf("invalid object count range [%d, %d]", cfg.CountMin, cfg.CountMax))
		}
		n := p.gen.IntInRange(cfg.CountMin, cfg.CountMax)
		p.logger.Debug("drew object count", "min", cfg.CountMin, "max", cfg.CountMax, "count", n)
		return n, nil
	}
	if cfg.Count < 0 {
		return 0, tserrors.NewError("populate", tserrors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("object count cannot be negative: %d", cfg.Count))
	}
	return cfg.Count, nil
}

func (p *Populator) writeObject(ctx context.Context, cfg Config, key string) error {
	body := p.gen.Content(cfg.PayloadSize)
	metadata := p.gen.Metadata()
	tags := p.gen.Tags()

	if err := validation.ValidateMetadata(metadata); err != nil {
		return err
	}
	if err := validation.ValidateTags(tags); err != nil {
		return err
	}

	if err := p.store.PutObject(ctx, store.PutInput{
		Bucket:      cfg.Bucket,
		Key:         key,
		Body:        body,
		ContentType: mimetype.Detect(body).String(),
		Metadata:    metadata,
	}); err != nil {
		return err
	}

	if err := p.store.PutObjectTagging(ctx, cfg.Bucket, key, tags); err != nil {
		return err
	}

	p.logger.Debug("wrote object", "bucket", cfg.Bucket, "key", key, "size", len(body))
	return nil
}
