package tagsweep

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/generate"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/operations/bucket"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/operations/populate"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/operations/sweep"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store/miniostore"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store/s3store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// Client populates and sweeps buckets of a single object store.
type Client struct {
	store  store.Store
	config sweeptypes.ClientConfig
	logger *slog.Logger

	buckets   *bucket.Manager
	populator *populate.Populator
	engine    *sweep.Engine
}

// New creates a client for the configured backend.
// The AWS backend loads credentials through the default credential chain
// unless static credentials or a custom aws.Config are supplied.
//
// Example:
//
//	client, err := tagsweep.New(ctx,
//	    tagsweep.WithBackend(sweeptypes.BackendMinio),
//	    tagsweep.WithEndpoint("localhost:9000"),
//	    tagsweep.WithCredentials("minioadmin", "minioadmin", ""),
//	    tagsweep.WithUseSSL(false),
//	)
func New(ctx context.Context, opts ...sweeptypes.Option) (*Client, error) {
	cfg := newConfig(opts...)

	var (
		s   store.Store
		err error
	)
	switch cfg.Backend {
	case sweeptypes.BackendS3:
		s, err = newS3Store(ctx, &cfg)
	case sweeptypes.BackendMinio:
		s, err = miniostore.Dial(miniostore.Config{
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			SessionToken:    cfg.SessionToken,
			Region:          cfg.Region,
			UseSSL:          cfg.UseSSL,
		})
	default:
		return nil, tserrors.NewError("client initialization", tserrors.ErrInvalidConfig).
			WithMessage("unsupported backend " + string(cfg.Backend))
	}
	if err != nil {
		return nil, err
	}

	return build(s, cfg), nil
}

// NewWithStore creates a client around an existing store.
// This is primarily used for testing with the in-memory store.
func NewWithStore(s store.Store, opts ...sweeptypes.Option) *Client {
	return build(s, newConfig(opts...))
}

func newConfig(opts ...sweeptypes.Option) sweeptypes.ClientConfig {
	cfg := sweeptypes.ClientConfig{
		Backend:     sweeptypes.BackendS3,
		Region:      sweeptypes.DefaultRegion,
		UseSSL:      true,
		MaxRetries:  sweeptypes.DefaultMaxRetries,
		ObjectCount: sweeptypes.DefaultObjectCount,
		Prefix:      sweeptypes.DefaultPrefix,
		PayloadSize: sweeptypes.DefaultPayloadSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return cfg
}

func build(s store.Store, cfg sweeptypes.ClientConfig) *Client {
	buckets := bucket.New(s, cfg.Logger, cfg.PageSize)
	return &Client{
		store:     s,
		config:    cfg,
		logger:    cfg.Logger,
		buckets:   buckets,
		populator: populate.New(s, buckets, generate.New(cfg.Rand), cfg.Logger),
		engine:    sweep.New(s, cfg.Logger),
	}
}

func newS3Store(ctx context.Context, cfg *sweeptypes.ClientConfig) (*s3store.Store, error) {
	var awsCfg aws.Config
	if cfg.CustomAWSConfig != nil {
		awsCfg = *cfg.CustomAWSConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.Region != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
		}
		if cfg.AccessKeyID != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
			))
		}

		var err error
		awsCfg, err = config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, tserrors.NewError("client initialization", err)
		}
	}

	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = sweeptypes.DefaultRegion
	}
	if cfg.MaxRetries > 0 {
		awsCfg.RetryMaxAttempts = cfg.MaxRetries
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return s3store.New(client), nil
}

// Store returns the store the client operates on.
func (c *Client) Store() store.Store {
	return c.store
}

// Config returns a copy of the client configuration.
func (c *Client) Config() sweeptypes.ClientConfig {
	return c.config
}
