package tagsweep

import (
	"log/slog"
	"math/rand"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// WithBackend selects the store implementation. Default is sweeptypes.BackendS3.
func WithBackend(backend sweeptypes.Backend) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Backend = backend
	}
}

// WithRegion sets the region used by the client and for bucket creation.
// Default is ap-south-1.
func WithRegion(region string) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom endpoint.
// For the AWS backend this is a URL (LocalStack, S3 compatible services);
// for the MinIO backend it is a host:port pair.
func WithEndpoint(endpoint string) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs on the AWS backend.
// This is required for S3-compatible services that don't support virtual hosting.
func WithForcePathStyle(forcePathStyle bool) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithCredentials sets static credentials.
func WithCredentials(accessKeyID, secretAccessKey, sessionToken string) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.AccessKeyID = accessKeyID
		c.SecretAccessKey = secretAccessKey
		c.SessionToken = sessionToken
	}
}

// WithUseSSL toggles TLS for the MinIO backend. Default is true.
func WithUseSSL(useSSL bool) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.UseSSL = useSSL
	}
}

// WithMaxRetries sets the maximum number of attempts of the AWS SDK retryer.
// Default is 3.
func WithMaxRetries(maxRetries int) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithRand sets the random source used to generate objects.
func WithRand(r *rand.Rand) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Rand = r
	}
}

// WithSeed seeds a dedicated random source so generated objects are reproducible.
func WithSeed(seed int64) sweeptypes.Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithPageSize sets the listing page size. Zero uses the store default.
func WithPageSize(pageSize int32) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		if pageSize >= 0 {
			c.PageSize = pageSize
		}
	}
}

// WithObjectCount sets how many objects Populate writes. Default is 200.
func WithObjectCount(n int) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.ObjectCount = n
		c.ObjectCountMin, c.ObjectCountMax = 0, 0
	}
}

// WithObjectCountRange makes Populate draw the object count once per run
// from [minCount, maxCount].
func WithObjectCountRange(minCount, maxCount int) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.ObjectCountMin = minCount
		c.ObjectCountMax = maxCount
	}
}

// WithPrefix sets the key prefix of generated objects. Default is "sample-data/".
func WithPrefix(prefix string) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Prefix = prefix
	}
}

// WithPayloadSize sets the size of generated payloads in bytes. Default is 1024.
func WithPayloadSize(size int) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		if size >= 0 {
			c.PayloadSize = size
		}
	}
}

// WithContinueOnDeleteError keeps DeleteMatching going when a delete fails.
// Failed deletes are logged and counted in SweepResult.Failed.
// By default the first failed delete aborts the scan.
func WithContinueOnDeleteError(continueOnError bool) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.ContinueOnDeleteError = continueOnError
	}
}
