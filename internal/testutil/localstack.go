package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Static credentials accepted by the LocalStack and MinIO containers.
const (
	LocalStackAccessKey = "test"
	LocalStackSecretKey = "test"
	MinioAccessKey      = "minioadmin"
	MinioSecretKey      = "minioadmin"
)

// Container is a running object store container.
type Container struct {
	container testcontainers.Container
	endpoint  string
	region    string
}

// Endpoint returns the address of the container. LocalStack endpoints are
// URLs; MinIO endpoints are host:port pairs as minio-go expects.
func (c *Container) Endpoint() string {
	return c.endpoint
}

// Region returns the region the container serves.
func (c *Container) Region() string {
	return c.region
}

// Terminate stops and removes the container.
func (c *Container) Terminate(ctx context.Context) error {
	if c.container != nil {
		if err := c.container.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}
	return nil
}

// NewLocalStackContainer starts LocalStack with the S3 service.
func NewLocalStackContainer(ctx context.Context) (*Container, error) {
	container, err := localstack.Run(ctx,
		"localstack/localstack:latest",
		testcontainers.WithEnv(map[string]string{"SERVICES": "s3"}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_localstack/health").
				WithPort("4566").
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start LocalStack container: %w", err)
	}

	endpoint, err := mappedEndpoint(ctx, container, "4566/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Container{
		container: container,
		endpoint:  "http://" + endpoint,
		region:    "us-east-1",
	}, nil
}

// NewMinioContainer starts a single-node MinIO server.
func NewMinioContainer(ctx context.Context) (*Container, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     MinioAccessKey,
				"MINIO_ROOT_PASSWORD": MinioSecretKey,
			},
			Cmd: []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000").
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start MinIO container: %w", err)
	}

	endpoint, err := mappedEndpoint(ctx, container, "9000/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Container{
		container: container,
		endpoint:  endpoint,
		region:    "us-east-1",
	}, nil
}

func mappedEndpoint(ctx context.Context, container testcontainers.Container, port string) (string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get container host: %w", err)
	}

	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return "", fmt.Errorf("failed to get container port: %w", err)
	}
	return fmt.Sprintf("%s:%s", host, mapped.Port()), nil
}

// SetupLocalStack starts LocalStack for a test and terminates it on cleanup.
func SetupLocalStack(t *testing.T) *Container {
	t.Helper()
	return setup(t, NewLocalStackContainer)
}

// SetupMinio starts MinIO for a test and terminates it on cleanup.
func SetupMinio(t *testing.T) *Container {
	t.Helper()
	return setup(t, NewMinioContainer)
}

func setup(t *testing.T, start func(context.Context) (*Container, error)) *Container {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := start(ctx)
	if err != nil {
		t.Fatalf("Failed to start container: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})
	return container
}
