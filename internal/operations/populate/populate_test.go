package populate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/generate"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/operations/bucket"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store/memstore"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

func newPopulator(s store.Store, seed int64) *Populator {
	return New(s, bucket.New(s, nil, 0), generate.NewSeeded(seed), nil)
}

func defaultConfig() Config {
	return Config{
		Bucket:      "books",
		Region:      "ap-south-1",
		Prefix:      sweeptypes.DefaultPrefix,
		Count:       5,
		PayloadSize: sweeptypes.DefaultPayloadSize,
	}
}

// TestRun_NewBucket tests populating a bucket that does not exist yet.
func TestRun_NewBucket(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	result, err := newPopulator(s, 1).Run(ctx, defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, sweeptypes.BucketCreated, result.Status)
	assert.Equal(t, 5, result.Written)
	assert.Zero(t, result.Cleared)

	region, ok := s.Region("books")
	require.True(t, ok)
	assert.Equal(t, "ap-south-1", region)

	assert.Equal(t, []string{
		"sample-data/object_0.txt",
		"sample-data/object_1.txt",
		"sample-data/object_2.txt",
		"sample-data/object_3.txt",
		"sample-data/object_4.txt",
	}, s.Keys("books"))

	body, contentType, ok := s.Body("books", "sample-data/object_3.txt")
	require.True(t, ok)
	assert.Len(t, body, sweeptypes.DefaultPayloadSize)
	assert.Contains(t, contentType, "text/plain")

	metadata, err := s.HeadObject(ctx, "books", "sample-data/object_3.txt")
	require.NoError(t, err)
	assert.Len(t, metadata, 6)
	assert.Contains(t, generate.Languages, metadata["language"])

	tags, err := s.GetObjectTagging(ctx, "books", "sample-data/object_3.txt")
	require.NoError(t, err)
	assert.Len(t, tags, 5)
	assert.Contains(t, generate.Regions, tags["region"])
}

// TestRun_ExistingBucketIsCleared tests that stale objects are removed first.
func TestRun_ExistingBucketIsCleared(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.CreateBucket(ctx, "books", ""))
	for i := 0; i < 3; i++ {
		testutil.SeedObject(t, s, "books", fmt.Sprintf("stale_%d", i), nil, nil)
	}

	cfg := defaultConfig()
	cfg.Count = 2
	result, err := newPopulator(s, 1).Run(ctx, cfg)
	require.NoError(t, err)

	assert.Equal(t, sweeptypes.BucketExists, result.Status)
	assert.Equal(t, 3, result.Cleared)
	assert.Equal(t, 2, result.Written)
	assert.Equal(t, []string{"sample-data/object_0.txt", "sample-data/object_1.txt"}, s.Keys("books"))
}

// TestRun_CountRange tests that the object count is drawn from the range.
func TestRun_CountRange(t *testing.T) {
	cfg := defaultConfig()
	cfg.CountMin, cfg.CountMax = 3, 7

	for seed := int64(0); seed < 10; seed++ {
		s := memstore.New()
		result, err := newPopulator(s, seed).Run(context.Background(), cfg)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Written, 3)
		assert.LessOrEqual(t, result.Written, 7)
		assert.Len(t, s.Keys("books"), result.Written)
	}
}

// TestRun_InvalidCount tests count validation.
func TestRun_InvalidCount(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*Config)
	}{
		{"negative count", func(c *Config) { c.Count = -1 }},
		{"reversed range", func(c *Config) { c.CountMin, c.CountMax = 9, 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.NewFaultyStore(memstore.New())
			cfg := defaultConfig()
			tt.cfg(&cfg)

			_, err := newPopulator(s, 1).Run(context.Background(), cfg)
			assert.True(t, tserrors.IsInvalidInput(err))
			assert.Zero(t, s.Calls("HeadBucket"))
		})
	}
}

// TestRun_Deterministic tests that the same seed yields the same objects.
func TestRun_Deterministic(t *testing.T) {
	ctx := context.Background()
	a, b := memstore.New(), memstore.New()

	_, err := newPopulator(a, 42).Run(ctx, defaultConfig())
	require.NoError(t, err)
	_, err = newPopulator(b, 42).Run(ctx, defaultConfig())
	require.NoError(t, err)

	for _, key := range a.Keys("books") {
		bodyA, _, _ := a.Body("books", key)
		bodyB, _, _ := b.Body("books", key)
		assert.Equal(t, bodyA, bodyB)

		tagsA, err := a.GetObjectTagging(ctx, "books", key)
		require.NoError(t, err)
		tagsB, err := b.GetObjectTagging(ctx, "books", key)
		require.NoError(t, err)
		assert.Equal(t, tagsA, tagsB)
	}
}

// TestRun_WriteFailure tests that a failed write stops the run.
func TestRun_WriteFailure(t *testing.T) {
	inner := memstore.New()
	s := testutil.NewFaultyStore(inner)
	boom := errors.New("boom")
	s.PutObjectTaggingFunc = func(ctx context.Context, b, key string, tags map[string]string) error {
		if key == "sample-data/object_2.txt" {
			return boom
		}
		return inner.PutObjectTagging(ctx, b, key, tags)
	}

	result, err := newPopulator(s, 1).Run(context.Background(), defaultConfig())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, result.Written)
	assert.Equal(t, 3, s.Calls("PutObject"))
}

// steppingClock returns a clock that advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

// TestRun_DurationOnFailure tests that the elapsed time is reported when a
// run stops early.
func TestRun_DurationOnFailure(t *testing.T) {
	t.Run("invalid count", func(t *testing.T) {
		p := newPopulator(memstore.New(), 1)
		p.now = steppingClock(time.Second)
		cfg := defaultConfig()
		cfg.Count = -1

		result, err := p.Run(context.Background(), cfg)
		require.Error(t, err)
		assert.Equal(t, time.Second, result.Duration)
	})

	t.Run("write failure", func(t *testing.T) {
		inner := memstore.New()
		s := testutil.NewFaultyStore(inner)
		boom := errors.New("boom")
		s.PutObjectFunc = func(ctx context.Context, in store.PutInput) error {
			return boom
		}
		p := newPopulator(s, 1)
		p.now = steppingClock(time.Second)

		result, err := p.Run(context.Background(), defaultConfig())
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, result.Written)
		assert.Equal(t, time.Second, result.Duration)
	})
}
