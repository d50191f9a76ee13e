package testutil

import (
	"context"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
)

// FaultyStore decorates a store.Store. A non-nil function field replaces the
// corresponding call; nil fields fall through to the wrapped store.
// Calls are counted per operation so tests can assert call patterns.
type FaultyStore struct {
	store.Store

	HeadBucketFunc       func(ctx context.Context, bucket string) error
	CreateBucketFunc     func(ctx context.Context, bucket, region string) error
	ListObjectsFunc      func(ctx context.Context, bucket string, in store.ListInput) (*store.ListPage, error)
	PutObjectFunc        func(ctx context.Context, in store.PutInput) error
	PutObjectTaggingFunc func(ctx context.Context, bucket, key string, tags map[string]string) error
	GetObjectTaggingFunc func(ctx context.Context, bucket, key string) (map[string]string, error)
	HeadObjectFunc       func(ctx context.Context, bucket, key string) (map[string]string, error)
	DeleteObjectFunc     func(ctx context.Context, bucket, key string) error

	mu    sync.Mutex
	calls map[string]int
}

// NewFaultyStore wraps inner.
func NewFaultyStore(inner store.Store) *FaultyStore {
	return &FaultyStore{Store: inner, calls: make(map[string]int)}
}

// Calls returns how many times op was invoked.
func (f *FaultyStore) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultyStore) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

// HeadBucket implements store.Store.
func (f *FaultyStore) HeadBucket(ctx context.Context, bucket string) error {
	f.record("HeadBucket")
	if f.HeadBucketFunc != nil {
		return f.HeadBucketFunc(ctx, bucket)
	}
	return f.Store.HeadBucket(ctx, bucket)
}

// CreateBucket implements store.Store.
func (f *FaultyStore) CreateBucket(ctx context.Context, bucket, region string) error {
	f.record("CreateBucket")
	if f.CreateBucketFunc != nil {
		return f.CreateBucketFunc(ctx, bucket, region)
	}
	return f.Store.CreateBucket(ctx, bucket, region)
}

// ListObjects implements store.Store.
func (f *FaultyStore) ListObjects(ctx context.Context, bucket string, in store.ListInput) (*store.ListPage, error) {
	f.record("ListObjects")
	if f.ListObjectsFunc != nil {
		return f.ListObjectsFunc(ctx, bucket, in)
	}
	return f.Store.ListObjects(ctx, bucket, in)
}

// PutObject implements store.Store.
func (f *FaultyStore) PutObject(ctx context.Context, in store.PutInput) error {
	f.record("PutObject")
	if f.PutObjectFunc != nil {
		return f.PutObjectFunc(ctx, in)
	}
	return f.Store.PutObject(ctx, in)
}

// PutObjectTagging implements store.Store.
func (f *FaultyStore) PutObjectTagging(ctx context.Context, bucket, key string, tags map[string]string) error {
	f.record("PutObjectTagging")
	if f.PutObjectTaggingFunc != nil {
		return f.PutObjectTaggingFunc(ctx, bucket, key, tags)
	}
	return f.Store.PutObjectTagging(ctx, bucket, key, tags)
}

// GetObjectTagging implements store.Store.
func (f *FaultyStore) GetObjectTagging(ctx context.Context, bucket, key string) (map[string]string, error) {
	f.record("GetObjectTagging")
	if f.GetObjectTaggingFunc != nil {
		return f.GetObjectTaggingFunc(ctx, bucket, key)
	}
	return f.Store.GetObjectTagging(ctx, bucket, key)
}

// HeadObject implements store.Store.
func (f *FaultyStore) HeadObject(ctx context.Context, bucket, key string) (map[string]string, error) {
	f.record("HeadObject")
	if f.HeadObjectFunc != nil {
		return f.HeadObjectFunc(ctx, bucket, key)
	}
	return f.Store.HeadObject(ctx, bucket, key)
}

// DeleteObject implements store.Store.
func (f *FaultyStore) DeleteObject(ctx context.Context, bucket, key string) error {
	f.record("DeleteObject")
	if f.DeleteObjectFunc != nil {
		return f.DeleteObjectFunc(ctx, bucket, key)
	}
	return f.Store.DeleteObject(ctx, bucket, key)
}

var _ store.Store = (*FaultyStore)(nil)
