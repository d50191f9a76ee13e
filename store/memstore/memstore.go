// Package memstore is an in-memory store.Store.
//
// It follows S3 semantics closely enough to exercise the tagsweep operations
// without a network: keys list in lexical order, metadata keys are stored
// lower-cased, and listings are split into pages of a configurable size.
package memstore

import (
	"context"
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// DefaultPageSize matches the S3 ListObjectsV2 default.
const DefaultPageSize = 1000

type object struct {
	body         []byte
	contentType  string
	metadata     map[string]string
	tags         map[string]string
	lastModified time.Time
}

type bucket struct {
	region  string
	objects map[string]*object
}

// Store is an in-memory object store. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	buckets  map[string]*bucket
	pageSize int
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPageSize sets the page size used when a listing does not ask for one.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		buckets:  make(map[string]*bucket),
		pageSize: DefaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HeadBucket implements store.Store.
func (s *Store) HeadBucket(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.buckets[name]; !ok {
		return tserrors.NewBucketError("headBucket", name, tserrors.ErrBucketNotFound)
	}
	return nil
}

// CreateBucket implements store.Store.
func (s *Store) CreateBucket(ctx context.Context, name, region string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[name]; ok {
		return tserrors.NewBucketError("createBucket", name, tserrors.ErrBucketAlreadyExists)
	}
	s.buckets[name] = &bucket{region: region, objects: make(map[string]*object)}
	return nil
}

// ListObjects implements store.Store. The continuation token is the last key
// of the previous page, so objects deleted between pages never shift the
// listing.
func (s *Store) ListObjects(ctx context.Context, name string, in store.ListInput) (*store.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buckets[name]
	if !ok {
		return nil, tserrors.NewBucketError("list", name, tserrors.ErrBucketNotFound)
	}

	limit := int(in.MaxKeys)
	if limit <= 0 || limit > s.pageSize {
		limit = s.pageSize
	}

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, in.Prefix) && k > in.ContinuationToken {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	page := &store.ListPage{}
	if len(keys) > limit {
		keys = keys[:limit]
		page.IsTruncated = true
		page.NextToken = keys[len(keys)-1]
	}

	page.Objects = make([]sweeptypes.Object, 0, len(keys))
	for _, k := range keys {
		obj := b.objects[k]
		page.Objects = append(page.Objects, sweeptypes.Object{
			Key:          k,
			Size:         int64(len(obj.body)),
			LastModified: obj.lastModified,
			ETag:         fmt.Sprintf(`"%x"`, md5.Sum(obj.body)),
		})
	}
	return page, nil
}

// PutObject implements store.Store.
func (s *Store) PutObject(ctx context.Context, in store.PutInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[in.Bucket]
	if !ok {
		return tserrors.NewObjectError("put", in.Bucket, in.Key, tserrors.ErrBucketNotFound)
	}

	metadata := make(map[string]string, len(in.Metadata))
	for k, v := range in.Metadata {
		metadata[strings.ToLower(k)] = v
	}

	b.objects[in.Key] = &object{
		body:         append([]byte(nil), in.Body...),
		contentType:  in.ContentType,
		metadata:     metadata,
		tags:         map[string]string{},
		lastModified: s.now(),
	}
	return nil
}

// PutObjectTagging implements store.Store.
func (s *Store) PutObjectTagging(ctx context.Context, name, key string, tags map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.lookup("putTagging", name, key)
	if err != nil {
		return err
	}
	obj.tags = copyMap(tags)
	return nil
}

// GetObjectTagging implements store.Store.
func (s *Store) GetObjectTagging(ctx context.Context, name, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, err := s.lookup("getTagging", name, key)
	if err != nil {
		return nil, err
	}
	return copyMap(obj.tags), nil
}

// HeadObject implements store.Store.
func (s *Store) HeadObject(ctx context.Context, name, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, err := s.lookup("headObject", name, key)
	if err != nil {
		return nil, err
	}
	return copyMap(obj.metadata), nil
}

// DeleteObject implements store.Store. Deleting a missing key succeeds, as it
// does on S3.
func (s *Store) DeleteObject(ctx context.Context, name, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[name]
	if !ok {
		return tserrors.NewObjectError("delete", name, key, tserrors.ErrBucketNotFound)
	}
	delete(b.objects, key)
	return nil
}

// Keys returns the keys stored in a bucket in sorted order.
func (s *Store) Keys(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buckets[name]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Body returns a copy of an object's payload and content type.
func (s *Store) Body(name, key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, err := s.lookup("body", name, key)
	if err != nil {
		return nil, "", false
	}
	return append([]byte(nil), obj.body...), obj.contentType, true
}

// Region returns the region a bucket was created in.
func (s *Store) Region(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buckets[name]
	if !ok {
		return "", false
	}
	return b.region, true
}

// lookup must be called with s.mu held.
func (s *Store) lookup(op, name, key string) (*object, error) {
	b, ok := s.buckets[name]
	if !ok {
		return nil, tserrors.NewObjectError(op, name, key, tserrors.ErrBucketNotFound)
	}
	obj, ok := b.objects[key]
	if !ok {
		return nil, tserrors.NewObjectError(op, name, key, tserrors.ErrObjectNotFound)
	}
	return obj, nil
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var _ store.Store = (*Store)(nil)
