// Package errors provides error types and classification for object store operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a failed store operation with context about what was being done.
// It wraps the underlying backend error so callers can still inspect it.
type Error struct {
	// Op is the operation that failed (e.g., "headBucket", "getTagging", "delete")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Err is the underlying error from the backend or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("tagsweep.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("tagsweep.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("tagsweep.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("tagsweep.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors returned (wrapped) by every store backend.
// Use errors.Is() or the Is* helpers below to classify a failure.
var (
	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("tagsweep: bucket not found")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("tagsweep: object not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("tagsweep: access denied")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("tagsweep: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("tagsweep: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("tagsweep: invalid object key")

	// ErrBucketAlreadyExists indicates that the bucket already exists
	ErrBucketAlreadyExists = errors.New("tagsweep: bucket already exists")

	// ErrInvalidConfig indicates that the client configuration is unusable
	ErrInvalidConfig = errors.New("tagsweep: invalid configuration")
)

// IsBucketNotFound checks if an error indicates that a bucket was not found.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsObjectNotFound checks if an error indicates that an object was not found.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input.
// Invalid bucket names and object keys count as invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidBucketName) ||
		errors.Is(err, ErrInvalidObjectKey)
}

// Classify wraps err so that it matches sentinel while keeping err in the chain.
// A nil sentinel returns err unchanged.
func Classify(sentinel, err error) error {
	if err == nil || sentinel == nil {
		return err
	}
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
