package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"unicode"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
)

// S3 limits enforced on generated and user supplied attributes.
const (
	MaxKeyLength           = 1024
	MaxMetadataKeyLength   = 128
	MaxMetadataValueLength = 2048
	MaxTagsPerObject       = 10
	MaxTagKeyLength        = 128
	MaxTagValueLength      = 256
)

var bucketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// ValidateBucketName reports whether bucket is a DNS-compliant S3 bucket name.
func ValidateBucketName(bucket string) error {
	fail := func(msg string) error {
		return tserrors.NewError("validateBucketName", tserrors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage(msg)
	}

	switch {
	case bucket == "":
		return fail("bucket name cannot be empty")
	case len(bucket) < 3 || len(bucket) > 63:
		return fail("bucket name must be between 3 and 63 characters long")
	case !bucketNamePattern.MatchString(bucket):
		return fail("bucket name must be lowercase letters, numbers, dots and hyphens, " +
			"starting and ending with a letter or number")
	case strings.Contains(bucket, ".."), strings.Contains(bucket, ".-"), strings.Contains(bucket, "-."):
		return fail("bucket name cannot contain adjacent dots or a dot next to a hyphen")
	case net.ParseIP(bucket) != nil:
		return fail("bucket name cannot be formatted as an IP address")
	case strings.HasPrefix(bucket, "xn--"), strings.HasSuffix(bucket, "-s3alias"):
		return fail("bucket name uses a reserved prefix or suffix")
	}
	return nil
}

// ValidateObjectKey validates a full object key.
func ValidateObjectKey(key string) error {
	if key == "" {
		return keyError(key, "object key cannot be empty")
	}
	return validateKeyText(key)
}

// ValidatePrefix validates a key prefix. An empty prefix is allowed.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	return validateKeyText(prefix)
}

func validateKeyText(key string) error {
	if len(key) > MaxKeyLength {
		return keyError(key, fmt.Sprintf("object key cannot exceed %d bytes", MaxKeyLength))
	}
	if strings.HasPrefix(key, "/") {
		return keyError(key, "object key cannot start with a slash")
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return keyError(key, "object key cannot contain path traversal sequences")
		}
	}
	if strings.IndexFunc(key, unicode.IsControl) >= 0 {
		return keyError(key, "object key cannot contain control characters")
	}
	return nil
}

func keyError(key, msg string) error {
	return tserrors.NewError("validateObjectKey", tserrors.ErrInvalidObjectKey).
		WithKey(key).
		WithMessage(msg)
}

// ValidateMetadata validates user metadata keys and values.
func ValidateMetadata(metadata map[string]string) error {
	for key, value := range metadata {
		if err := validateAttributeKey("validateMetadata", key, MaxMetadataKeyLength); err != nil {
			return err
		}
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "x-amz-") || strings.HasPrefix(lower, "aws:") {
			return invalid("validateMetadata", fmt.Sprintf("metadata key %q uses a reserved prefix", key))
		}
		if len(value) > MaxMetadataValueLength {
			return invalid("validateMetadata",
				fmt.Sprintf("metadata value for %q cannot exceed %d bytes", key, MaxMetadataValueLength))
		}
		if strings.IndexFunc(value, unicode.IsControl) >= 0 {
			return invalid("validateMetadata", fmt.Sprintf("metadata value for %q contains control characters", key))
		}
	}
	return nil
}

// ValidateTags validates an object tag set against the S3 tagging limits.
func ValidateTags(tags map[string]string) error {
	if len(tags) > MaxTagsPerObject {
		return invalid("validateTags", fmt.Sprintf("an object can carry at most %d tags", MaxTagsPerObject))
	}
	for key, value := range tags {
		if err := validateAttributeKey("validateTags", key, MaxTagKeyLength); err != nil {
			return err
		}
		if strings.HasPrefix(strings.ToLower(key), "aws:") {
			return invalid("validateTags", fmt.Sprintf("tag key %q uses the reserved aws: prefix", key))
		}
		if len(value) > MaxTagValueLength {
			return invalid("validateTags",
				fmt.Sprintf("tag value for %q cannot exceed %d characters", key, MaxTagValueLength))
		}
	}
	return nil
}

// validateAttributeKey checks the rules shared by metadata and tag keys:
// non-empty, bounded, printable ASCII without spaces.
func validateAttributeKey(op, key string, maxLen int) error {
	if key == "" {
		return invalid(op, "key cannot be empty")
	}
	if len(key) > maxLen {
		return invalid(op, fmt.Sprintf("key %q cannot exceed %d characters", key, maxLen))
	}
	for _, r := range key {
		if r <= ' ' || r > '~' {
			return invalid(op, fmt.Sprintf("key %q can only contain printable ASCII characters", key))
		}
	}
	return nil
}

func invalid(op, msg string) error {
	return tserrors.NewError(op, tserrors.ErrInvalidInput).WithMessage(msg)
}
