// Package sweep deletes the objects of a bucket whose tags and metadata
// match a pair of filters.
//
// The bucket is scanned page by page. For every listed object the tags and
// the metadata are fetched separately; an object whose attributes cannot be
// read is logged and skipped. Matching objects are deleted immediately.
package sweep
