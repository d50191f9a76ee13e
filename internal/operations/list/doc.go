// Package list pages through the objects of a bucket.
//
// A Paginator follows the continuation tokens returned by a store until the
// listing is exhausted. Each page is returned whole so callers can finish
// processing it before the next one is requested.
package list
