// Package operations contains the bucket, listing, population and sweep
// operations driven by the tagsweep client. Each subpackage works against
// the store.Store interface only.
package operations
