// Package bucket implements the bucket lifecycle steps used before a
// populate run: making sure a bucket exists and emptying it.
package bucket
