// Package populate fills a bucket with synthetic objects.
//
// A run makes sure the bucket exists, empties it when it was already there,
// and then writes a fixed or randomly drawn number of objects. Each object
// gets a random alphanumeric payload, six metadata fields and five tags.
package populate
