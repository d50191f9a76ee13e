// Package tagsweep populates object storage buckets with synthetic, tagged
// objects and deletes the objects whose tags and metadata match a filter.
//
// A Client wraps one object store backend. Amazon S3 (and S3 compatible
// endpoints such as LocalStack) are reached through the AWS SDK v2, MinIO
// servers through minio-go, and any store.Store can be injected directly.
//
// Filters are built from "key=value1,value2" tokens. An object is deleted
// when every key of the tag filter is present among its tags with an allowed
// value, and the same holds for the metadata filter. Empty filters match
// every object.
//
// Example usage:
//
//	client, err := tagsweep.New(ctx, tagsweep.WithRegion("ap-south-1"))
//	if err != nil {
//	    return err
//	}
//
//	result, err := client.DeleteMatching(ctx, "my-bucket",
//	    filter.Parse([]string{"region=Europe"}),
//	    filter.Parse([]string{"language=English,French"}),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Deleted %d objects\n", result.Deleted)
package tagsweep
