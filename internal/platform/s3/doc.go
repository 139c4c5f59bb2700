// Package s3 publishes rendered artifacts to an S3-compatible bucket.
//
// The Client wraps the AWS SDK for bucket and object operations; the
// Publisher mirrors an output directory under "<prefix>/<cluster>/" so that
// every run leaves an auditable copy of exactly what was rendered.
package s3
