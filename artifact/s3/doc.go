// Package s3 implements artifact.Store on Amazon S3 using aws-sdk-go-v2.
//
// Artifacts are small relative to S3 limits, so objects are written with a
// single PutObject rather than multipart upload.
package s3
