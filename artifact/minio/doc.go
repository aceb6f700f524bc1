// Package minio implements artifact.Store on MinIO and other S3-compatible
// object stores using the native MinIO client.
package minio
