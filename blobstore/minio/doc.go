// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and any other S3-compatible storage (Ceph, Garage,
// SeaweedFS) and needs no AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "weather", "zonescan/")
//	eng, err := zonescan.Open(ctx, "weather.csv", zonescan.WithBlobStore(store))
//
// Renames are server-side copies followed by a delete, so archiving a
// scratch file never downloads it.
package minio
