// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "weather-bucket", "zonescan/")
//	eng, err := zonescan.Open(ctx, "weather.csv", zonescan.WithBlobStore(store))
//
// # Features
//
//   - Range reads for column shard fetches
//   - Multipart streaming uploads via the SDK upload manager
//   - CRC32C checksums on Put
//   - Server-side copy for archiving scratch files
//   - Automatic pagination for listing
package s3
