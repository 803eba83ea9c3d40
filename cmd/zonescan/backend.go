package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/zonescan"
	"github.com/hupe1980/zonescan/blobstore"
	minioblob "github.com/hupe1980/zonescan/blobstore/minio"
	s3blob "github.com/hupe1980/zonescan/blobstore/s3"
)

// newBlobStore builds the store selected by s.cfg.Backend.
func newBlobStore(ctx context.Context, s settings) (blobstore.BlobStore, error) {
	cfg := s.cfg
	switch cfg.Backend {
	case "", zonescan.BackendLocal:
		return blobstore.NewLocalStore(cfg.Root), nil

	case zonescan.BackendS3:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 backend: bucket is required")
		}
		var loadOpts []func(*awsconfig.LoadOptions) error
		if s.region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(s.region))
		}
		if cfg.Endpoint != "" {
			loadOpts = append(loadOpts, awsconfig.WithBaseEndpoint(cfg.Endpoint))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.Endpoint != ""
		})
		return s3blob.NewStore(client, cfg.Bucket, cfg.Prefix), nil

	case zonescan.BackendMinIO:
		if cfg.Bucket == "" || cfg.Endpoint == "" {
			return nil, fmt.Errorf("minio backend: bucket and endpoint are required")
		}
		client, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(s.minioAccessKey, s.minioSecretKey, ""),
			Secure: s.minioSecure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return minioblob.NewStore(client, cfg.Bucket, cfg.Prefix), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
