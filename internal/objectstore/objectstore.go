// File: internal/objectstore/objectstore.go
// Purpose: S3 client construction and the /vsis3/ URI convention used
//          to hand data-lake layers to GDAL.
// Pattern: domain
// Dependencies: github.com/aws/aws-sdk-go-v2/config, service/s3, feature/s3/manager
package objectstore

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store wraps an S3 client and the multipart Uploader the ResultWriter
// needs, built the same way cmd/seed-geodata loads AWS credentials.
type Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	region   string
}

// New loads the default AWS credential chain (environment, shared
// config, EC2/ECS role) for region.
func New(ctx context.Context, region string) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &Store{
		client:   client,
		uploader: manager.NewUploader(client),
		region:   region,
	}, nil
}

// Upload satisfies internal/writer.Uploader.
func (s *Store) Upload(ctx context.Context, bucket, key string, body *os.File) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("objectstore: upload s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes a previously uploaded object. Used for the best-effort
// cleanup of a result written just before a job was observed cancelled
// (spec.md §5: "the result key, if already written, is best-effort
// deleted").
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("objectstore: delete s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// VSIPath builds the GDAL virtual-filesystem URI for a data-lake
// object, so that internal/raster.Open can stream it with ranged GETs
// instead of downloading the whole COG.
func VSIPath(bucket, key string) string {
	return fmt.Sprintf("/vsis3/%s/%s", bucket, key)
}
