package poster

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/atelierhub/workshop-hub-api/internal/config"
)

// ObjectStore is the storage surface the poster pipeline needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, metadata map[string]string) error
	Download(ctx context.Context, key string) (data []byte, metadata map[string]string, err error)
}

// S3Store stores poster objects in a single S3 bucket.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewS3Store creates an S3 client for the poster bucket, using static
// credentials when configured and the default chain otherwise.
func NewS3Store(ctx context.Context, cfg config.StorageConfig, logger *zerolog.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	} else {
		logger.Warn().Msg("S3 client using default credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.PosterBucket,
	}, nil
}

// Upload streams an object to the poster bucket.
func (s *S3Store) Upload(
	ctx context.Context,
	key, contentType string,
	body io.Reader,
	metadata map[string]string,
) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// Download fetches an object and its metadata.
func (s *S3Store) Download(ctx context.Context, key string) ([]byte, map[string]string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, nil, err
	}

	return data, out.Metadata, nil
}

// Key returns the storage key for a workshop's poster original.
func Key(workshopID string) string {
	return path.Join("workshops", workshopID, "poster")
}
