package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/config"
)

// ImageStore uploads project images to an S3 bucket and hands back the
// public URL to store on the project. A nil ImageStore means uploads are not
// configured.
type ImageStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewImageStore builds an ImageStore from configuration, or returns nil when
// no bucket is configured.
func NewImageStore(ctx context.Context, cfg config.Config) (*ImageStore, error) {
	if cfg.S3Bucket == "" {
		log.Warn().Msg("S3 bucket not configured, image uploads disabled")
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &ImageStore{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(cfg.PublicAssetURL, "/"),
	}, nil
}

// Upload stores one object and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}
