// Package storage writes exported artifacts to S3 compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/OFFIS-RIT/docvis/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SVGPrefix is the key prefix of exported SVG renderings.
const SVGPrefix = "visualizations"

func NewS3Client(ctx context.Context, cfg util.Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKey,
			cfg.AWSSecretKey,
			"",
		)),
	}
	if cfg.AWSEndpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(cfg.AWSEndpoint))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

// PutFile uploads file under key. The content type is derived from the
// key's extension.
func PutFile(ctx context.Context, client *s3.Client, bucket, key string, file io.ReadSeeker) error {
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}
	return nil
}

// SVGKey is the object key of the SVG export of a visualization record.
func SVGKey(recordID string) string {
	return path.Join(SVGPrefix, recordID+".svg")
}
