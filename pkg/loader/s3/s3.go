// Package s3 loads documents from an S3 compatible bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/loader"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxObject caps the size of a downloaded document.
const maxObject = 50 << 20

// Loader reads objects from a single bucket. Sources are object keys,
// optionally written as "s3://key".
type Loader struct {
	bucket string
	client *s3.Client
	cache  *loader.Cache
}

func New(bucket string, client *s3.Client) *Loader {
	return &Loader{bucket: bucket, client: client, cache: loader.NewCache()}
}

// Key strips the "s3://" scheme from source.
func Key(source string) string {
	return strings.TrimPrefix(source, "s3://")
}

func (l *Loader) Load(ctx context.Context, source string) ([]byte, error) {
	key := Key(source)
	if key == "" {
		return nil, fmt.Errorf("%w: empty s3 key", loader.ErrUnsupportedSource)
	}
	return l.cache.Do(key, func() ([]byte, error) {
		return l.get(ctx, key)
	})
}

func (l *Loader) get(ctx context.Context, key string) ([]byte, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if isMissing(err) {
		return nil, fmt.Errorf("%w: s3://%s/%s", loader.ErrNotFound, l.bucket, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from s3: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxObject))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func isMissing(err error) bool {
	if err == nil {
		return false
	}
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var resp *awshttp.ResponseError
	return errors.As(err, &resp) && resp.HTTPStatusCode() == http.StatusNotFound
}
