package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/samber/oops"
	"google.golang.org/api/option"

	"github.com/oksasatya/festronix-auth/internal/domain/gateway"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*gcs.Client, error) {
	if credsPath == "" {
		return gcs.NewClient(ctx)
	}
	return gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

type GCS struct {
	client *gcs.Client
	bucket string
}

func NewGCS(client *gcs.Client, bucket string) *GCS {
	return &GCS{client: client, bucket: bucket}
}

func (g *GCS) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	wc := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // single request for small images
	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		_ = wc.Close()
		return "", oops.Code("GCS_WRITE_FAILED").With("bucket", g.bucket).With("key", key).Wrap(err)
	}
	if err := wc.Close(); err != nil {
		return "", oops.Code("GCS_WRITE_FAILED").With("bucket", g.bucket).With("key", key).Wrap(err)
	}
	return GCSPublicURL(g.bucket, key), nil
}

// GCSPublicURL assumes the bucket grants public read.
func GCSPublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

var _ gateway.ImageStore = (*GCS)(nil)
