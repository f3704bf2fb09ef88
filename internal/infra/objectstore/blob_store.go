// Package objectstore implements the asset file store on top of gocloud.dev
// blob buckets, so the backing store (S3, GCS, local files) is a config choice.
package objectstore

import (
	"context"
	"io"
	"log/slog"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/lifecycle"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"

	// Register the bucket drivers selectable via ObjectStore.BucketURL.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

const defaultRequestTimeout = 10 * time.Second

type blobStore struct {
	bucket  *blob.Bucket
	timeout time.Duration
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and wires its shutdown into the fx lifecycle.
func New(params Params) (service.ObjectStore, error) {
	cfg := params.Config.ObjectStore
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("object store bucket URL is not configured")
	}

	openCtx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(openCtx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.BucketURL)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobStore{
		bucket:  bucket,
		timeout: timeout,
	}, nil
}

// SignURL mints a time-limited read URL for a private object.
func (s *blobStore) SignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url, err := s.bucket.SignedURL(ctx, key, &blob.SignedURLOptions{
		Expiry: expiry,
		Method: "GET",
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign URL for %s", key)
	}

	return url, nil
}

// Upload writes an object under the given key.
func (s *blobStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to open writer for %s", key)
	}

	if _, err := io.Copy(writer, body); err != nil {
		// Abort the write; Close would otherwise commit a partial object.
		_ = writer.Close()

		return errors.Wrapf(err, "failed to write %s", key)
	}

	return errors.Wrapf(writer.Close(), "failed to commit %s", key)
}

// Delete removes an object.
func (s *blobStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return errors.Wrapf(s.bucket.Delete(ctx, key), "failed to delete %s", key)
}
