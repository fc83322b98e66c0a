package pointstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/patternlife/internal/domain/signal"
)

const maxObjectBytes = 64 << 20

// ObjectSource reads a dataset object from S3-compatible storage (S3, R2, MinIO).
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewObjectSource constructs the storage adapter.
func NewObjectSource(endpoint, accessKey, secretKey, bucket, key, region string, logger *slog.Logger) (*ObjectSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &ObjectSource{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger.With("component", "pointstore.object"),
	}, nil
}

// Load implements signal.Store.
func (s *ObjectSource) Load(ctx context.Context) (signal.Dataset, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return signal.Dataset{}, fmt.Errorf("get dataset object: %w", err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return signal.Dataset{}, fmt.Errorf("stat dataset object: %w", err)
	}
	if info.Size > maxObjectBytes {
		return signal.Dataset{}, fmt.Errorf("dataset object is %d bytes, limit is %d", info.Size, maxObjectBytes)
	}
	s.logger.Debug("dataset object fetched", "bucket", s.bucket, "key", s.key, "etag", info.ETag, "size", info.Size)

	points, err := Decode(io.LimitReader(obj, maxObjectBytes), FormatFor(s.key))
	if err != nil {
		return signal.Dataset{}, err
	}
	return signal.NewDataset(points), nil
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var _ signal.Store = (*ObjectSource)(nil)
