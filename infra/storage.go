package infra

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tnqbao/gau-video-service/config"
)

// StorageClient stores cover images in MinIO. Covers are staged under
// staging/ while a create request is in flight and moved to videoCovers/
// once the video row exists.
type StorageClient struct {
	Client        *minio.Client
	Bucket        string
	PublicBaseURL string
}

func InitStorageClient(cfg *config.EnvConfig) *StorageClient {
	if cfg.Minio.Endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.RootUser, cfg.Minio.RootPassword, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		log.Fatalf("MinIO connection failed: %v", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Minio.CoverBucket)
	if err != nil {
		log.Fatalf("MinIO bucket check failed: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Minio.CoverBucket, minio.MakeBucketOptions{}); err != nil {
			log.Fatalf("MinIO bucket creation failed: %v", err)
		}
	}

	return &StorageClient{
		Client:        client,
		Bucket:        cfg.Minio.CoverBucket,
		PublicBaseURL: cfg.Minio.PublicBaseURL,
	}
}

func (s *StorageClient) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.Client.PutObject(ctx, s.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", key, err)
	}
	return nil
}

// MoveObject copies src to dst and removes src.
func (s *StorageClient) MoveObject(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.Client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.Bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: s.Bucket, Object: srcKey},
	)
	if err != nil {
		return fmt.Errorf("failed to move object %s -> %s: %w", srcKey, dstKey, err)
	}
	return s.RemoveObject(ctx, srcKey)
}

func (s *StorageClient) RemoveObject(ctx context.Context, key string) error {
	if err := s.Client.RemoveObject(ctx, s.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the CDN-facing URL for a stored object.
func (s *StorageClient) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.PublicBaseURL, "/"), s.Bucket, key)
}

// KeyFromURL reverses PublicURL; returns "" when the URL is not ours.
func (s *StorageClient) KeyFromURL(url string) string {
	prefix := fmt.Sprintf("%s/%s/", strings.TrimSuffix(s.PublicBaseURL, "/"), s.Bucket)
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
