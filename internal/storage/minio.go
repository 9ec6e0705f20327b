package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"unijournal/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Service хранит файлы (аватары, выгруженные журналы) в MinIO
type Service struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
}

func New(cfg *config.Config) (*Service, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Service{
		client: client,
		bucket: cfg.Storage.Bucket,
		urlTTL: cfg.Storage.PresignedURLTTL,
	}, nil
}

// EnsureBucket создаёт бакет, если его ещё нет
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload сохраняет объект в бакет
func (s *Service) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// PresignedURL генерирует временную ссылку на скачивание объекта
func (s *Service) PresignedURL(ctx context.Context, key, filename string) (string, error) {
	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.urlTTL, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned url: %w", err)
	}
	return presigned.String(), nil
}

// Remove удаляет объект
func (s *Service) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
