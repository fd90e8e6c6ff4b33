package repository

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/khushhal7/EduSync-Backend/internal/apperror"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

type BlobRepository interface {
	Upload(ctx context.Context, blobName string, content io.Reader, size int64, contentType string) error
	Download(ctx context.Context, blobName string) (io.ReadCloser, string, int64, error)
	URL(blobName string) string
}

type MinIORepository struct {
	client *minio.Client
	bucket string
	region string
	logger zerolog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinIORepository(endpoint, accessKey, secretKey, bucket, region string, useSSL bool, connectTimeout time.Duration, logger zerolog.Logger) (*MinIORepository, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	repo := &MinIORepository{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}

	// Best-effort bootstrap: не валим сервис, если MinIO ещё не готов на старте.
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := repo.ensureBucket(ctx); err != nil {
		logger.Error().Err(err).
			Str("endpoint", endpoint).
			Str("bucket", bucket).
			Msg("MinIO not ready during startup; will retry on demand")
	}

	logger.Info().
		Str("endpoint", endpoint).
		Str("bucket", bucket).
		Bool("ssl", useSSL).
		Msg("Connected to MinIO")

	return repo, nil
}

func (r *MinIORepository) ensureBucket(ctx context.Context) error {
	r.ensureMu.Lock()
	defer r.ensureMu.Unlock()
	if r.bucketEnsured {
		return nil
	}

	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		r.logger.Info().Str("bucket", r.bucket).Msg("Created new bucket")
	}

	r.bucketEnsured = true
	return nil
}

func (r *MinIORepository) Upload(ctx context.Context, blobName string, content io.Reader, size int64, contentType string) error {
	if err := r.ensureBucket(ctx); err != nil {
		return err
	}

	uploadInfo, err := r.client.PutObject(ctx, r.bucket, blobName, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob: %w", err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("blob", blobName).
		Str("etag", uploadInfo.ETag).
		Int64("size", size).
		Msg("Blob uploaded to MinIO")

	return nil
}

func (r *MinIORepository) Download(ctx context.Context, blobName string) (io.ReadCloser, string, int64, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return nil, "", 0, err
	}

	objInfo, err := r.client.StatObject(ctx, r.bucket, blobName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", 0, apperror.NotFoundMsg(fmt.Sprintf("Blob %s not found.", blobName))
		}
		return nil, "", 0, fmt.Errorf("failed to stat blob: %w", err)
	}

	object, err := r.client.GetObject(ctx, r.bucket, blobName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to get blob: %w", err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("blob", blobName).
		Int64("size", objInfo.Size).
		Msg("Blob downloaded from MinIO")

	return object, objInfo.ContentType, objInfo.Size, nil
}

func (r *MinIORepository) URL(blobName string) string {
	return fmt.Sprintf("%s/%s/%s", r.client.EndpointURL(), r.bucket, blobName)
}
