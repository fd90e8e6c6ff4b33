package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/khushhal7/EduSync-Backend/internal/apperror"
	"github.com/khushhal7/EduSync-Backend/internal/metrics"
	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/khushhal7/EduSync-Backend/internal/repository"
	"github.com/rs/zerolog"
)

const fallbackBlobName = "uploadedfile"

type DownloadFileResponse struct {
	Content     io.ReadCloser
	ContentType string
	Size        int64
	BlobName    string
}

type FileService interface {
	Upload(ctx context.Context, fileName, contentType string, content io.Reader, size int64) (*models.UploadFileResponse, error)
	Download(ctx context.Context, blobName string) (*DownloadFileResponse, error)
}

type fileService struct {
	blobRepo      repository.BlobRepository
	maxUploadSize int64
	collector     metrics.Collector
	logger        zerolog.Logger
}

func NewFileService(blobRepo repository.BlobRepository, maxUploadSize int64, collector metrics.Collector, logger zerolog.Logger) FileService {
	return &fileService{
		blobRepo:      blobRepo,
		maxUploadSize: maxUploadSize,
		collector:     collector,
		logger:        logger,
	}
}

func (s *fileService) Upload(ctx context.Context, fileName, contentType string, content io.Reader, size int64) (*models.UploadFileResponse, error) {
	if content == nil || size == 0 {
		return nil, apperror.InvalidArgument("No file uploaded or file is empty.")
	}
	if size > s.maxUploadSize {
		return nil, apperror.PayloadTooLarge(fmt.Sprintf(
			"File size exceeds the %dMB limit.", s.maxUploadSize/(1024*1024),
		))
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	blobName := generateBlobName(fileName)

	if err := s.blobRepo.Upload(ctx, blobName, content, size, contentType); err != nil {
		return nil, apperror.Dependency("blob upload", err)
	}
	s.collector.RecordFileUploaded()

	url := s.blobRepo.URL(blobName)

	s.logger.Info().
		Str("original_name", fileName).
		Str("blob_name", blobName).
		Str("content_type", contentType).
		Int64("size", size).
		Msg("File uploaded")

	return &models.UploadFileResponse{
		URL:      url,
		BlobName: blobName,
	}, nil
}

func (s *fileService) Download(ctx context.Context, blobName string) (*DownloadFileResponse, error) {
	if blobName == "" {
		return nil, apperror.InvalidArgument("Blob name is required.")
	}

	content, contentType, size, err := s.blobRepo.Download(ctx, blobName)
	if err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.Dependency("blob download", err)
	}

	return &DownloadFileResponse{
		Content:     content,
		ContentType: contentType,
		Size:        size,
		BlobName:    blobName,
	}, nil
}

// generateBlobName строит глобально уникальное имя: uuid-префикс исключает
// коллизии при повторных загрузках файлов с одинаковым именем.
func generateBlobName(fileName string) string {
	sanitized := sanitizeFileName(fileName)
	return fmt.Sprintf("%s_%s", uuid.New().String(), sanitized)
}

func sanitizeFileName(fileName string) string {
	var b strings.Builder
	for _, c := range fileName {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
			b.WriteRune(c)
		case c == ' ' || c == '\t':
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if strings.Trim(sanitized, "._-") == "" {
		return fallbackBlobName
	}

	return sanitized
}
