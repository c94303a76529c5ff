package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"peerflow/internal/config"
	"peerflow/internal/domain"
	"peerflow/internal/port"
)

// allowedManuscriptExtensions maps accepted upload extensions to the
// content type stored alongside the object.
var allowedManuscriptExtensions = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"tex":  "application/x-tex",
	"zip":  "application/zip",
}

// ManuscriptUploadInput is the DTO for manuscript artifact uploads.
type ManuscriptUploadInput struct {
	UploadedBy uuid.UUID
	File       multipart.File
	Header     *multipart.FileHeader
}

// ManuscriptArtifact is the stored-object reference returned by Upload.
// Key is the opaque document reference a submission carries.
type ManuscriptArtifact struct {
	Key         string `json:"key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ManuscriptService stores manuscript artifacts and resolves download URLs.
type ManuscriptService interface {
	Upload(ctx context.Context, input ManuscriptUploadInput) (*ManuscriptArtifact, error)
	GetDownloadURL(ctx context.Context, key string) (string, error)
}

type manuscriptService struct {
	storage port.ObjectStorage
	cfg     *config.S3Config
}

// NewManuscriptService creates a new ManuscriptService implementation.
func NewManuscriptService(storage port.ObjectStorage, cfg *config.S3Config) ManuscriptService {
	return &manuscriptService{storage: storage, cfg: cfg}
}

func (s *manuscriptService) Upload(ctx context.Context, input ManuscriptUploadInput) (*ManuscriptArtifact, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	contentType, ok := allowedManuscriptExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	key := fmt.Sprintf("manuscripts/%s/%s", uuid.New(), input.Header.Filename)

	log.Printf("manuscriptService.Upload: storing %s (%s, %d bytes) uploaded by %s",
		input.Header.Filename, contentType, input.Header.Size, input.UploadedBy)

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("manuscriptService.Upload: storage upload failed for %s: %v", key, err)
		return nil, domain.ErrUploadFailed
	}

	return &ManuscriptArtifact{
		Key:         key,
		FileName:    input.Header.Filename,
		ContentType: contentType,
		Size:        input.Header.Size,
	}, nil
}

func (s *manuscriptService) GetDownloadURL(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, "manuscripts/") {
		return "", domain.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
}
