package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gramm/internal/config"
	"gramm/internal/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Storage interface {
	// Upload stores file under namespace and returns the object path.
	Upload(ctx context.Context, namespace string, fileName string, file io.Reader, size int64) (string, error)
	Delete(ctx context.Context, objectName string) error
	URL(objectName string) string
}

type MinIOClient struct {
	client *minio.Client
	bucket string
	public string
	now    func() time.Time
}

func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.BucketName, err)
		}
		slog.Info("bucket created", slog.String("bucket", cfg.BucketName))
	}

	return &MinIOClient{
		client: client,
		bucket: cfg.BucketName,
		public: strings.TrimSuffix(cfg.PublicURL, "/"),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// ValidateImageName rejects files whose extension is not a supported image type.
func ValidateImageName(fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return models.NewValidationError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	return nil
}

// ObjectName builds "<namespace>/<yyyy>/<mm>/<id><ext>".
func ObjectName(namespace, fileName string, now time.Time, id string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}

	return path.Join(
		strings.Trim(namespace, "/"),
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", int(now.Month())),
		id+ext,
	)
}

func (m *MinIOClient) Upload(ctx context.Context, namespace string, fileName string, file io.Reader, size int64) (string, error) {
	if err := ValidateImageName(fileName); err != nil {
		return "", err
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := m.now()
	objectName := ObjectName(namespace, fileName, now, uuid.New().String())

	_, err := m.client.PutObject(ctx, m.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return objectName, nil
}

func (m *MinIOClient) Delete(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("failed to remove from MinIO: %w", err)
	}
	return nil
}

func (m *MinIOClient) URL(objectName string) string {
	if objectName == "" {
		return ""
	}
	return m.public + "/" + strings.TrimPrefix(objectName, "/")
}
