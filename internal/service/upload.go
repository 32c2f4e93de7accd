package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gramm/internal/models"
	"gramm/internal/storage"
)

// Upload is a file received from a client, not yet stored.
type Upload struct {
	FileName string
	Size     int64
	Content  io.Reader
}

func checkUpload(field string, u Upload, maxSize int64) error {
	if maxSize > 0 && u.Size > maxSize {
		return models.NewValidationError(field, fmt.Sprintf("Image file too large ( > %dmb )", maxSize/(1024*1024)))
	}
	return storage.ValidateImageName(u.FileName)
}

// removeObjects deletes already stored files after a failed write.
func removeObjects(ctx context.Context, store storage.Storage, objects []string) {
	for _, object := range objects {
		if err := store.Delete(ctx, object); err != nil {
			slog.WarnContext(ctx, "failed to remove orphaned object", slog.String("object", object), slog.Any("error", err))
		}
	}
}
