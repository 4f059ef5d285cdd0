package repositories

import (
	"time"

	"video-orchestrator/internal/domain/entities"
)

type UploadVideoRepository interface {
	Create(file *entities.FileInfo, upload *entities.UserUploadVideo) error
	GetByID(uploadFileID int64) (*entities.UserUploadVideo, error)

	// UpdateStatusCode points the upload at the given STATUS common-code row.
	UpdateStatusCode(uploadFileID int64, statusCodeID int64) error

	// RebindMediaKey rewrites the upload's FileInfo path to an S3 object key.
	RebindMediaKey(uploadFileID int64, key string) error

	// ListProcessingOlderThan returns uploads still marked with the given
	// status code whose upload date is before the cutoff.
	ListProcessingOlderThan(statusCodeID int64, cutoff time.Time) ([]entities.UserUploadVideo, error)
}
