package repositories

import (
	"time"

	"video-orchestrator/internal/domain/entities"

	"gorm.io/gorm"
)

type UploadVideoRepository struct {
	db *gorm.DB
}

func NewUploadVideoRepository(db *gorm.DB) *UploadVideoRepository {
	return &UploadVideoRepository{db: db}
}

// Create inserts the file row first so the upload row can reference it.
func (r *UploadVideoRepository) Create(file *entities.FileInfo, upload *entities.UserUploadVideo) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(file).Error; err != nil {
			return err
		}
		upload.UploadFileID = file.FileID
		return tx.Create(upload).Error
	})
}

func (r *UploadVideoRepository) GetByID(uploadFileID int64) (*entities.UserUploadVideo, error) {
	var upload entities.UserUploadVideo
	if err := r.db.Preload("UploadFile").Preload("StatusCode").
		First(&upload, "upload_file_id = ?", uploadFileID).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *UploadVideoRepository) UpdateStatusCode(uploadFileID int64, statusCodeID int64) error {
	return r.db.Model(&entities.UserUploadVideo{}).
		Where("upload_file_id = ?", uploadFileID).
		Update("upload_status_code", statusCodeID).Error
}

func (r *UploadVideoRepository) RebindMediaKey(uploadFileID int64, key string) error {
	return r.db.Model(&entities.FileInfo{}).
		Where("file_id = ?", uploadFileID).
		Update("file_path", key).Error
}

func (r *UploadVideoRepository) ListProcessingOlderThan(statusCodeID int64, cutoff time.Time) ([]entities.UserUploadVideo, error) {
	var uploads []entities.UserUploadVideo
	err := r.db.
		Where("upload_status_code = ? AND upload_date < ?", statusCodeID, cutoff).
		Find(&uploads).Error
	return uploads, err
}
