package repositories

import (
	"errors"

	"video-orchestrator/internal/domain/entities"

	"gorm.io/gorm"
)

type SubtitleRepository struct {
	db *gorm.DB
}

func NewSubtitleRepository(db *gorm.DB) *SubtitleRepository {
	return &SubtitleRepository{db: db}
}

// Upsert replaces the payload for (upload, commentator) wholesale. Re-running
// a job never produces a second row for the same pair.
func (r *SubtitleRepository) Upsert(uploadFileID int64, commentatorCodeID *int64, payload []byte) error {
	query := r.db.Where("upload_file_id = ?", uploadFileID)
	if commentatorCodeID != nil {
		query = query.Where("commentator_code = ?", *commentatorCodeID)
	} else {
		query = query.Where("commentator_code IS NULL")
	}

	var existing entities.SubtitleInfo
	err := query.First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return r.db.Create(&entities.SubtitleInfo{
			UploadFileID:    uploadFileID,
			CommentatorCode: commentatorCodeID,
			Subtitle:        payload,
		}).Error
	}

	existing.Subtitle = payload
	return r.db.Save(&existing).Error
}

func (r *SubtitleRepository) GetByUploadAndCommentator(uploadFileID int64, commentatorCodeID int64) (*entities.SubtitleInfo, error) {
	var subtitle entities.SubtitleInfo
	if err := r.db.First(&subtitle, "upload_file_id = ? AND commentator_code = ?", uploadFileID, commentatorCodeID).Error; err != nil {
		return nil, err
	}
	return &subtitle, nil
}
